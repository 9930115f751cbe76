package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/linskybing/nephra/internal/domain/project"
	"github.com/linskybing/nephra/internal/domain/review"
	"gorm.io/gorm"
)

const BackendGorm = "gorm"

type Repos struct {
	Proposals   CollectionRepo
	Requests    CollectionRepo
	Submissions map[review.Origin]SubmissionRepo
	Project     project.Repository
	Audit       AuditRepo
}

func NewRepositories(db *gorm.DB) *Repos {
	proposals := NewProposalRepo(db)
	requests := NewRequestRepo(db)
	return &Repos{
		Proposals: Instrument(proposals, BackendGorm),
		Requests:  Instrument(requests, BackendGorm),
		Submissions: map[review.Origin]SubmissionRepo{
			review.OriginNewProposal:    proposals,
			review.OriginProjectRequest: requests,
		},
		Project: NewProjectRepo(db),
		Audit:   NewAuditRepo(db),
	}
}

// Collection returns the repo that stores records of the given origin.
func (r *Repos) Collection(origin review.Origin) (CollectionRepo, error) {
	switch origin {
	case review.OriginNewProposal:
		return r.Proposals, nil
	case review.OriginProjectRequest:
		return r.Requests, nil
	}
	return nil, fmt.Errorf("%w: unknown origin %q", review.ErrValidation, origin)
}

// Locate fetches the record a ref points to. Refs without an origin are
// looked up in every collection.
func (r *Repos) Locate(ctx context.Context, ref review.Ref) (*review.Record, CollectionRepo, error) {
	if ref.Origin != "" {
		coll, err := r.Collection(ref.Origin)
		if err != nil {
			return nil, nil, err
		}
		rec, err := coll.FetchByID(ctx, ref.ID)
		if err != nil {
			return nil, nil, err
		}
		return rec, coll, nil
	}

	for _, origin := range review.Origins {
		coll, _ := r.Collection(origin)
		rec, err := coll.FetchByID(ctx, ref.ID)
		if err == nil {
			return rec, coll, nil
		}
		if !errors.Is(err, review.ErrNotFound) {
			return nil, nil, err
		}
	}
	return nil, nil, review.ErrNotFound
}

func isNotFound(err error) bool {
	return errors.Is(err, review.ErrNotFound)
}
