package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/internal/events"
	"github.com/linskybing/nephra/internal/repository"
	"github.com/linskybing/nephra/pkg/types"
	"github.com/linskybing/nephra/pkg/utils"
)

const ActionCreate = "create"

// SubmissionService handles applicant-side creation of applications.
type SubmissionService struct {
	Repos   *repository.Repos
	reviews *ReviewService
	events  events.Publisher
}

func NewSubmissionService(repos *repository.Repos, reviews *ReviewService, pub events.Publisher) *SubmissionService {
	return &SubmissionService{Repos: repos, reviews: reviews, events: pub}
}

func (s *SubmissionService) SubmitProposal(ctx context.Context, actor types.Actor, input review.CreateProposalDTO) (*review.Record, error) {
	if strings.TrimSpace(input.Proposal) == "" {
		return nil, fmt.Errorf("%w: proposal text is required", review.ErrValidation)
	}
	if len(input.Attachments) > 0 && !json.Valid(input.Attachments) {
		return nil, fmt.Errorf("%w: attachments must be JSON", review.ErrValidation)
	}
	if input.ProjectID != nil && *input.ProjectID != "" {
		if err := s.checkProject(ctx, *input.ProjectID); err != nil {
			return nil, err
		}
	}

	rec := &review.Record{
		Origin:    review.OriginNewProposal,
		UserID:    actor.ID,
		ProjectID: input.ProjectID,
		Title:     input.Title,
		Proposal: &review.ProposalDetails{
			Proposal:    input.Proposal,
			Attachments: input.Attachments,
		},
	}
	return rec, s.create(ctx, actor, rec)
}

func (s *SubmissionService) SubmitRequest(ctx context.Context, actor types.Actor, input review.CreateRequestDTO) (*review.Record, error) {
	if strings.TrimSpace(input.Purpose) == "" {
		return nil, fmt.Errorf("%w: purpose is required", review.ErrValidation)
	}
	if err := s.checkProject(ctx, input.ProjectID); err != nil {
		return nil, err
	}

	projectID := input.ProjectID
	rec := &review.Record{
		Origin:    review.OriginProjectRequest,
		UserID:    actor.ID,
		ProjectID: &projectID,
		Title:     input.Title,
		Request: &review.RequestDetails{
			Purpose:  input.Purpose,
			Semester: input.Semester,
		},
	}
	return rec, s.create(ctx, actor, rec)
}

// ListMine returns the caller's own applications.
func (s *SubmissionService) ListMine(ctx context.Context, userID string) ([]ApplicationView, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", review.ErrValidation)
	}
	return s.reviews.List(ctx, review.Filter{UserID: userID})
}

func (s *SubmissionService) create(ctx context.Context, actor types.Actor, rec *review.Record) error {
	if actor.ID == "" {
		return fmt.Errorf("%w: applicant is unknown", review.ErrValidation)
	}
	repo, ok := s.Repos.Submissions[rec.Origin]
	if !ok {
		return fmt.Errorf("%w: unknown origin %q", review.ErrValidation, rec.Origin)
	}
	if err := repo.Create(ctx, rec); err != nil {
		return err
	}

	utils.LogAuditWithConsole(ctx, actor, ActionCreate, ResourceApplication, rec.ID, nil, rec,
		fmt.Sprintf("Submitted %s application %s", rec.Origin, rec.ID), s.Repos.Audit)

	if s.events != nil {
		s.events.Publish(events.Event{
			Type:   events.EventCreated,
			Origin: rec.Origin,
			ID:     rec.ID,
			Status: rec.Status,
			Actor:  actor.Name,
			At:     rec.CreatedAt,
		})
	}
	return nil
}

func (s *SubmissionService) checkProject(ctx context.Context, projectID string) error {
	if s.Repos.Project == nil {
		return nil
	}
	if _, err := s.Repos.Project.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, review.ErrNotFound) {
			return fmt.Errorf("%w: project %s does not exist", review.ErrValidation, projectID)
		}
		return err
	}
	return nil
}
