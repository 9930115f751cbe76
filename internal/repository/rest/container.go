package rest

import (
	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/internal/repository"
)

const Backend = "rest"

// NewRepositories builds the repository set on top of the data API.
func NewRepositories(c *Client) *repository.Repos {
	proposals := NewProposalCollection(c)
	requests := NewRequestCollection(c)
	return &repository.Repos{
		Proposals: repository.Instrument(proposals, Backend),
		Requests:  repository.Instrument(requests, Backend),
		Submissions: map[review.Origin]repository.SubmissionRepo{
			review.OriginNewProposal:    proposals,
			review.OriginProjectRequest: requests,
		},
		Project: NewProjectRepo(c),
		Audit:   NewAuditRepo(c),
	}
}
