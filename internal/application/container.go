package application

import (
	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/internal/events"
	"github.com/linskybing/nephra/internal/repository"
)

// Deps are the collaborators services need beyond the repositories.
type Deps struct {
	Lookup      review.ProjectLookup
	Events      events.Publisher
	Attachments AttachmentStore
	RecentNotes int
}

type Services struct {
	Audit      *AuditService
	Review     *ReviewService
	Submission *SubmissionService
	Attachment *AttachmentService
	Project    *ProjectService
}

func New(repos *repository.Repos, deps Deps) *Services {
	var remover AttachmentRemover
	if deps.Attachments != nil {
		remover = deps.Attachments
	}
	reviews := NewReviewService(repos, deps.Lookup, deps.Events, remover, deps.RecentNotes)
	return &Services{
		Audit:      NewAuditService(repos),
		Review:     reviews,
		Submission: NewSubmissionService(repos, reviews, deps.Events),
		Attachment: NewAttachmentService(repos, deps.Attachments),
		Project:    NewProjectService(repos),
	}
}
