package handlers

import (
	"github.com/linskybing/nephra/internal/application"
	"github.com/linskybing/nephra/internal/events"
)

type Handlers struct {
	Audit      *AuditHandler
	Review     *ReviewHandler
	Submission *SubmissionHandler
	Attachment *AttachmentHandler
	Project    *ProjectHandler
	Events     *EventsHandler
}

func New(svc *application.Services, hub *events.Hub) *Handlers {
	return &Handlers{
		Audit:      NewAuditHandler(svc.Audit),
		Review:     NewReviewHandler(svc.Review),
		Submission: NewSubmissionHandler(svc.Submission),
		Attachment: NewAttachmentHandler(svc.Attachment),
		Project:    NewProjectHandler(svc.Project),
		Events:     NewEventsHandler(hub),
	}
}
