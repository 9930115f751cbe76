package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/linskybing/nephra/internal/domain/review"
)

const (
	proposalTable = "project_proposals"
	requestTable  = "project_requests"

	// selectWithProject embeds the linked project's title.
	selectWithProject = "*,projects(title)"
)

// row is the wire shape of both application tables.
type row struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	ProjectID       *string         `json:"project_id"`
	Title           *string         `json:"title"`
	Proposal        *string         `json:"proposal,omitempty"`
	Purpose         *string         `json:"purpose,omitempty"`
	Semester        *string         `json:"semester,omitempty"`
	Status          string          `json:"status"`
	AdminNotes      *string         `json:"admin_notes"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	ProgressProject *float64        `json:"progress_project"`
	ProgressNotes   json.RawMessage `json:"progress_notes"`
	Attachments     json.RawMessage `json:"attachments,omitempty"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Projects        *projectRef     `json:"projects,omitempty"`
}

type projectRef struct {
	Title string `json:"title"`
}

func (r *row) toRecord(origin review.Origin) review.Record {
	status, _ := review.ParseStatus(r.Status)
	rec := review.Record{
		Origin:        origin,
		ID:            r.ID,
		UserID:        r.UserID,
		ProjectID:     r.ProjectID,
		Title:         r.Title,
		Status:        status,
		AdminNotes:    r.AdminNotes,
		Progress:      r.ProgressProject,
		ProgressNotes: decodeNotes(r.ProgressNotes),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Version:       r.Version,
	}
	switch origin {
	case review.OriginNewProposal:
		rec.Proposal = &review.ProposalDetails{
			Proposal:        deref(r.Proposal),
			RejectionReason: r.RejectionReason,
			Attachments:     r.Attachments,
		}
	case review.OriginProjectRequest:
		rec.Request = &review.RequestDetails{
			Purpose:  deref(r.Purpose),
			Semester: deref(r.Semester),
		}
	}
	if r.Projects != nil {
		title := r.Projects.Title
		rec.ProjectTitle = &title
	}
	return rec
}

func decodeNotes(raw json.RawMessage) []review.ProgressNote {
	notes := []review.ProgressNote{}
	if len(raw) == 0 {
		return notes
	}
	if err := json.Unmarshal(raw, &notes); err != nil || notes == nil {
		return []review.ProgressNote{}
	}
	return notes
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Collection stores one application shape in one table.
type Collection struct {
	client *Client
	table  string
	origin review.Origin
}

func NewProposalCollection(c *Client) *Collection {
	return &Collection{client: c, table: proposalTable, origin: review.OriginNewProposal}
}

func NewRequestCollection(c *Client) *Collection {
	return &Collection{client: c, table: requestTable, origin: review.OriginProjectRequest}
}

func (c *Collection) Origin() review.Origin {
	return c.origin
}

func (c *Collection) FetchByID(ctx context.Context, id string) (*review.Record, error) {
	resp, err := c.client.request(ctx).
		SetQueryParams(map[string]string{"id": eq(id), "select": selectWithProject}).
		Get(c.client.buildURL(c.table))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	rows, err := decodeRows[row](resp)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, review.ErrNotFound
	}
	rec := rows[0].toRecord(c.origin)
	return &rec, nil
}

func (c *Collection) UpdateFields(ctx context.Context, id string, patch review.Patch) error {
	body, err := c.patchBody(patch)
	if err != nil {
		return err
	}

	params := map[string]string{"id": eq(id)}
	if patch.ExpectedVersion > 0 {
		params["version"] = eq(strconv.FormatInt(patch.ExpectedVersion, 10))
		body["version"] = patch.ExpectedVersion + 1
	}

	resp, err := c.client.request(ctx).
		SetQueryParams(params).
		SetHeader("Prefer", "return=representation").
		SetBody(body).
		Patch(c.client.buildURL(c.table))
	if err := checkResponse(resp, err); err != nil {
		return err
	}
	rows, err := decodeRows[row](resp)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return nil
	}

	// nothing matched: tell a missing row from a stale version
	if _, err := c.FetchByID(ctx, id); err != nil {
		return err
	}
	return review.ErrConflict
}

func (c *Collection) patchBody(p review.Patch) (map[string]any, error) {
	body := map[string]any{"updated_at": p.UpdatedAt.UTC()}
	if p.Status != nil {
		body["status"] = string(*p.Status)
	}
	if p.AdminNotes != nil {
		body["admin_notes"] = *p.AdminNotes
	}
	if p.RejectionReason != nil {
		if c.origin != review.OriginNewProposal {
			return nil, fmt.Errorf("%w: %s has no rejection_reason column", review.ErrValidation, c.table)
		}
		body["rejection_reason"] = *p.RejectionReason
	}
	if p.Attachments != nil {
		if c.origin != review.OriginNewProposal {
			return nil, fmt.Errorf("%w: %s has no attachments column", review.ErrValidation, c.table)
		}
		body["attachments"] = p.Attachments
	}
	if p.Progress != nil {
		body["progress_project"] = *p.Progress
	}
	if p.ProgressNotes != nil {
		body["progress_notes"] = p.ProgressNotes
	}
	return body, nil
}

func (c *Collection) DeleteByID(ctx context.Context, id string) error {
	resp, err := c.client.request(ctx).
		SetQueryParam("id", eq(id)).
		SetHeader("Prefer", "return=representation").
		Delete(c.client.buildURL(c.table))
	if err := checkResponse(resp, err); err != nil {
		return err
	}
	rows, err := decodeRows[row](resp)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return review.ErrNotFound
	}
	return nil
}

func (c *Collection) ListAll(ctx context.Context) ([]review.Record, error) {
	resp, err := c.client.request(ctx).
		SetQueryParams(map[string]string{"select": selectWithProject, "order": "created_at.desc"}).
		Get(c.client.buildURL(c.table))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	rows, err := decodeRows[row](resp)
	if err != nil {
		return nil, err
	}
	out := make([]review.Record, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toRecord(c.origin))
	}
	return out, nil
}

// Create inserts a new pending application.
func (c *Collection) Create(ctx context.Context, rec *review.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.Origin != c.origin {
		return fmt.Errorf("%w: %s record sent to %s", review.ErrValidation, rec.Origin, c.table)
	}
	if c.origin == review.OriginProjectRequest && (rec.ProjectID == nil || *rec.ProjectID == "") {
		return fmt.Errorf("%w: project_id is required", review.ErrValidation)
	}

	now := time.Now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.Status = review.StatusPending
	rec.ProgressNotes = []review.ProgressNote{}
	rec.CreatedAt, rec.UpdatedAt = now, now
	rec.Version = 1

	notes, _ := json.Marshal(rec.ProgressNotes)
	body := row{
		ID:            rec.ID,
		UserID:        rec.UserID,
		ProjectID:     rec.ProjectID,
		Title:         rec.Title,
		Status:        string(rec.Status),
		AdminNotes:    rec.AdminNotes,
		ProgressNotes: notes,
		Version:       rec.Version,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if rec.Proposal != nil {
		body.Proposal = &rec.Proposal.Proposal
		body.Attachments = rec.Proposal.Attachments
	}
	if rec.Request != nil {
		body.Purpose = &rec.Request.Purpose
		body.Semester = &rec.Request.Semester
	}

	resp, err := c.client.request(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(body).
		Post(c.client.buildURL(c.table))
	return checkResponse(resp, err)
}
