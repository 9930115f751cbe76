package review

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Origin identifies which collection a record is stored in.
type Origin string

const (
	OriginNewProposal    Origin = "new_proposal"
	OriginProjectRequest Origin = "project_request"
)

// Origins lists every collection in a stable order.
var Origins = []Origin{OriginNewProposal, OriginProjectRequest}

func ParseOrigin(s string) (Origin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case string(OriginNewProposal), "proposal", "proposals":
		return OriginNewProposal, nil
	case string(OriginProjectRequest), "request", "requests":
		return OriginProjectRequest, nil
	}
	return "", fmt.Errorf("%w: unknown origin %q", ErrValidation, s)
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus accepts any letter case; older rows were written capitalised.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

// Ref addresses a single record. An empty Origin means the id is looked up
// in every collection.
type Ref struct {
	Origin Origin
	ID     string
}

func (r Ref) String() string {
	if r.Origin == "" {
		return r.ID
	}
	return string(r.Origin) + "/" + r.ID
}

// Record is one application, unioning the two stored shapes. Exactly one of
// Proposal or Request is set, matching Origin.
type Record struct {
	Origin        Origin         `json:"origin"`
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	ProjectID     *string        `json:"project_id,omitempty"`
	Title         *string        `json:"title,omitempty"`
	Status        Status         `json:"status"`
	AdminNotes    *string        `json:"admin_notes,omitempty"`
	Progress      *float64       `json:"progress_project,omitempty"`
	ProgressNotes []ProgressNote `json:"progress_notes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Version       int64          `json:"version"`

	// ProjectTitle is the linked project's title when the store joined it.
	ProjectTitle *string `json:"project_title,omitempty"`

	Proposal *ProposalDetails `json:"proposal,omitempty"`
	Request  *RequestDetails  `json:"request,omitempty"`
}

// ProposalDetails holds the fields only new proposals carry.
type ProposalDetails struct {
	Proposal        string          `json:"proposal"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	Attachments     json.RawMessage `json:"attachments,omitempty"`
}

// RequestDetails holds the fields only existing-project requests carry.
// This shape has no rejection_reason column.
type RequestDetails struct {
	Purpose  string `json:"purpose"`
	Semester string `json:"semester,omitempty"`
}

func (r *Record) Ref() Ref {
	return Ref{Origin: r.Origin, ID: r.ID}
}

// Validate checks that the variant payload matches the origin tag.
func (r *Record) Validate() error {
	switch r.Origin {
	case OriginNewProposal:
		if r.Proposal == nil || r.Request != nil {
			return fmt.Errorf("%w: new proposal record must carry proposal details only", ErrValidation)
		}
	case OriginProjectRequest:
		if r.Request == nil || r.Proposal != nil {
			return fmt.Errorf("%w: project request record must carry request details only", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown origin %q", ErrValidation, r.Origin)
	}
	return nil
}

// Text returns the free-text body: the proposal or the request purpose.
func (r *Record) Text() string {
	switch {
	case r.Proposal != nil:
		return r.Proposal.Proposal
	case r.Request != nil:
		return r.Request.Purpose
	}
	return ""
}

// Attachments returns the raw attachment payload, if the shape has one.
func (r *Record) Attachments() json.RawMessage {
	if r.Proposal == nil {
		return nil
	}
	return r.Proposal.Attachments
}

// Patch is the partial record written by a single UpdateFields call.
// Nil fields are left untouched.
type Patch struct {
	Status          *Status
	AdminNotes      *string
	RejectionReason *string
	Progress        *float64
	ProgressNotes   []ProgressNote
	Attachments     json.RawMessage
	UpdatedAt       time.Time

	// ExpectedVersion makes the write conditional on the stored version.
	// Zero disables the check.
	ExpectedVersion int64
}

// Apply returns a copy of r with the patch applied, as the store would after
// a successful write.
func (p Patch) Apply(r Record) Record {
	out := r
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.AdminNotes != nil {
		v := *p.AdminNotes
		out.AdminNotes = &v
	}
	if p.RejectionReason != nil && r.Proposal != nil {
		details := *r.Proposal
		v := *p.RejectionReason
		details.RejectionReason = &v
		out.Proposal = &details
	}
	if p.Attachments != nil && out.Proposal != nil {
		details := *out.Proposal
		details.Attachments = append(json.RawMessage(nil), p.Attachments...)
		out.Proposal = &details
	}
	if p.Progress != nil {
		v := *p.Progress
		out.Progress = &v
	}
	if p.ProgressNotes != nil {
		out.ProgressNotes = p.ProgressNotes
	}
	if !p.UpdatedAt.IsZero() {
		out.UpdatedAt = p.UpdatedAt
	}
	out.Version = r.Version + 1
	return out
}
