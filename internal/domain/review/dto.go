package review

import "encoding/json"

type CreateProposalDTO struct {
	ProjectID   *string         `json:"project_id"`
	Title       *string         `json:"title"`
	Proposal    string          `json:"proposal" binding:"required"`
	Attachments json.RawMessage `json:"attachments" swaggertype:"object"`
}

type CreateRequestDTO struct {
	ProjectID string  `json:"project_id" binding:"required"`
	Title     *string `json:"title"`
	Purpose   string  `json:"purpose" binding:"required"`
	Semester  string  `json:"semester"`
}

type ApproveDTO struct {
	Notes *string `json:"notes"`
}

type RejectDTO struct {
	Reason string `json:"reason"`
}

type ProgressDTO struct {
	Percent *float64 `json:"percent" binding:"required"`
	Note    string   `json:"note"`
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Status Status
	Origin Origin
	UserID string
}

func (f Filter) Match(r *Record) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Origin != "" && r.Origin != f.Origin {
		return false
	}
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	return true
}
