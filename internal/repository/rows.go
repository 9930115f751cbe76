package repository

import (
	"encoding/json"
	"time"

	"github.com/linskybing/nephra/internal/domain/project"
	"github.com/linskybing/nephra/internal/domain/review"
	"gorm.io/datatypes"
)

// ProposalRow is the stored shape of a new-project proposal.
type ProposalRow struct {
	ID              string           `gorm:"primaryKey;type:varchar(36)"`
	UserID          string           `gorm:"size:64;not null;index"`
	ProjectID       *string          `gorm:"size:36;index"`
	Title           *string          `gorm:"size:255"`
	Proposal        string           `gorm:"type:text"`
	Status          string           `gorm:"size:16;not null;default:'pending';index"`
	AdminNotes      *string          `gorm:"type:text"`
	RejectionReason *string          `gorm:"type:text"`
	ProgressProject *float64         `gorm:"column:progress_project"`
	ProgressNotes   datatypes.JSON   `gorm:"column:progress_notes"`
	Attachments     datatypes.JSON   `gorm:"column:attachments"`
	Version         int64            `gorm:"not null;default:1"`
	CreatedAt       time.Time        `gorm:"autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime"`
	Project         *project.Project `gorm:"foreignKey:ProjectID;references:ID"`
}

func (ProposalRow) TableName() string {
	return "project_proposals"
}

// RequestRow is the stored shape of a request to join an existing project.
// It has no rejection_reason column.
type RequestRow struct {
	ID              string           `gorm:"primaryKey;type:varchar(36)"`
	UserID          string           `gorm:"size:64;not null;index"`
	ProjectID       string           `gorm:"size:36;not null;index"`
	Title           *string          `gorm:"size:255"`
	Purpose         string           `gorm:"type:text"`
	Semester        string           `gorm:"size:32"`
	Status          string           `gorm:"size:16;not null;default:'pending';index"`
	AdminNotes      *string          `gorm:"type:text"`
	ProgressProject *float64         `gorm:"column:progress_project"`
	ProgressNotes   datatypes.JSON   `gorm:"column:progress_notes"`
	Version         int64            `gorm:"not null;default:1"`
	CreatedAt       time.Time        `gorm:"autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime"`
	Project         *project.Project `gorm:"foreignKey:ProjectID;references:ID"`
}

func (RequestRow) TableName() string {
	return "project_requests"
}

func (row *ProposalRow) toRecord() review.Record {
	status, _ := review.ParseStatus(row.Status)
	rec := review.Record{
		Origin:        review.OriginNewProposal,
		ID:            row.ID,
		UserID:        row.UserID,
		ProjectID:     row.ProjectID,
		Title:         row.Title,
		Status:        status,
		AdminNotes:    row.AdminNotes,
		Progress:      row.ProgressProject,
		ProgressNotes: decodeNotes(row.ProgressNotes),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		Version:       row.Version,
		Proposal: &review.ProposalDetails{
			Proposal:        row.Proposal,
			RejectionReason: row.RejectionReason,
			Attachments:     json.RawMessage(row.Attachments),
		},
	}
	if row.Project != nil {
		title := row.Project.Title
		rec.ProjectTitle = &title
	}
	return rec
}

func (row *RequestRow) toRecord() review.Record {
	status, _ := review.ParseStatus(row.Status)
	projectID := row.ProjectID
	rec := review.Record{
		Origin:        review.OriginProjectRequest,
		ID:            row.ID,
		UserID:        row.UserID,
		ProjectID:     &projectID,
		Title:         row.Title,
		Status:        status,
		AdminNotes:    row.AdminNotes,
		Progress:      row.ProgressProject,
		ProgressNotes: decodeNotes(row.ProgressNotes),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		Version:       row.Version,
		Request: &review.RequestDetails{
			Purpose:  row.Purpose,
			Semester: row.Semester,
		},
	}
	if row.Project != nil {
		title := row.Project.Title
		rec.ProjectTitle = &title
	}
	return rec
}

func encodeNotes(notes []review.ProgressNote) (datatypes.JSON, error) {
	if notes == nil {
		notes = []review.ProgressNote{}
	}
	b, err := json.Marshal(notes)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// decodeNotes treats an unreadable column as an empty history.
func decodeNotes(raw datatypes.JSON) []review.ProgressNote {
	notes := []review.ProgressNote{}
	if len(raw) == 0 {
		return notes
	}
	if err := json.Unmarshal(raw, &notes); err != nil || notes == nil {
		return []review.ProgressNote{}
	}
	return notes
}
