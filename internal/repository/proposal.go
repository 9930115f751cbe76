package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/linskybing/nephra/internal/domain/review"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DBProposalRepo struct {
	db *gorm.DB
}

func NewProposalRepo(db *gorm.DB) *DBProposalRepo {
	return &DBProposalRepo{db: db}
}

func (r *DBProposalRepo) Origin() review.Origin {
	return review.OriginNewProposal
}

func (r *DBProposalRepo) FetchByID(ctx context.Context, id string) (*review.Record, error) {
	var row ProposalRow
	if err := r.db.WithContext(ctx).Preload("Project").Where("id = ?", id).First(&row).Error; err != nil {
		return nil, storeErr(err)
	}
	rec := row.toRecord()
	return &rec, nil
}

func (r *DBProposalRepo) UpdateFields(ctx context.Context, id string, patch review.Patch) error {
	cols, err := commonColumns(patch)
	if err != nil {
		return err
	}
	if patch.RejectionReason != nil {
		cols["rejection_reason"] = *patch.RejectionReason
	}
	if patch.Attachments != nil {
		cols["attachments"] = datatypes.JSON(patch.Attachments)
	}
	return updateRow(ctx, r.db, &ProposalRow{}, id, cols, patch.ExpectedVersion)
}

func (r *DBProposalRepo) DeleteByID(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, &ProposalRow{}, id)
}

func (r *DBProposalRepo) ListAll(ctx context.Context) ([]review.Record, error) {
	var rows []ProposalRow
	if err := r.db.WithContext(ctx).Preload("Project").Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, storeErr(err)
	}
	out := make([]review.Record, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toRecord())
	}
	return out, nil
}

func (r *DBProposalRepo) Create(ctx context.Context, rec *review.Record) error {
	if rec.Proposal == nil {
		return fmt.Errorf("%w: proposal details missing", review.ErrValidation)
	}
	notes, err := encodeNotes(rec.ProgressNotes)
	if err != nil {
		return fmt.Errorf("%w: %w", review.ErrValidation, err)
	}
	prepareNew(rec)

	row := ProposalRow{
		ID:              rec.ID,
		UserID:          rec.UserID,
		ProjectID:       rec.ProjectID,
		Title:           rec.Title,
		Proposal:        rec.Proposal.Proposal,
		Status:          string(rec.Status),
		AdminNotes:      rec.AdminNotes,
		RejectionReason: rec.Proposal.RejectionReason,
		ProgressProject: rec.Progress,
		ProgressNotes:   notes,
		Attachments:     datatypes.JSON(rec.Proposal.Attachments),
		Version:         rec.Version,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
	return storeErr(r.db.WithContext(ctx).Omit("Project").Create(&row).Error)
}

// prepareNew fills the identity, status and timestamps of a new record.
func prepareNew(rec *review.Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = review.StatusPending
	}
	if rec.ProgressNotes == nil {
		rec.ProgressNotes = []review.ProgressNote{}
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = rec.CreatedAt
	rec.Version = 1
}
