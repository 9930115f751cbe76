package repository

import (
	"context"
	"fmt"

	"github.com/linskybing/nephra/internal/domain/review"
	"gorm.io/gorm"
)

type DBRequestRepo struct {
	db *gorm.DB
}

func NewRequestRepo(db *gorm.DB) *DBRequestRepo {
	return &DBRequestRepo{db: db}
}

func (r *DBRequestRepo) Origin() review.Origin {
	return review.OriginProjectRequest
}

func (r *DBRequestRepo) FetchByID(ctx context.Context, id string) (*review.Record, error) {
	var row RequestRow
	if err := r.db.WithContext(ctx).Preload("Project").Where("id = ?", id).First(&row).Error; err != nil {
		return nil, storeErr(err)
	}
	rec := row.toRecord()
	return &rec, nil
}

func (r *DBRequestRepo) UpdateFields(ctx context.Context, id string, patch review.Patch) error {
	if patch.RejectionReason != nil {
		return fmt.Errorf("%w: project requests have no rejection_reason column", review.ErrValidation)
	}
	if patch.Attachments != nil {
		return fmt.Errorf("%w: project requests have no attachments column", review.ErrValidation)
	}
	cols, err := commonColumns(patch)
	if err != nil {
		return err
	}
	return updateRow(ctx, r.db, &RequestRow{}, id, cols, patch.ExpectedVersion)
}

func (r *DBRequestRepo) DeleteByID(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, &RequestRow{}, id)
}

func (r *DBRequestRepo) ListAll(ctx context.Context) ([]review.Record, error) {
	var rows []RequestRow
	if err := r.db.WithContext(ctx).Preload("Project").Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, storeErr(err)
	}
	out := make([]review.Record, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toRecord())
	}
	return out, nil
}

func (r *DBRequestRepo) Create(ctx context.Context, rec *review.Record) error {
	if rec.Request == nil {
		return fmt.Errorf("%w: request details missing", review.ErrValidation)
	}
	if rec.ProjectID == nil || *rec.ProjectID == "" {
		return fmt.Errorf("%w: project_id is required", review.ErrValidation)
	}
	notes, err := encodeNotes(rec.ProgressNotes)
	if err != nil {
		return fmt.Errorf("%w: %w", review.ErrValidation, err)
	}
	prepareNew(rec)

	row := RequestRow{
		ID:              rec.ID,
		UserID:          rec.UserID,
		ProjectID:       *rec.ProjectID,
		Title:           rec.Title,
		Purpose:         rec.Request.Purpose,
		Semester:        rec.Request.Semester,
		Status:          string(rec.Status),
		AdminNotes:      rec.AdminNotes,
		ProgressProject: rec.Progress,
		ProgressNotes:   notes,
		Version:         rec.Version,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
	return storeErr(r.db.WithContext(ctx).Omit("Project").Create(&row).Error)
}
