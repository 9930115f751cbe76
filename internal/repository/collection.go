package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/linskybing/nephra/internal/domain/review"
	"gorm.io/gorm"
)

// CollectionRepo is the full storage boundary of the review workflow for one
// record shape.
type CollectionRepo interface {
	Origin() review.Origin
	FetchByID(ctx context.Context, id string) (*review.Record, error)
	UpdateFields(ctx context.Context, id string, patch review.Patch) error
	DeleteByID(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]review.Record, error)
}

// SubmissionRepo inserts new applications. It sits outside the review
// boundary; reviewers never create records.
type SubmissionRepo interface {
	Create(ctx context.Context, rec *review.Record) error
}

func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return review.ErrNotFound
	}
	return fmt.Errorf("%w: %w", review.ErrStoreFailure, err)
}

// updateRow performs a single conditional UPDATE and tells apart a missing
// row from a version mismatch when nothing was written.
func updateRow(ctx context.Context, db *gorm.DB, model any, id string, cols map[string]any, expected int64) error {
	cols["version"] = gorm.Expr("version + 1")

	q := db.WithContext(ctx).Model(model).Where("id = ?", id)
	if expected > 0 {
		q = q.Where("version = ?", expected)
	}
	res := q.Updates(cols)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return storeErr(err)
	}
	if count == 0 {
		return review.ErrNotFound
	}
	return review.ErrConflict
}

func deleteRow(ctx context.Context, db *gorm.DB, model any, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return review.ErrNotFound
	}
	return nil
}

// commonColumns maps the patch fields both shapes share.
func commonColumns(p review.Patch) (map[string]any, error) {
	cols := map[string]any{"updated_at": p.UpdatedAt}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.AdminNotes != nil {
		cols["admin_notes"] = *p.AdminNotes
	}
	if p.Progress != nil {
		cols["progress_project"] = *p.Progress
	}
	if p.ProgressNotes != nil {
		notes, err := encodeNotes(p.ProgressNotes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", review.ErrValidation, err)
		}
		cols["progress_notes"] = notes
	}
	return cols, nil
}
