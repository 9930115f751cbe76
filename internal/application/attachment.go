package application

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/internal/repository"
	"github.com/linskybing/nephra/pkg/types"
)

// AttachmentStore is the object storage used for application files.
type AttachmentStore interface {
	AttachmentRemover
	Upload(ctx context.Context, applicationID, filename string, r io.Reader, size int64, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string) (string, error)
	RemoveObject(ctx context.Context, key string) error
}

const attachmentType = "file"

type AttachmentService struct {
	Repos *repository.Repos
	store AttachmentStore
}

func NewAttachmentService(repos *repository.Repos, store AttachmentStore) *AttachmentService {
	return &AttachmentService{Repos: repos, store: store}
}

// Upload stores a file for the applicant's own proposal and returns its key
// and a download link.
func (s *AttachmentService) Upload(ctx context.Context, ref review.Ref, actor types.Actor, filename string, r io.Reader, size int64, contentType string) (string, string, error) {
	if s.store == nil {
		return "", "", fmt.Errorf("%w: attachment storage is not configured", review.ErrStoreFailure)
	}

	rec, coll, err := s.Repos.Locate(ctx, ref)
	if err != nil {
		return "", "", err
	}
	if rec.UserID != actor.ID {
		return "", "", ErrForbidden
	}
	if rec.Origin != review.OriginNewProposal {
		return "", "", fmt.Errorf("%w: only new proposals carry attachments", review.ErrValidation)
	}

	key, err := s.store.Upload(ctx, rec.ID, filename, r, size, contentType)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", review.ErrStoreFailure, err)
	}

	// the stored list only keeps the object key; links are presigned on demand
	attachments, err := review.AppendAttachment(rec.Attachments(), review.Attachment{
		Type: attachmentType,
		Name: path.Base(key),
		Data: map[string]any{"object": key, "content_type": contentType, "size": size},
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", review.ErrValidation, err)
	}
	err = coll.UpdateFields(ctx, rec.ID, review.Patch{
		Attachments:     attachments,
		UpdatedAt:       time.Now().UTC(),
		ExpectedVersion: rec.Version,
	})
	if err != nil {
		if rmErr := s.store.RemoveObject(ctx, key); rmErr != nil {
			log.Printf("[attachment] failed to remove orphaned object %s: %v", key, rmErr)
		}
		return "", "", err
	}

	url, err := s.store.PresignedURL(ctx, key)
	if err != nil {
		return key, "", fmt.Errorf("%w: %w", review.ErrStoreFailure, err)
	}
	return key, url, nil
}
