package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/linskybing/nephra/internal/domain/audit"
	"github.com/linskybing/nephra/internal/domain/project"
	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/internal/repository"
	"github.com/linskybing/nephra/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutils.OpenSQLite(t)
}

func strPtr(s string) *string { return &s }

func newProposal(t *testing.T, repo *repository.DBProposalRepo, projectID *string) *review.Record {
	t.Helper()
	rec := &review.Record{
		Origin:    review.OriginNewProposal,
		UserID:    "u-1",
		ProjectID: projectID,
		Proposal:  &review.ProposalDetails{Proposal: "Title: Cave mapping\nWe map caves."},
	}
	require.NoError(t, repo.Create(context.Background(), rec))
	return rec
}

func TestProposalRepoLifecycle(t *testing.T) {
	gdb := setupDB(t)
	ctx := context.Background()
	require.NoError(t, gdb.Create(&project.Project{ID: "proj-1", Title: "Deep Caves"}).Error)

	repo := repository.NewProposalRepo(gdb)
	rec := newProposal(t, repo, strPtr("proj-1"))
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, review.StatusPending, rec.Status)
	assert.Equal(t, int64(1), rec.Version)

	t.Run("fetch joins project title", func(t *testing.T) {
		got, err := repo.FetchByID(ctx, rec.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ProjectTitle)
		assert.Equal(t, "Deep Caves", *got.ProjectTitle)
		assert.Equal(t, review.OriginNewProposal, got.Origin)
		assert.NotNil(t, got.ProgressNotes)
		assert.NoError(t, got.Validate())
	})

	t.Run("update bumps version", func(t *testing.T) {
		status := review.StatusRejected
		err := repo.UpdateFields(ctx, rec.ID, review.Patch{
			Status:          &status,
			RejectionReason: strPtr("out of scope"),
			UpdatedAt:       time.Now().UTC(),
			ExpectedVersion: 1,
		})
		require.NoError(t, err)

		got, err := repo.FetchByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, review.StatusRejected, got.Status)
		assert.Equal(t, "out of scope", *got.Proposal.RejectionReason)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		status := review.StatusApproved
		err := repo.UpdateFields(ctx, rec.ID, review.Patch{Status: &status, UpdatedAt: time.Now(), ExpectedVersion: 1})
		assert.ErrorIs(t, err, review.ErrConflict)

		got, err := repo.FetchByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, review.StatusRejected, got.Status)
	})

	t.Run("update missing record", func(t *testing.T) {
		status := review.StatusApproved
		err := repo.UpdateFields(ctx, "nope", review.Patch{Status: &status, UpdatedAt: time.Now()})
		assert.ErrorIs(t, err, review.ErrNotFound)
	})

	t.Run("delete then fetch is not found", func(t *testing.T) {
		require.NoError(t, repo.DeleteByID(ctx, rec.ID))
		_, err := repo.FetchByID(ctx, rec.ID)
		assert.ErrorIs(t, err, review.ErrNotFound)
		assert.ErrorIs(t, repo.DeleteByID(ctx, rec.ID), review.ErrNotFound)
	})
}

func TestProgressNotesRoundTrip(t *testing.T) {
	gdb := setupDB(t)
	ctx := context.Background()
	repo := repository.NewProposalRepo(gdb)
	rec := newProposal(t, repo, nil)

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	fraction := 0.4
	notes := review.AppendNote(rec.ProgressNotes, "prototype done", "alice", 40, at)
	require.NoError(t, repo.UpdateFields(ctx, rec.ID, review.Patch{
		Progress:        &fraction,
		ProgressNotes:   notes,
		UpdatedAt:       at,
		ExpectedVersion: rec.Version,
	}))

	got, err := repo.FetchByID(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, got.ProgressNotes, 1)
	assert.Equal(t, "prototype done", got.ProgressNotes[0].Text)
	assert.Equal(t, "alice", got.ProgressNotes[0].Author)
	assert.Equal(t, 40, got.ProgressNotes[0].Value)
	assert.Equal(t, 40, got.Percent())
}

func TestProposalAttachmentsUpdate(t *testing.T) {
	gdb := setupDB(t)
	ctx := context.Background()
	repo := repository.NewProposalRepo(gdb)
	rec := newProposal(t, repo, nil)

	out, err := review.AppendAttachment(rec.Attachments(), review.Attachment{Type: "file", Name: "plan.pdf"})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateFields(ctx, rec.ID, review.Patch{
		Attachments:     out,
		UpdatedAt:       time.Now(),
		ExpectedVersion: rec.Version,
	}))

	got, err := repo.FetchByID(ctx, rec.ID)
	require.NoError(t, err)
	atts := review.DecodeAttachments(got.Attachments())
	require.Len(t, atts, 1)
	assert.Equal(t, "plan.pdf", atts[0].Name)
	assert.Equal(t, rec.Version+1, got.Version)
}

func TestRequestRepo(t *testing.T) {
	gdb := setupDB(t)
	ctx := context.Background()
	repo := repository.NewRequestRepo(gdb)

	t.Run("create requires project", func(t *testing.T) {
		err := repo.Create(ctx, &review.Record{
			Origin:  review.OriginProjectRequest,
			UserID:  "u-2",
			Request: &review.RequestDetails{Purpose: "join"},
		})
		assert.ErrorIs(t, err, review.ErrValidation)
	})

	rec := &review.Record{
		Origin:    review.OriginProjectRequest,
		UserID:    "u-2",
		ProjectID: strPtr("proj-9"),
		Request:   &review.RequestDetails{Purpose: "I want to help", Semester: "2024-fall"},
	}
	require.NoError(t, repo.Create(ctx, rec))

	t.Run("rejection reason column is refused", func(t *testing.T) {
		err := repo.UpdateFields(ctx, rec.ID, review.Patch{RejectionReason: strPtr("x"), UpdatedAt: time.Now()})
		assert.ErrorIs(t, err, review.ErrValidation)
	})

	t.Run("attachments column is refused", func(t *testing.T) {
		err := repo.UpdateFields(ctx, rec.ID, review.Patch{Attachments: json.RawMessage(`[]`), UpdatedAt: time.Now()})
		assert.ErrorIs(t, err, review.ErrValidation)
	})

	t.Run("admin notes update", func(t *testing.T) {
		status := review.StatusRejected
		require.NoError(t, repo.UpdateFields(ctx, rec.ID, review.Patch{
			Status:          &status,
			AdminNotes:      strPtr("REJECTION: full"),
			UpdatedAt:       time.Now(),
			ExpectedVersion: rec.Version,
		}))
		got, err := repo.FetchByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "REJECTION: full", *got.AdminNotes)
		assert.Equal(t, "2024-fall", got.Request.Semester)
		assert.Nil(t, got.ProjectTitle)
	})

	list, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReposLocate(t *testing.T) {
	gdb := setupDB(t)
	ctx := context.Background()
	repos := repository.NewRepositories(gdb)

	req := &review.Record{
		Origin:    review.OriginProjectRequest,
		UserID:    "u-3",
		ProjectID: strPtr("proj-1"),
		Request:   &review.RequestDetails{Purpose: "join"},
	}
	require.NoError(t, repos.Submissions[review.OriginProjectRequest].Create(ctx, req))

	rec, coll, err := repos.Locate(ctx, review.Ref{ID: req.ID})
	require.NoError(t, err)
	assert.Equal(t, review.OriginProjectRequest, coll.Origin())
	assert.Equal(t, req.ID, rec.ID)

	_, _, err = repos.Locate(ctx, review.Ref{Origin: review.OriginNewProposal, ID: req.ID})
	assert.ErrorIs(t, err, review.ErrNotFound)

	_, _, err = repos.Locate(ctx, review.Ref{ID: "missing"})
	assert.ErrorIs(t, err, review.ErrNotFound)

	_, err = repos.Collection("bogus")
	assert.ErrorIs(t, err, review.ErrValidation)
}

func TestAuditRepo(t *testing.T) {
	gdb := setupDB(t)
	ctx := context.Background()
	repo := repository.NewAuditRepo(gdb)

	old := audit.AuditLog{UserID: "admin", Action: "approve", ResourceType: "application", ResourceID: "a", CreatedAt: time.Now().AddDate(0, 0, -120)}
	fresh := audit.AuditLog{UserID: "admin", Action: "reject", ResourceType: "application", ResourceID: "b", CreatedAt: time.Now()}
	require.NoError(t, repo.CreateAuditLog(ctx, &old))
	require.NoError(t, repo.CreateAuditLog(ctx, &fresh))

	action := "reject"
	logs, err := repo.GetAuditLogs(ctx, repository.AuditQueryParams{Action: &action})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "b", logs[0].ResourceID)

	n, err := repo.DeleteOldAuditLogs(ctx, 90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	logs, err = repo.GetAuditLogs(ctx, repository.AuditQueryParams{})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
