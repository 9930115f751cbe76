package application_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/nephra/internal/application"
	"github.com/linskybing/nephra/internal/domain/project"
	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/internal/repository"
	"github.com/linskybing/nephra/internal/repository/mock"
	"github.com/linskybing/nephra/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var applicant = types.Actor{ID: "u-7", Name: "Lin"}

func setupSubmissions(t *testing.T) (*application.Services, *fixture, *mock.MockProjectRepo) {
	t.Helper()
	ctrl := gomock.NewController(t)
	projects := mock.NewMockProjectRepo(ctrl)

	f := newFixture(t)
	repos := &repository.Repos{
		Proposals: f.proposals,
		Requests:  f.requests,
		Submissions: map[review.Origin]repository.SubmissionRepo{
			review.OriginNewProposal:    f.proposals,
			review.OriginProjectRequest: f.requests,
		},
		Project: projects,
		Audit:   f.audit,
	}
	svc := application.New(repos, application.Deps{
		Lookup:      repository.NewCachedProjectLookup(projects, 0),
		Events:      f.events,
		Attachments: f.store,
		RecentNotes: 3,
	})
	return svc, f, projects
}

func TestSubmitProposal(t *testing.T) {
	svc, f, _ := setupSubmissions(t)
	ctx := context.Background()

	rec, err := svc.Submission.SubmitProposal(ctx, applicant, review.CreateProposalDTO{
		Proposal:    "A telescope array",
		Attachments: json.RawMessage(`[{"type":"form","data":{"title":"Alpha"}}]`),
	})
	require.NoError(t, err)
	assert.Equal(t, review.StatusPending, rec.Status)
	assert.Equal(t, "u-7", rec.UserID)
	assert.Equal(t, []string{application.ActionCreate}, f.audit.actions())
	assert.Equal(t, []string{"created"}, f.events.types())

	mine, err := svc.Submission.ListMine(ctx, "u-7")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Alpha", mine[0].DisplayTitle)

	_, err = svc.Submission.SubmitProposal(ctx, applicant, review.CreateProposalDTO{Proposal: "x", Attachments: json.RawMessage(`{broken`)})
	assert.ErrorIs(t, err, review.ErrValidation)

	_, err = svc.Submission.SubmitProposal(ctx, types.Actor{}, review.CreateProposalDTO{Proposal: "x"})
	assert.ErrorIs(t, err, review.ErrValidation)
}

func TestSubmitRequest(t *testing.T) {
	svc, _, projects := setupSubmissions(t)
	ctx := context.Background()

	projects.EXPECT().GetByID(gomock.Any(), "proj-1").Return(&project.Project{ID: "proj-1", Title: "Beta"}, nil)
	rec, err := svc.Submission.SubmitRequest(ctx, applicant, review.CreateRequestDTO{ProjectID: "proj-1", Purpose: "join the team"})
	require.NoError(t, err)
	assert.Equal(t, review.OriginProjectRequest, rec.Origin)
	assert.Equal(t, "proj-1", *rec.ProjectID)

	projects.EXPECT().GetByID(gomock.Any(), "nope").Return(nil, review.ErrNotFound)
	_, err = svc.Submission.SubmitRequest(ctx, applicant, review.CreateRequestDTO{ProjectID: "nope", Purpose: "join"})
	assert.ErrorIs(t, err, review.ErrValidation)

	_, err = svc.Submission.SubmitRequest(ctx, applicant, review.CreateRequestDTO{ProjectID: "proj-1", Purpose: " "})
	assert.ErrorIs(t, err, review.ErrValidation)
}

func TestAttachmentUpload(t *testing.T) {
	svc, f, _ := setupSubmissions(t)
	ctx := context.Background()

	rec, err := svc.Submission.SubmitProposal(ctx, applicant, review.CreateProposalDTO{Proposal: "drones"})
	require.NoError(t, err)
	ref := review.Ref{ID: rec.ID}

	key, url, err := svc.Attachment.Upload(ctx, ref, applicant, "plan.pdf", strings.NewReader("pdf"), 3, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "applications/"+rec.ID+"/plan.pdf", key)
	assert.Contains(t, url, key)
	assert.Equal(t, []string{key}, f.store.uploaded)

	stored, err := f.proposals.FetchByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Version)
	atts := review.DecodeAttachments(stored.Attachments())
	require.Len(t, atts, 1)
	assert.Equal(t, "plan.pdf", atts[0].Name)
	assert.Equal(t, key, atts[0].Data["object"])

	_, _, err = svc.Attachment.Upload(ctx, ref, applicant, "budget.xlsx", strings.NewReader("xls"), 3, "")
	require.NoError(t, err)
	stored, err = f.proposals.FetchByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Len(t, review.DecodeAttachments(stored.Attachments()), 2)
	assert.Empty(t, f.store.deleted)

	_, _, err = svc.Attachment.Upload(ctx, ref, types.Actor{ID: "someone-else"}, "x", strings.NewReader(""), 0, "")
	assert.ErrorIs(t, err, application.ErrForbidden)

	_, _, err = svc.Attachment.Upload(ctx, review.Ref{ID: "missing"}, applicant, "x", strings.NewReader(""), 0, "")
	assert.ErrorIs(t, err, review.ErrNotFound)
}

func TestAttachmentUploadConflictRemovesObject(t *testing.T) {
	ctrl := gomock.NewController(t)
	proposals := mock.NewMockCollectionRepo(ctrl)
	store := &memStore{}
	svc := application.NewAttachmentService(&repository.Repos{Proposals: proposals}, store)
	ctx := context.Background()

	rec := &review.Record{
		Origin:   review.OriginNewProposal,
		ID:       "p-9",
		UserID:   applicant.ID,
		Status:   review.StatusPending,
		Version:  4,
		Proposal: &review.ProposalDetails{Proposal: "kites"},
	}
	proposals.EXPECT().FetchByID(gomock.Any(), "p-9").Return(rec, nil)
	proposals.EXPECT().UpdateFields(gomock.Any(), "p-9", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, p review.Patch) error {
			assert.Equal(t, int64(4), p.ExpectedVersion)
			assert.Len(t, review.DecodeAttachments(p.Attachments), 1)
			return review.ErrConflict
		})

	ref := review.Ref{Origin: review.OriginNewProposal, ID: "p-9"}
	_, _, err := svc.Upload(ctx, ref, applicant, "kite.png", strings.NewReader("png"), 3, "image/png")
	assert.ErrorIs(t, err, review.ErrConflict)
	assert.Equal(t, []string{"applications/p-9/kite.png"}, store.deleted)
}
