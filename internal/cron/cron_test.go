package cron

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/nephra/internal/application"
	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/internal/metrics"
	"github.com/linskybing/nephra/internal/repository"
	"github.com/linskybing/nephra/internal/repository/mock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New(Tasks{}, "not a schedule")
	assert.Error(t, err)
}

func TestNewRegistersJobs(t *testing.T) {
	c, err := New(Tasks{Review: &application.ReviewService{}}, "@daily")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
}

func TestCleanupAuditLogs(t *testing.T) {
	ctrl := gomock.NewController(t)
	audit := mock.NewMockAuditRepo(ctrl)
	audit.EXPECT().DeleteOldAuditLogs(gomock.Any(), 30).Return(int64(4), nil)

	tasks := Tasks{Audit: application.NewAuditService(&repository.Repos{Audit: audit}), RetentionDays: 30}
	tasks.CleanupAuditLogs()

	// disabled retention never touches the store
	tasks.RetentionDays = 0
	tasks.CleanupAuditLogs()
}

func TestRefreshPendingGauge(t *testing.T) {
	ctrl := gomock.NewController(t)
	proposals := mock.NewMockCollectionRepo(ctrl)
	requests := mock.NewMockCollectionRepo(ctrl)

	proposals.EXPECT().ListAll(gomock.Any()).DoAndReturn(func(context.Context) ([]review.Record, error) {
		return []review.Record{
			{Origin: review.OriginNewProposal, ID: "a", Status: review.StatusPending, Proposal: &review.ProposalDetails{}},
			{Origin: review.OriginNewProposal, ID: "b", Status: review.StatusApproved, Proposal: &review.ProposalDetails{}},
		}, nil
	})
	requests.EXPECT().ListAll(gomock.Any()).Return([]review.Record{}, nil)

	repos := &repository.Repos{Proposals: proposals, Requests: requests}
	tasks := Tasks{Review: application.NewReviewService(repos, nil, nil, nil, 3)}
	tasks.RefreshPendingGauge()

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PendingApplications.WithLabelValues("new_proposal")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PendingApplications.WithLabelValues("project_request")))
}
