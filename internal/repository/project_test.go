package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/nephra/internal/domain/project"
	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/internal/repository"
	"github.com/linskybing/nephra/internal/repository/mock"
	"github.com/stretchr/testify/assert"
)

func TestCachedProjectLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })
	ctx := context.Background()

	repo := mock.NewMockProjectRepo(ctrl)
	lookup := repository.NewCachedProjectLookup(repo, time.Minute)

	t.Run("hit is cached", func(t *testing.T) {
		repo.EXPECT().GetByID(gomock.Any(), "p1").Return(&project.Project{ID: "p1", Title: "Rovers"}, nil).Times(1)

		for i := 0; i < 3; i++ {
			title, ok := lookup.ProjectTitle(ctx, "p1")
			assert.True(t, ok)
			assert.Equal(t, "Rovers", title)
		}
	})

	t.Run("miss is cached", func(t *testing.T) {
		repo.EXPECT().GetByID(gomock.Any(), "p2").Return(nil, review.ErrNotFound).Times(1)

		_, ok := lookup.ProjectTitle(ctx, "p2")
		assert.False(t, ok)
		_, ok = lookup.ProjectTitle(ctx, "p2")
		assert.False(t, ok)
	})

	t.Run("store failure is retried", func(t *testing.T) {
		repo.EXPECT().GetByID(gomock.Any(), "p3").Return(nil, errors.New("boom")).Times(2)

		_, ok := lookup.ProjectTitle(ctx, "p3")
		assert.False(t, ok)
		_, ok = lookup.ProjectTitle(ctx, "p3")
		assert.False(t, ok)
	})

	t.Run("invalidate reloads", func(t *testing.T) {
		repo.EXPECT().GetByID(gomock.Any(), "p1").Return(&project.Project{ID: "p1", Title: "Rovers II"}, nil).Times(1)

		lookup.Invalidate("p1")
		title, ok := lookup.ProjectTitle(ctx, "p1")
		assert.True(t, ok)
		assert.Equal(t, "Rovers II", title)
	})
}
