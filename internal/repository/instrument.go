package repository

import (
	"context"
	"time"

	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/internal/metrics"
)

// instrumented records store latency for every collection call.
type instrumented struct {
	next    CollectionRepo
	backend string
}

// Instrument wraps repo so each call is observed under the given backend label.
func Instrument(repo CollectionRepo, backend string) CollectionRepo {
	return &instrumented{next: repo, backend: backend}
}

func (i *instrumented) Origin() review.Origin {
	return i.next.Origin()
}

func (i *instrumented) FetchByID(ctx context.Context, id string) (*review.Record, error) {
	defer metrics.ObserveStore(i.backend, "fetch", time.Now())
	return i.next.FetchByID(ctx, id)
}

func (i *instrumented) UpdateFields(ctx context.Context, id string, patch review.Patch) error {
	defer metrics.ObserveStore(i.backend, "update", time.Now())
	return i.next.UpdateFields(ctx, id, patch)
}

func (i *instrumented) DeleteByID(ctx context.Context, id string) error {
	defer metrics.ObserveStore(i.backend, "delete", time.Now())
	return i.next.DeleteByID(ctx, id)
}

func (i *instrumented) ListAll(ctx context.Context) ([]review.Record, error) {
	defer metrics.ObserveStore(i.backend, "list", time.Now())
	return i.next.ListAll(ctx)
}
