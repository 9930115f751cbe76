package application

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/internal/events"
	"github.com/linskybing/nephra/internal/metrics"
	"github.com/linskybing/nephra/internal/repository"
	"github.com/linskybing/nephra/pkg/types"
	"github.com/linskybing/nephra/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const (
	ResourceApplication = "application"

	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionProgress = "progress"
	ActionDelete   = "delete"
)

// AttachmentRemover drops stored files of a deleted application.
type AttachmentRemover interface {
	RemoveApplication(ctx context.Context, applicationID string) error
}

// ApplicationView is a record plus everything the review screens display.
type ApplicationView struct {
	review.Record
	DisplayTitle string                `json:"display_title"`
	Percent      int                   `json:"percent"`
	RecentNotes  []review.ProgressNote `json:"recent_notes"`
	Actions      review.Actions        `json:"actions"`
}

type ReviewService struct {
	Repos       *repository.Repos
	lookup      review.ProjectLookup
	events      events.Publisher
	attachments AttachmentRemover
	recentNotes int
	now         func() time.Time
}

func NewReviewService(repos *repository.Repos, lookup review.ProjectLookup, pub events.Publisher, attachments AttachmentRemover, recentNotes int) *ReviewService {
	if recentNotes <= 0 {
		recentNotes = 3
	}
	return &ReviewService{
		Repos:       repos,
		lookup:      lookup,
		events:      pub,
		attachments: attachments,
		recentNotes: recentNotes,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Approve moves a pending application to approved. Nil notes keep the
// current admin notes.
func (s *ReviewService) Approve(ctx context.Context, ref review.Ref, notes *string, actor types.Actor) (*ApplicationView, error) {
	return s.mutate(ctx, ref, ActionApprove, actor, func(rec *review.Record) (review.Patch, error) {
		return review.Approve(rec, notes, s.now())
	})
}

func (s *ReviewService) Reject(ctx context.Context, ref review.Ref, reason string, actor types.Actor) (*ApplicationView, error) {
	if strings.TrimSpace(reason) == "" {
		err := fmt.Errorf("%w: rejection reason is required", review.ErrValidation)
		s.record(ActionReject, ref.Origin, err)
		return nil, err
	}
	return s.mutate(ctx, ref, ActionReject, actor, func(rec *review.Record) (review.Patch, error) {
		return review.Reject(rec, reason, s.now())
	})
}

// UpdateProgress sets the completion percentage and appends a note written
// by the actor.
func (s *ReviewService) UpdateProgress(ctx context.Context, ref review.Ref, percent float64, note string, actor types.Actor) (*ApplicationView, error) {
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		err := fmt.Errorf("%w: percent must be a number", review.ErrValidation)
		s.record(ActionProgress, ref.Origin, err)
		return nil, err
	}
	author := actor.Name
	if author == "" {
		author = actor.ID
	}
	return s.mutate(ctx, ref, ActionProgress, actor, func(rec *review.Record) (review.Patch, error) {
		return review.UpdateProgress(rec, percent, note, author, s.now())
	})
}

// Delete removes an application permanently. The caller must confirm.
func (s *ReviewService) Delete(ctx context.Context, ref review.Ref, confirmed bool, actor types.Actor) error {
	if !confirmed {
		err := fmt.Errorf("%w: deletion must be confirmed", review.ErrValidation)
		s.record(ActionDelete, ref.Origin, err)
		return err
	}

	rec, coll, err := s.Repos.Locate(ctx, ref)
	if err != nil {
		s.record(ActionDelete, ref.Origin, err)
		return err
	}
	if err := coll.DeleteByID(ctx, rec.ID); err != nil {
		s.record(ActionDelete, rec.Origin, err)
		return err
	}
	s.record(ActionDelete, rec.Origin, nil)

	utils.LogAuditWithConsole(ctx, actor, ActionDelete, ResourceApplication, rec.ID, rec, nil,
		fmt.Sprintf("Deleted %s application %s", rec.Origin, rec.ID), s.Repos.Audit)

	if s.attachments != nil && rec.Origin == review.OriginNewProposal {
		if err := s.attachments.RemoveApplication(ctx, rec.ID); err != nil {
			log.Printf("[review] failed to remove attachments of %s: %v", rec.ID, err)
		}
	}

	s.publish(events.EventDeleted, rec, actor)
	return nil
}

func (s *ReviewService) Get(ctx context.Context, ref review.Ref) (*ApplicationView, error) {
	rec, _, err := s.Repos.Locate(ctx, ref)
	if err != nil {
		return nil, err
	}
	v := s.view(ctx, rec)
	return &v, nil
}

// List returns applications from both collections, newest first.
func (s *ReviewService) List(ctx context.Context, filter review.Filter) ([]ApplicationView, error) {
	var colls []repository.CollectionRepo
	for _, origin := range review.Origins {
		if filter.Origin != "" && filter.Origin != origin {
			continue
		}
		coll, err := s.Repos.Collection(origin)
		if err != nil {
			return nil, err
		}
		colls = append(colls, coll)
	}

	results := make([][]review.Record, len(colls))
	g, gctx := errgroup.WithContext(ctx)
	for i, coll := range colls {
		g.Go(func() error {
			recs, err := coll.ListAll(gctx)
			if err != nil {
				return fmt.Errorf("list %s: %w", coll.Origin(), err)
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []review.Record
	for _, recs := range results {
		for i := range recs {
			if filter.Match(&recs[i]) {
				merged = append(merged, recs[i])
			}
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	views := make([]ApplicationView, 0, len(merged))
	for i := range merged {
		views = append(views, s.view(ctx, &merged[i]))
	}
	return views, nil
}

func (s *ReviewService) ListPending(ctx context.Context) ([]ApplicationView, error) {
	return s.List(ctx, review.Filter{Status: review.StatusPending})
}

// mutate runs one review action: fetch, compute the patch, then a single
// conditional write.
func (s *ReviewService) mutate(ctx context.Context, ref review.Ref, action string, actor types.Actor, next func(*review.Record) (review.Patch, error)) (*ApplicationView, error) {
	rec, coll, err := s.Repos.Locate(ctx, ref)
	if err != nil {
		s.record(action, ref.Origin, err)
		return nil, err
	}

	patch, err := next(rec)
	if err != nil {
		s.record(action, rec.Origin, err)
		return nil, err
	}
	if err := coll.UpdateFields(ctx, rec.ID, patch); err != nil {
		s.record(action, rec.Origin, err)
		return nil, err
	}
	s.record(action, rec.Origin, nil)

	updated := patch.Apply(*rec)
	utils.LogAuditWithConsole(ctx, actor, action, ResourceApplication, rec.ID, rec, &updated,
		fmt.Sprintf("%s %s application %s", action, rec.Origin, rec.ID), s.Repos.Audit)

	s.publish(eventType(action), &updated, actor)

	v := s.view(ctx, &updated)
	return &v, nil
}

func (s *ReviewService) view(ctx context.Context, rec *review.Record) ApplicationView {
	return ApplicationView{
		Record:       *rec,
		DisplayTitle: review.ResolveTitle(ctx, rec, s.lookup),
		Percent:      rec.Percent(),
		RecentNotes:  review.RecentNotes(rec.ProgressNotes, s.recentNotes),
		Actions:      review.AvailableActions(rec),
	}
}

func (s *ReviewService) publish(kind string, rec *review.Record, actor types.Actor) {
	if s.events == nil {
		return
	}
	ev := events.Event{
		Type:   kind,
		Origin: rec.Origin,
		ID:     rec.ID,
		Actor:  actor.Name,
		At:     s.now(),
	}
	if kind != events.EventDeleted {
		ev.Status = rec.Status
		ev.Percent = rec.Percent()
	}
	s.events.Publish(ev)
}

func (s *ReviewService) record(action string, origin review.Origin, err error) {
	label := string(origin)
	if label == "" {
		label = "unknown"
	}
	metrics.ReviewTransitions.WithLabelValues(action, label, metrics.Result(err)).Inc()
}

func eventType(action string) string {
	switch action {
	case ActionApprove:
		return events.EventApproved
	case ActionReject:
		return events.EventRejected
	case ActionProgress:
		return events.EventProgress
	}
	return action
}
