package application_test

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/linskybing/nephra/internal/domain/audit"
	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/internal/events"
	"github.com/linskybing/nephra/internal/repository"
)

// memCollection is an in-memory CollectionRepo with the same version
// semantics as the real stores.
type memCollection struct {
	origin  review.Origin
	mu      sync.Mutex
	records map[string]review.Record
	writes  int
}

func newMemCollection(origin review.Origin, recs ...review.Record) *memCollection {
	m := &memCollection{origin: origin, records: map[string]review.Record{}}
	for _, r := range recs {
		m.records[r.ID] = r
	}
	return m
}

func (m *memCollection) Origin() review.Origin { return m.origin }

func (m *memCollection) FetchByID(_ context.Context, id string) (*review.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, review.ErrNotFound
	}
	return &r, nil
}

func (m *memCollection) UpdateFields(_ context.Context, id string, patch review.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return review.ErrNotFound
	}
	if patch.RejectionReason != nil && r.Proposal == nil {
		return fmt.Errorf("%w: no rejection_reason column", review.ErrValidation)
	}
	if patch.Attachments != nil && r.Proposal == nil {
		return fmt.Errorf("%w: no attachments column", review.ErrValidation)
	}
	if patch.ExpectedVersion > 0 && patch.ExpectedVersion != r.Version {
		return review.ErrConflict
	}
	m.records[id] = patch.Apply(r)
	m.writes++
	return nil
}

func (m *memCollection) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return review.ErrNotFound
	}
	delete(m.records, id)
	m.writes++
	return nil
}

func (m *memCollection) ListAll(_ context.Context) ([]review.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]review.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

func (m *memCollection) Create(_ context.Context, rec *review.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("%s-%d", m.origin, len(m.records)+1)
	}
	rec.Status = review.StatusPending
	rec.ProgressNotes = []review.ProgressNote{}
	rec.Version = 1
	m.records[rec.ID] = *rec
	return nil
}

type memAudit struct {
	mu   sync.Mutex
	logs []audit.AuditLog
}

func (a *memAudit) CreateAuditLog(_ context.Context, l *audit.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs = append(a.logs, *l)
	return nil
}

func (a *memAudit) GetAuditLogs(_ context.Context, _ repository.AuditQueryParams) ([]audit.AuditLog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]audit.AuditLog(nil), a.logs...), nil
}

func (a *memAudit) DeleteOldAuditLogs(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

func (a *memAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.logs))
	for _, l := range a.logs {
		out = append(out, l.Action)
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type memStore struct {
	removed  []string
	uploaded []string
	deleted  []string
}

func (s *memStore) RemoveApplication(_ context.Context, id string) error {
	s.removed = append(s.removed, id)
	return nil
}

func (s *memStore) Upload(_ context.Context, id, filename string, r io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	key := "applications/" + id + "/" + filename
	s.uploaded = append(s.uploaded, key)
	return key, nil
}

func (s *memStore) RemoveObject(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memStore) PresignedURL(_ context.Context, key string) (string, error) {
	return "https://files.test/" + key + "?sig=1", nil
}

type mapLookup map[string]string

func (m mapLookup) ProjectTitle(_ context.Context, id string) (string, bool) {
	t, ok := m[id]
	return t, ok
}
