package cron

import (
	"context"
	"log"
	"time"

	"github.com/linskybing/nephra/internal/application"
	"github.com/linskybing/nephra/internal/metrics"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 2 * time.Minute

// Tasks are the housekeeping jobs run on a schedule.
type Tasks struct {
	Audit         *application.AuditService
	Review        *application.ReviewService
	RetentionDays int
}

// New registers the audit cleanup on cleanupSpec and the pending gauge
// refresh every five minutes. The returned scheduler is not started.
func New(tasks Tasks, cleanupSpec string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))

	if _, err := c.AddFunc(cleanupSpec, tasks.CleanupAuditLogs); err != nil {
		return nil, err
	}
	if tasks.Review != nil {
		if _, err := c.AddFunc("@every 5m", tasks.RefreshPendingGauge); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// StartCleanupTask runs every job once, then starts the schedule.
func StartCleanupTask(tasks Tasks, cleanupSpec string) (*cron.Cron, error) {
	c, err := New(tasks, cleanupSpec)
	if err != nil {
		return nil, err
	}
	log.Printf("Starting background cleanup task (retention: %d days, schedule: %s)", tasks.RetentionDays, cleanupSpec)

	go func() {
		tasks.CleanupAuditLogs()
		if tasks.Review != nil {
			tasks.RefreshPendingGauge()
		}
	}()
	c.Start()
	return c, nil
}

func (t Tasks) CleanupAuditLogs() {
	if t.Audit == nil || t.RetentionDays <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := t.Audit.CleanupOldLogs(ctx, t.RetentionDays)
	if err != nil {
		log.Printf("Failed to cleanup old audit logs: %v", err)
		return
	}
	log.Printf("Audit log cleanup completed, removed %d entries", n)
}

func (t Tasks) RefreshPendingGauge() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	pending, err := t.Review.ListPending(ctx)
	if err != nil {
		log.Printf("Failed to count pending applications: %v", err)
		return
	}
	counts := map[string]int{}
	for i := range pending {
		counts[string(pending[i].Origin)]++
	}
	metrics.SetPending(counts)
}
