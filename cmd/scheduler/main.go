package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/linskybing/nephra/internal/application"
	"github.com/linskybing/nephra/internal/config"
	"github.com/linskybing/nephra/internal/config/db"
	"github.com/linskybing/nephra/internal/cron"
	"github.com/linskybing/nephra/internal/repository"
	"github.com/linskybing/nephra/internal/repository/rest"
)

// The scheduler runs housekeeping only, for deployments where the API is
// started with --no-cron.
func main() {
	config.LoadConfig()
	if f := config.InitLogging(); f != nil {
		defer f.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("Scheduler error: %v", err)
	}
}

func run(ctx context.Context) error {
	repos, err := newRepos()
	if err != nil {
		return err
	}

	svc := application.New(repos, application.Deps{
		Lookup:      repository.NewCachedProjectLookup(repos.Project, config.ProjectCacheTTL),
		RecentNotes: config.RecentNotesLimit,
	})

	sched, err := cron.StartCleanupTask(cron.Tasks{
		Audit:         svc.Audit,
		Review:        svc.Review,
		RetentionDays: config.AuditRetentionDays,
	}, config.AuditCleanupSpec)
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	log.Println("Shutdown signal")
	<-sched.Stop().Done()
	return nil
}

func newRepos() (*repository.Repos, error) {
	switch config.StoreBackend {
	case config.StoreBackendREST:
		return rest.NewRepositories(rest.NewClient(config.RestURL, config.RestAPIKey, config.RestTimeout, config.RestRetries)), nil
	case config.StoreBackendGorm:
		db.Init()
		if err := db.Migrate(db.DB); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return repository.NewRepositories(db.DB), nil
	}
	return nil, fmt.Errorf("unknown STORE_BACKEND %q", config.StoreBackend)
}
