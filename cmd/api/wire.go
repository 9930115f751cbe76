package main

import (
	"context"
	"fmt"
	"log"

	"github.com/linskybing/nephra/internal/application"
	"github.com/linskybing/nephra/internal/config"
	"github.com/linskybing/nephra/internal/config/db"
	"github.com/linskybing/nephra/internal/events"
	"github.com/linskybing/nephra/internal/repository"
	"github.com/linskybing/nephra/internal/repository/rest"
	"github.com/linskybing/nephra/internal/storage"
)

// buildRepos opens the configured store.
func buildRepos() (*repository.Repos, error) {
	switch config.StoreBackend {
	case config.StoreBackendGorm:
		db.Init()
		if err := db.Migrate(db.DB); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return repository.NewRepositories(db.DB), nil
	case config.StoreBackendREST:
		client := rest.NewClient(config.RestURL, config.RestAPIKey, config.RestTimeout, config.RestRetries)
		log.Printf("Using REST store at %s", config.RestURL)
		return rest.NewRepositories(client), nil
	}
	return nil, fmt.Errorf("unknown STORE_BACKEND %q", config.StoreBackend)
}

func buildServices(ctx context.Context, repos *repository.Repos, hub *events.Hub) (*application.Services, error) {
	deps := application.Deps{
		Lookup:      repository.NewCachedProjectLookup(repos.Project, config.ProjectCacheTTL),
		Events:      hub,
		RecentNotes: config.RecentNotesLimit,
	}

	if config.MinioEndpoint != "" {
		bucket, err := storage.NewBucket(storage.Options{
			Endpoint:      config.MinioEndpoint,
			AccessKey:     config.MinioAccessKey,
			SecretKey:     config.MinioSecretKey,
			Bucket:        config.MinioBucket,
			UseSSL:        config.MinioUseSSL,
			PresignExpiry: config.PresignExpiry,
		})
		if err != nil {
			return nil, err
		}
		if err := bucket.EnsureBucket(ctx); err != nil {
			// Attachments are optional; review keeps working without them.
			log.Printf("Warning: object storage unavailable, attachments disabled: %v", err)
		} else {
			deps.Attachments = bucket
		}
	}

	return application.New(repos, deps), nil
}
