package repository

import (
	"context"
	"log"
	"time"

	"github.com/linskybing/nephra/internal/domain/project"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

type DBProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *DBProjectRepo {
	return &DBProjectRepo{
		db: db,
	}
}

func (r *DBProjectRepo) GetByID(ctx context.Context, id string) (*project.Project, error) {
	var p project.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, storeErr(err)
	}
	return &p, nil
}

func (r *DBProjectRepo) List(ctx context.Context) ([]project.Project, error) {
	var projects []project.Project
	err := r.db.WithContext(ctx).Order("title asc").Find(&projects).Error
	return projects, storeErr(err)
}

// CachedProjectLookup resolves project titles for title resolution, keeping
// hits and misses for ttl.
type CachedProjectLookup struct {
	repo  project.Repository
	cache *cache.Cache
}

// missing marks ids the store has no project for.
const missing = ""

func NewCachedProjectLookup(repo project.Repository, ttl time.Duration) *CachedProjectLookup {
	return &CachedProjectLookup{
		repo:  repo,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (l *CachedProjectLookup) ProjectTitle(ctx context.Context, projectID string) (string, bool) {
	if v, ok := l.cache.Get(projectID); ok {
		title := v.(string)
		return title, title != missing
	}

	p, err := l.repo.GetByID(ctx, projectID)
	if err != nil {
		// store errors are not cached so the next lookup retries
		if !isNotFound(err) {
			log.Printf("[project-lookup] failed to load project %s: %v", projectID, err)
			return "", false
		}
		l.cache.SetDefault(projectID, missing)
		return "", false
	}
	l.cache.SetDefault(projectID, p.Title)
	return p.Title, p.Title != missing
}

// Invalidate drops a cached title after the project changes.
func (l *CachedProjectLookup) Invalidate(projectID string) {
	l.cache.Delete(projectID)
}
