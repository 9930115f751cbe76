package testutils

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nephra/internal/api/routes"
	"github.com/linskybing/nephra/internal/application"
	"github.com/linskybing/nephra/internal/config/db"
	"github.com/linskybing/nephra/internal/events"
	"github.com/linskybing/nephra/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite returns a migrated in-memory database that lives for the test.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	// every connection to :memory: gets its own database
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// SetupRouter wires the full API on top of gdb. JWT settings must already be
// initialised by the caller.
func SetupRouter(t testing.TB, gdb *gorm.DB) (*gin.Engine, *application.Services, *events.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := repository.NewRepositories(gdb)
	hub := events.NewHub()
	t.Cleanup(hub.Close)
	svc := application.New(repos, application.Deps{
		Lookup: repository.NewCachedProjectLookup(repos.Project, time.Minute),
		Events: hub,
	})

	r := gin.New()
	routes.RegisterRoutes(r, svc, hub)
	return r, svc, hub
}
