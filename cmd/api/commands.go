package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nephra/internal/api/middleware"
	"github.com/linskybing/nephra/internal/api/routes"
	"github.com/linskybing/nephra/internal/config"
	"github.com/linskybing/nephra/internal/config/db"
	"github.com/linskybing/nephra/internal/cron"
	"github.com/linskybing/nephra/internal/events"
	"github.com/spf13/cobra"
)

func serveCommand() *cobra.Command {
	var noCron bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadConfig()
			if f := config.InitLogging(); f != nil {
				defer f.Close()
			}
			middleware.Init()

			repos, err := buildRepos()
			if err != nil {
				return err
			}
			hub := events.NewHub()
			defer hub.Close()

			svc, err := buildServices(cmd.Context(), repos, hub)
			if err != nil {
				return err
			}

			if !noCron {
				sched, err := cron.StartCleanupTask(cron.Tasks{
					Audit:         svc.Audit,
					Review:        svc.Review,
					RetentionDays: config.AuditRetentionDays,
				}, config.AuditCleanupSpec)
				if err != nil {
					return fmt.Errorf("start cron: %w", err)
				}
				defer sched.Stop()
			}

			gin.SetMode(config.GinMode)
			router := gin.New()
			router.Use(gin.Recovery())
			router.Use(middleware.CORSMiddleware(config.CORSOrigins))
			router.Use(middleware.LoggingMiddleware())
			routes.RegisterRoutes(router, svc, hub)

			return run(cmd.Context(), router)
		},
	}
	cmd.Flags().BoolVar(&noCron, "no-cron", false, "do not run housekeeping jobs in this process")
	return cmd
}

func run(ctx context.Context, handler http.Handler) error {
	srv := &http.Server{
		Addr:              ":" + config.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting API server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadConfig()
			config.InitLogging()
			if config.StoreBackend != config.StoreBackendGorm {
				return fmt.Errorf("migrate needs STORE_BACKEND=%s, got %q", config.StoreBackendGorm, config.StoreBackend)
			}
			db.Init()
			if err := db.Migrate(db.DB); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			log.Println("Database migrated")
			return nil
		},
	}
}

func tokenCommand() *cobra.Command {
	var (
		userID string
		name   string
		admin  bool
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}
			config.LoadConfig()
			middleware.Init()
			token, err := middleware.GenerateToken(userID, name, admin, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "subject (user id)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the admin role")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
