package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tiyende/internal/auth"
	"tiyende/internal/config"
	router "tiyende/internal/http"
	"tiyende/internal/http/handlers"
	"tiyende/internal/http/middleware"
	"tiyende/internal/metrics"
	"tiyende/internal/ratelimit"
	"tiyende/internal/realtime"
	"tiyende/internal/repositories"
	"tiyende/internal/trace"
	"tiyende/internal/utils"
	"tiyende/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultAdminPassword = "admin123"

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "tiyende",
		Short: "Tiyende bus reservation admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tiyende version %s\n", version.Get())
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables and load the demo data into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context())
		},
	}

	hashPasswordCmd = &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "", "path to configuration file")
	rootCmd.AddCommand(versionCmd, migrateCmd, hashPasswordCmd)
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(config.ConfigPath(configPath))
	if err != nil {
		return nil, nil, err
	}
	lg, err := utils.NewLogger(&cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	utils.SetLogger(lg)
	return cfg, lg, nil
}

func seed(ctx context.Context, store repositories.Store, lg *zap.Logger) error {
	hash, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		return err
	}
	seeded, err := repositories.Seed(ctx, store, hash)
	if err != nil {
		return err
	}
	if seeded {
		lg.Info("seeded demo data", zap.String("admin", "admin"))
	}
	return nil
}

func migrate(ctx context.Context) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Sync()

	if cfg.Database.Type == "memory" {
		return errors.New("migrate needs a relational database, database.type is memory")
	}
	store, err := repositories.Open(ctx, cfg.Database, lg)
	if err != nil {
		return err
	}
	defer store.Close()
	lg.Info("migrated", zap.String("type", cfg.Database.Type))
	return seed(ctx, store, lg)
}

func serve() error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Sync()

	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}
	ctx := context.Background()

	if cfg.Tracing.Enabled {
		shutdown, err := trace.InitTracing(ctx, &cfg.Tracing, lg)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				lg.Warn("tracer shutdown", zap.Error(err))
			}
		}()
	}

	store, err := repositories.Open(ctx, cfg.Database, lg)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Seed.Enabled {
		if err := seed(ctx, store, lg); err != nil {
			return err
		}
	}

	tokens, err := auth.NewTokenService(cfg.JWT.SecretKey, cfg.JWT.Duration)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics)
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		l, err := ratelimit.New(ctx, cfg.RateLimit, lg)
		if err != nil {
			return err
		}
		if c, ok := l.(io.Closer); ok {
			defer c.Close()
		}
		limiter = l
	}

	origins := cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = middleware.DefaultOrigins()
	}
	hub := realtime.NewHub(origins, lg, m)
	defer hub.Close()

	r := router.NewRouter(cfg, &handlers.Handler{
		Store:   store,
		Tokens:  tokens,
		Limiter: limiter,
		Hub:     hub,
		Metrics: m,
	}, lg)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server listening", zap.String("addr", cfg.Server.Addr), zap.String("version", version.Get()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	lg.Info("shutting down server")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	hub.Close()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	lg.Info("server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
