package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/fshub-online/aiph-lambda/internal/auth"
	"github.com/fshub-online/aiph-lambda/internal/cache"
	"github.com/fshub-online/aiph-lambda/internal/config"
	"github.com/fshub-online/aiph-lambda/internal/docs"
	"github.com/fshub-online/aiph-lambda/internal/handlers"
	"github.com/fshub-online/aiph-lambda/internal/logging"
	lmw "github.com/fshub-online/aiph-lambda/internal/middleware"
	"github.com/fshub-online/aiph-lambda/internal/migrations"
	"github.com/fshub-online/aiph-lambda/internal/storage"
)

func main() {
	root := &cobra.Command{
		Use:           "lambda",
		Short:         "Goal tracking API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{Use: "serve", Short: "Run the HTTP server", RunE: runServe},
		migrateCommand(),
	)

	if err := root.Execute(); err != nil {
		logrus.WithError(err).Fatal("command failed")
	}
}

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "migrate", Short: "Apply or inspect database migrations"}
	for name, run := range map[string]func(*sqlx.DB) error{
		"up":     func(db *sqlx.DB) error { return migrations.Up(db.DB) },
		"down":   func(db *sqlx.DB) error { return migrations.Down(db.DB) },
		"status": func(db *sqlx.DB) error { return migrations.Status(db.DB) },
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   name,
			Short: "migrate " + name,
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				log := logging.New(cfg.Log.Level, cfg.Log.Format)
				db, err := connectDB(cfg.Database, log)
				if err != nil {
					return err
				}
				defer db.Close()
				return run(db)
			},
		})
	}
	return cmd
}

// connectDB retries while the database container is still starting.
func connectDB(opts config.DatabaseOptions, log logrus.FieldLogger) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	attempts := opts.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		db, err = sqlx.Connect("postgres", opts.DSN())
		if err == nil {
			return db, nil
		}
		log.WithError(err).WithField("attempt", i+1).Warn("database connection failed")
		time.Sleep(2 * time.Second)
	}
	return nil, err
}

func runServe(*cobra.Command, []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	db, err := connectDB(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to database")

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db.DB); err != nil {
			return err
		}
	}

	// Redis only backs the login rate limiter; without it the limiter is off.
	var cacheClient cache.Client
	if cfg.RateLimit.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(cfg.RateLimit.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		cacheClient = redisClient
	} else {
		log.Warn("REDIS_URL not set; login rate limiting disabled")
	}

	store := storage.NewStorage(db)

	tokens, err := auth.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	if err != nil {
		return err
	}
	authSvc := auth.NewService(store, tokens, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_, err = authSvc.EnsureDefaultUser(ctx, cfg.DefaultUser)
	cancel()
	if err != nil {
		return err
	}

	metrics := lmw.NewMetrics()
	metrics.Register(authSvc.Collectors()...)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/", handlers.Root)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	docs.SwaggerInfo.BasePath = cfg.APIPrefix
	authHandler := auth.NewHandler(authSvc, log, cfg.APIPrefix, cfg.Auth.RefreshCookieSecure)
	h := handlers.New(store, authSvc, log)

	r.Route(cfg.APIPrefix, func(r chi.Router) {
		r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL(cfg.APIPrefix+"/docs/doc.json")))
		authHandler.RegisterRoutes(r, lmw.RateLimitLogin(cacheClient, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow, log))
		h.RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown")
		}
	}()

	log.WithField("addr", server.Addr).Info("server starting")
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	log.Info("server stopped")
	return nil
}
