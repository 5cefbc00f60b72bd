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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/urfave/cli/v3"

	api "github.com/mind-engage/quizdoc/internal/api/http"
	auth "github.com/mind-engage/quizdoc/internal/auth/middleware"
	"github.com/mind-engage/quizdoc/internal/canvas"
	"github.com/mind-engage/quizdoc/internal/config"
	"github.com/mind-engage/quizdoc/internal/db"
	"github.com/mind-engage/quizdoc/internal/logger"
	"github.com/mind-engage/quizdoc/internal/pipeline"
	"github.com/mind-engage/quizdoc/internal/quizstore"
	"github.com/mind-engage/quizdoc/internal/rbac"
	storage "github.com/mind-engage/quizdoc/internal/storage"
	syncx "github.com/mind-engage/quizdoc/internal/sync"
)

var Version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "quizdocd",
		Usage:   "quiz document conversion server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file (environment variables apply underneath)",
				Sources: cli.EnvVars("QUIZDOC_CONFIG"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return serve(ctx, cfg)
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("quizdocd: %v", err)
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	var (
		store  quizstore.Store
		events syncx.Recorder
		ready  api.Pinger
	)
	if cfg.DBDriver == "memory" {
		store = quizstore.NewInMemoryStore()
		events = &syncx.MemoryLog{}
	} else {
		driver, err := db.ParseDriver(cfg.DBDriver)
		if err != nil {
			return err
		}
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		dbh, err := db.Open(openCtx, driver, cfg.DBDSN)
		cancel()
		if err != nil {
			return fmt.Errorf("db open failed: %w", err)
		}
		defer dbh.Close()
		store = quizstore.NewSQLStore(dbh)
		events = syncx.NewEventRepo(dbh)
		ready = dbh
	}
	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}

	var uploader *canvas.Uploader
	if cfg.Platform.BaseURL != "" && cfg.Platform.Token != "" {
		uploader = canvas.NewUploader(canvas.NewClient(cfg.Platform.BaseURL, cfg.Platform.Token), lg.With("component", "canvas"))
	}

	deps := api.Deps{
		Store:    store,
		Blobs:    bs,
		Events:   events,
		Uploader: uploader,
		Platform: api.PlatformDefaults{
			CourseID:     cfg.Platform.CourseID,
			TimeLimitMin: cfg.Platform.TimeLimitMin,
			Published:    cfg.Platform.Published,
		},
		Parse: pipeline.Options{
			BlockMath:     cfg.Parse.BlockMath,
			BracketMath:   cfg.Parse.BracketMath,
			UnresolvedKey: cfg.UnresolvedPolicy(),
		},
		Log: lg.With("component", "api"),
	}

	access, err := rbac.NewChecker(cfg.Roles)
	if err != nil {
		return fmt.Errorf("roles: %w", err)
	}
	deps.Access = access

	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.AdminUser, cfg.AdminPassHash)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(requestLogger(lg))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", api.HealthHandler())
	r.Get("/readyz", api.ReadyHandler(ready))
	r.Post("/auth/login", auth.LoginHandler(authSvc))

	// Protected API (JWT -> principal in context -> RBAC)
	r.Group(func(pr chi.Router) {
		if cfg.Mode == config.ModeOffline && !authSvc.LoginEnabled() {
			lg.Warn("no admin account configured; offline server runs without authentication")
			pr.Use(auth.StaticRole("admin"))
		} else {
			pr.Use(auth.JWTMiddleware(authSvc))
		}
		api.Mount(pr, deps)
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		lg.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", cfg.DBDriver, "upload", uploader != nil)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	lg.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func requestLogger(lg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			lg.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
