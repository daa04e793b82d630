package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/broadcast"
	"github.com/Vovarama1992/whatsapp-health-bot/internal/contacts"
	"github.com/Vovarama1992/whatsapp-health-bot/internal/whatsapp"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server and the daily alert scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Corpus ---
	corpus, err := loadCorpus(cfg.Corpus.Path)
	if err != nil {
		return fmt.Errorf("load knowledge corpus: %w", err)
	}
	logger.Info("corpus loaded",
		zap.Int("topics", len(corpus.Questions)),
		zap.Int("alerts", len(corpus.Alerts)),
	)

	// --- Contacts ---
	var store contacts.Store
	if cfg.Postgres.Enabled() {
		db, err := openDB(ctx, cfg.Postgres.URL)
		if err != nil {
			logger.Warn("postgres unavailable, contacts kept in memory only", zap.Error(err))
		} else {
			defer db.Close()
			store = contacts.NewRepo(db)
		}
	} else {
		logger.Warn("DATABASE_URL not set, contacts kept in memory only")
	}
	registry := contacts.NewRegistry(store, logger)
	if err := registry.Load(ctx); err != nil {
		logger.Warn("load contacts failed", zap.Error(err))
	}

	// --- Pipeline ---
	res, err := buildResolver(corpus, cfg.Providers, logger)
	if err != nil {
		return err
	}
	outbound := whatsapp.NewGraphOutbound(whatsapp.OutboundConfig{
		AccessToken:   cfg.WhatsApp.AccessToken,
		PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
		BaseURL:       cfg.WhatsApp.GraphURL,
	}, logger)
	svc := whatsapp.NewService(res, registry, outbound, 0, logger)
	handler := whatsapp.NewHandler(svc, cfg.WhatsApp.AppSecret, cfg.WhatsApp.VerifyToken, logger)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", whatsapp.SignatureHeader},
	}))

	whatsapp.RegisterRoutes(r, handler)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":    "healthy",
			"users":     registry.Len(),
			"topics":    len(corpus.Questions),
			"alerts":    len(corpus.Alerts),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// --- Alerts ---
	var scheduler *broadcast.Scheduler
	if cfg.Alerts.Enabled {
		loc, _ := cfg.Alerts.Location()
		scheduler, err = broadcast.New(broadcast.Config{
			Schedule:  cfg.Alerts.Schedule,
			Location:  loc,
			SendDelay: cfg.Alerts.SendDelay.Duration,
		}, registry, outbound, corpus.Alerts, logger)
		if err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	if scheduler != nil {
		scheduler.Start()
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if scheduler != nil {
			// no new runs; an in-flight fan-out is allowed to finish
			select {
			case <-scheduler.Stop().Done():
			case <-sctx.Done():
				logger.Warn("alert run still in progress at shutdown")
			}
		}
		if err := srv.Shutdown(sctx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
		if err := svc.Wait(sctx); err != nil {
			logger.Warn("pending messages not finished", zap.Error(err))
		}
		return nil
	})

	return g.Wait()
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	repo := contacts.NewRepo(db)
	if err := repo.EnsureSchema(pctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db schema: %w", err)
	}
	return db, nil
}
