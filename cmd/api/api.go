package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/farxc/painel-emendas/internal/analytics"
	"github.com/farxc/painel-emendas/internal/logger"
	"github.com/farxc/painel-emendas/internal/store"
	"github.com/farxc/painel-emendas/internal/transparency"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type application struct {
	config config
	store  store.Storage
	engine *analytics.Engine
	portal *transparency.Client
	logger *logger.Logger
}

type config struct {
	addr           string
	dataSource     string
	requestTimeout time.Duration
	db             dbConfig
	csv            csvConfig
	portal         transparency.Config
	log            logger.Config
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

type csvConfig struct {
	amendmentsPath string
	documentsPath  string
}

const (
	dataSourcePostgres = "postgres"
	dataSourceCSV      = "csv"
)

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.logger.Middleware)
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(app.config.requestTimeout))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Get("/ranking", app.handleGetRanking)
		r.Get("/detail", app.handleGetDetail)
		r.Get("/filters", app.handleGetFilters)
		r.Route("/documentos", func(r chi.Router) {
			r.Get("/", app.handleGetDocuments)
			r.Get("/schema", app.handleGetDocumentSchema)
			r.Get("/externo", app.handleGetExternalDocument)
		})
		r.Route("/ingestion", func(r chi.Router) {
			r.Get("/history", app.handleGetIngestionHistory)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	const component = "Server"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(component, "Server started: addr=%s dataSource=%s", app.config.addr, app.config.dataSource)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(component, "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
