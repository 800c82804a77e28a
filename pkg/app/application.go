package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"seatrota/pkg/clock"
	"seatrota/pkg/config"
	"seatrota/pkg/contracts"
	"seatrota/pkg/middleware"
	"syscall"

	"github.com/julienschmidt/httprouter"
)

// Worker is a background component that lives as long as the server, such
// as the auto-booking scheduler.
type Worker interface {
	Start() error
	Stop(ctx context.Context)
}

type Application struct {
	cfg            *config.Config
	server         *http.Server
	healthHandler  http.Handler
	appHttpHandler http.Handler
	workers        []Worker
	closers        []func()
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// SetApp builds the health and API handler chains. identity resolves the
// X-User-ID header for API routes.
func (a *Application) SetApp(health contracts.Handler, identity middleware.UserLookup, appHandlers ...contracts.Handler) {
	a.setHealthHandler(health)
	a.setAppHandler(identity, appHandlers)
	a.setAppServer()
}

// AddWorker registers a background worker started by Run and stopped on
// shutdown, before the HTTP server.
func (a *Application) AddWorker(w Worker) {
	a.workers = append(a.workers, w)
}

// OnShutdown registers fn to run after the server has stopped.
func (a *Application) OnShutdown(fn func()) {
	a.closers = append(a.closers, fn)
}

func (a *Application) setHealthHandler(health contracts.Handler) {
	healthRouter := httprouter.New()
	health.RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(a.cfg.Log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(a.cfg.Log)(healthHTTPHandler)
	a.healthHandler = healthHTTPHandler
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(identity middleware.UserLookup, appHandlers []contracts.Handler) {
	appRouter := httprouter.New()
	for _, h := range appHandlers {
		h.RegisterRoutes(appRouter)
	}

	var appHttpHandler http.Handler = appRouter
	appHttpHandler = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHttpHandler)
	if a.cfg.RateLimitRequests > 0 {
		limiter := middleware.NewUserRateLimiter(a.cfg.RateLimitRequests, a.cfg.RateLimitWindow, clock.Real(), a.cfg.Log)
		a.OnShutdown(limiter.Stop)
		appHttpHandler = middleware.UserRateLimit(limiter)(appHttpHandler)
	}
	// Replays are answered before the limiter sees them.
	if a.cfg.IdempotencyTTL > 0 {
		store := middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL, clock.Real())
		a.OnShutdown(store.Stop)
		appHttpHandler = middleware.Idempotency(store)(appHttpHandler)
	}
	appHttpHandler = middleware.Identity(identity, a.cfg.Log)(appHttpHandler)
	appHttpHandler = middleware.ContentTypeValidation(a.cfg.Log)(appHttpHandler)
	appHttpHandler = middleware.MaxBodySize(int64(a.cfg.MaxRequestSize))(appHttpHandler)
	appHttpHandler = middleware.RequestLogging(a.cfg.Log)(appHttpHandler)
	appHttpHandler = middleware.Recovery(a.cfg.Log)(appHttpHandler)
	a.appHttpHandler = appHttpHandler
	a.cfg.Log.Info("Application endpoints configured", "handlers", len(appHandlers))
}

func (a *Application) setAppServer() {
	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      a.Handler(),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

// Handler returns the root handler: health probes bypass the API middleware.
func (a *Application) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/", a.appHttpHandler)
	return mux
}

func (a *Application) Run() {
	for _, w := range a.workers {
		if err := w.Start(); err != nil {
			a.cfg.Log.Fatal("Failed to start background worker", "error", err)
		}
	}

	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.cfg.Log.Info("Stopping background workers...")
	for _, w := range a.workers {
		w.Stop(ctx)
	}
	a.cfg.Log.Info("Background workers stopped")

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	for _, fn := range a.closers {
		fn()
	}

	a.cfg.Log.Info("Server stopped gracefully")
}
