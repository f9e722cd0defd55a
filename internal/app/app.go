// Package app hosts the escalation scheduler: it owns its lifecycle,
// exposes health and metrics over HTTP and shuts everything down in order
// on SIGINT or SIGTERM.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/civicpulse/helpdesk/pkg/health"
	"github.com/civicpulse/helpdesk/pkg/logger"
	"github.com/civicpulse/helpdesk/pkg/periodic"
)

const (
	defaultAddress           = ":8080"
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second

	LivenessPath  = "/health/live"
	ReadinessPath = "/health/ready"
	MetricsPath   = "/metrics"
)

// ErrAlreadyRunning is returned when Run is called more than once.
var ErrAlreadyRunning = errors.New("app: already running")

// App is the process host. Create it with New and block on Run.
type App struct {
	baseCtx         context.Context
	logger          *slog.Logger
	scheduler       *periodic.Scheduler
	metrics         http.Handler
	checks          health.Checks
	stop            chan struct{}
	ready           chan struct{}
	addr            net.Addr
	address         string
	startupHooks    []func(context.Context) error
	shutdownHooks   []func(context.Context) error
	shutdownTimeout time.Duration
	mu              sync.Mutex
	stopOnce        sync.Once
	running         bool
}

// New creates an App.
func New(opts ...Option) *App {
	a := &App{
		baseCtx:         context.Background(),
		logger:          logger.NewNope(),
		checks:          make(health.Checks),
		stop:            make(chan struct{}),
		ready:           make(chan struct{}),
		address:         defaultAddress,
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handler returns the HTTP routes served by Run.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get(LivenessPath, health.LivenessHandler())
	r.Get(ReadinessPath, health.ReadinessHandler(a.checks, health.WithLogger(a.logger)))
	if a.metrics != nil {
		r.Method(http.MethodGet, MetricsPath, a.metrics)
	}
	return r
}

// Ready is closed once the listener is bound and startup hooks have run.
func (a *App) Ready() <-chan struct{} { return a.ready }

// Addr returns the bound listen address, or nil before Ready.
func (a *App) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addr
}

// Stop asks a running App to shut down. Safe to call more than once and
// before Run.
func (a *App) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// Run starts the scheduler and the startup hooks, serves HTTP and blocks
// until a signal, Stop, cancellation of the base context or a server error.
// Shutdown closes the server, then stops the scheduler, then runs the
// shutdown hooks; their errors are joined.
func (a *App) Run() error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	a.running = true
	a.mu.Unlock()

	ctx, cancel := signal.NotifyContext(a.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ln, err := net.Listen("tcp", a.address)
	if err != nil {
		return errors.Join(err, a.shutdown())
	}

	// The scheduler outlives the signal context: it is stopped explicitly
	// after the server so that in-flight requests still see it running.
	hookCtx := context.WithoutCancel(a.baseCtx)
	if err := a.startup(hookCtx); err != nil {
		_ = ln.Close()
		return errors.Join(err, a.shutdown())
	}

	server := &http.Server{
		Handler:           a.Handler(),
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}

	a.mu.Lock()
	a.addr = ln.Addr()
	a.mu.Unlock()
	close(a.ready)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-a.stop:
		}

		a.logger.Info("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(hookCtx, a.shutdownTimeout)
		defer shutdownCancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := a.shutdownWith(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("shutdown completed with errors", slog.Any("error", err))
		return err
	}
	a.logger.Info("shutdown completed")
	return nil
}

// startup starts the scheduler exactly once, then runs the startup hooks.
func (a *App) startup(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return err
		}
	}
	for _, hook := range a.startupHooks {
		if err := hook(ctx); err != nil {
			a.logger.Error("startup hook failed", slog.Any("error", err))
			return err
		}
	}
	return nil
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(a.baseCtx), a.shutdownTimeout)
	defer cancel()
	return a.shutdownWith(ctx)
}

// shutdownWith stops the scheduler, then runs the shutdown hooks.
func (a *App) shutdownWith(ctx context.Context) error {
	var errs []error

	if a.scheduler != nil {
		if err := a.scheduler.Stop(ctx); err != nil {
			errs = append(errs, err)
			a.logger.Error("scheduler stop failed", slog.Any("error", err))
		}
	}

	for _, hook := range a.shutdownHooks {
		if err := hook(ctx); err != nil {
			errs = append(errs, err)
			a.logger.Error("shutdown hook failed", slog.Any("error", err))
		}
	}
	return errors.Join(errs...)
}
