package app_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicpulse/helpdesk/internal/app"
	"github.com/civicpulse/helpdesk/pkg/periodic"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) hook(e string, err error) func(context.Context) error {
	return func(context.Context) error {
		r.add(e)
		return err
	}
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func newScheduler(t *testing.T, rec *recorder) *periodic.Scheduler {
	t.Helper()

	s, err := periodic.New(func(context.Context) error {
		rec.add("check")
		return nil
	}, 5*time.Minute, periodic.WithClock(clockwork.NewFakeClock()))
	require.NoError(t, err)
	return s
}

func runApp(t *testing.T, a *app.App) <-chan error {
	t.Helper()

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run() }()

	select {
	case <-a.Ready():
	case err := <-errCh:
		t.Fatalf("run exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("app not ready")
	}
	return errCh
}

func waitRun(t *testing.T, errCh <-chan error) error {
	t.Helper()

	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
		return nil
	}
}

func TestHandler_Routes(t *testing.T) {
	t.Parallel()

	a := app.New(
		app.WithReadinessCheck("ok", func(context.Context) error { return nil }),
		app.WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "civicpulse_sla_checks_total 0\n")
		})),
	)
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	for path, want := range map[string]int{
		app.LivenessPath:  http.StatusOK,
		app.ReadinessPath: http.StatusOK,
		app.MetricsPath:   http.StatusOK,
		"/unknown":        http.StatusNotFound,
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, path)
	}
}

func TestHandler_ReadinessFails(t *testing.T) {
	t.Parallel()

	a := app.New(app.WithReadinessCheck("db", func(context.Context) error { return errors.New("down") }))

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, app.ReadinessPath+"?format=json", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"db"`)
}

func TestHandler_NoMetrics(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	app.New().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, app.MetricsPath, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRun_LifecycleOrder(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	sched := newScheduler(t, rec)

	a := app.New(
		app.WithAddress("127.0.0.1:0"),
		app.WithScheduler(sched),
		app.WithStartupHook(rec.hook("startup", nil)),
		app.WithShutdownHook(rec.hook("shutdown-1", nil)),
		app.WithShutdownHook(rec.hook("shutdown-2", nil)),
		app.WithReadinessCheck("scheduler", periodic.Healthcheck(sched, 0)),
	)
	errCh := runApp(t, a)

	assert.Equal(t, periodic.StateRunning, sched.State())

	resp, err := http.Get(fmt.Sprintf("http://%s%s", a.Addr(), app.ReadinessPath))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	a.Stop()
	a.Stop()
	require.NoError(t, waitRun(t, errCh))

	assert.Equal(t, periodic.StateStopped, sched.State())
	events := rec.list()
	require.NotEmpty(t, events)
	assert.Equal(t, []string{"startup", "shutdown-1", "shutdown-2"}, without(events, "check"))
}

func without(events []string, drop string) []string {
	var out []string
	for _, e := range events {
		if e != drop {
			out = append(out, e)
		}
	}
	return out
}

func TestRun_ContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	sched := newScheduler(t, rec)

	a := app.New(
		app.WithAddress("127.0.0.1:0"),
		app.WithContext(ctx),
		app.WithScheduler(sched),
	)
	errCh := runApp(t, a)

	cancel()
	require.NoError(t, waitRun(t, errCh))
	assert.Equal(t, periodic.StateStopped, sched.State())
}

func TestRun_ShutdownErrorsJoined(t *testing.T) {
	t.Parallel()

	errA := errors.New("close db")
	errB := errors.New("close redis")
	rec := &recorder{}

	a := app.New(
		app.WithAddress("127.0.0.1:0"),
		app.WithShutdownHook(rec.hook("a", errA)),
		app.WithShutdownHook(rec.hook("b", errB)),
	)
	errCh := runApp(t, a)
	a.Stop()

	err := waitRun(t, errCh)
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
	assert.Equal(t, []string{"a", "b"}, rec.list())
}

func TestRun_StartupHookFails(t *testing.T) {
	t.Parallel()

	errHook := errors.New("migrations pending")
	rec := &recorder{}
	sched := newScheduler(t, rec)

	a := app.New(
		app.WithAddress("127.0.0.1:0"),
		app.WithScheduler(sched),
		app.WithStartupHook(rec.hook("startup", errHook)),
		app.WithShutdownHook(rec.hook("shutdown", nil)),
	)

	err := a.Run()
	require.ErrorIs(t, err, errHook)
	assert.Equal(t, periodic.StateStopped, sched.State())
	assert.Contains(t, rec.list(), "shutdown")
}

func TestRun_SchedulerAlreadyStarted(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	sched := newScheduler(t, rec)
	require.NoError(t, sched.Start(context.Background()))

	a := app.New(app.WithAddress("127.0.0.1:0"), app.WithScheduler(sched))
	require.ErrorIs(t, a.Run(), periodic.ErrAlreadyStarted)
}

func TestRun_Twice(t *testing.T) {
	t.Parallel()

	a := app.New(app.WithAddress("127.0.0.1:0"))
	errCh := runApp(t, a)

	require.ErrorIs(t, a.Run(), app.ErrAlreadyRunning)

	a.Stop()
	require.NoError(t, waitRun(t, errCh))
}

func TestRun_ListenError(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	sched := newScheduler(t, rec)

	err := app.New(
		app.WithAddress("256.0.0.1:99999"),
		app.WithScheduler(sched),
		app.WithShutdownHook(rec.hook("flush", nil)),
	).Run()
	require.Error(t, err)
	assert.Equal(t, []string{"flush"}, rec.list(), "shutdown hooks run on bind failure")
	assert.Equal(t, periodic.StateStopped, sched.State())
}
