// Package testserver wires a full in-memory stack for tests: sqlite storage,
// domain services on a controllable clock, and the HTTP API.
package testserver

import (
	"fmt"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/domain/capture"
	"github.com/atteev/continuum/internal/domain/dashboard"
	"github.com/atteev/continuum/internal/domain/phase"
	"github.com/atteev/continuum/internal/domain/project"
	"github.com/atteev/continuum/internal/domain/reflection"
	"github.com/atteev/continuum/internal/sqlite"
	"github.com/atteev/continuum/internal/transport"
)

// Clock is a settable time source shared by all services under test.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock fixed at the given instant.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current test time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set jumps the clock to an instant.
func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// TestServer bundles the wired stack.
type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Clock  *Clock

	Phases      *phase.Service
	Projects    *project.Service
	Captures    *capture.Service
	Activity    *activity.Service
	Reflections *reflection.Service
	Dashboard   *dashboard.Service
}

// New creates a fully wired test server backed by an in-memory database.
func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	clock := NewClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	logger := slog.New(slog.DiscardHandler)

	phaseRepo := sqlite.NewPhaseRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	captureRepo := sqlite.NewCaptureRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	reflectionRepo := sqlite.NewReflectionRepository(db)

	activitySvc := activity.NewService(activityRepo, logger, activity.WithClock(clock.Now))
	phaseSvc := phase.NewService(phaseRepo, activityRepo, logger, phase.WithClock(clock.Now))
	projectSvc := project.NewService(projectRepo, phaseRepo, activityRepo, logger, project.WithClock(clock.Now))
	captureSvc := capture.NewService(captureRepo, phaseRepo, activityRepo, logger, capture.WithClock(clock.Now))
	reflectionSvc := reflection.NewService(reflectionRepo, logger, reflection.WithClock(clock.Now))
	dashboardSvc := dashboard.NewService(phaseSvc, projectSvc, captureSvc, activitySvc, logger, dashboard.WithClock(clock.Now))

	router := transport.NewRouter(transport.Services{
		Phases:      phaseSvc,
		Projects:    projectSvc,
		Captures:    captureSvc,
		Activity:    activitySvc,
		Reflections: reflectionSvc,
		Dashboard:   dashboardSvc,
	}, logger)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:      server,
		DB:          db,
		Clock:       clock,
		Phases:      phaseSvc,
		Projects:    projectSvc,
		Captures:    captureSvc,
		Activity:    activitySvc,
		Reflections: reflectionSvc,
		Dashboard:   dashboardSvc,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}
