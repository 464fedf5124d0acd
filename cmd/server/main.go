package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/atteev/continuum/internal/config"
	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/domain/capture"
	"github.com/atteev/continuum/internal/domain/compass"
	"github.com/atteev/continuum/internal/domain/dashboard"
	"github.com/atteev/continuum/internal/domain/phase"
	"github.com/atteev/continuum/internal/domain/project"
	"github.com/atteev/continuum/internal/domain/reflection"
	"github.com/atteev/continuum/internal/mcp"
	"github.com/atteev/continuum/internal/sqlite"
	"github.com/atteev/continuum/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("CONTINUUM_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	phaseRepo := sqlite.NewPhaseRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	captureRepo := sqlite.NewCaptureRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	reflectionRepo := sqlite.NewReflectionRepository(db)

	activitySvc := activity.NewService(activityRepo, logger)
	phaseSvc := phase.NewService(phaseRepo, activityRepo, logger)
	projectSvc := project.NewService(projectRepo, phaseRepo, activityRepo, logger)
	captureSvc := capture.NewService(captureRepo, phaseRepo, activityRepo, logger)
	reflectionSvc := reflection.NewService(reflectionRepo, logger)
	dashboardSvc := dashboard.NewService(phaseSvc, projectSvc, captureSvc, activitySvc, logger,
		dashboard.WithThresholds(thresholdsFromConfig(cfg.Compass)))

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Phases:      phaseSvc,
			Projects:    projectSvc,
			Captures:    captureSvc,
			Activity:    activitySvc,
			Reflections: reflectionSvc,
			Dashboard:   dashboardSvc,
		},
		Logger: logger,
	})

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
		return
	}

	apiRouter := transport.NewRouter(transport.Services{
		Phases:      phaseSvc,
		Projects:    projectSvc,
		Captures:    captureSvc,
		Activity:    activitySvc,
		Reflections: reflectionSvc,
		Dashboard:   dashboardSvc,
	}, logger)

	runHTTPMode(logger, mcpServer, apiRouter, cfg.Server.Host, cfg.Server.Port)
}

// thresholdsFromConfig merges configured overrides onto the defaults. Zero
// values keep the default.
func thresholdsFromConfig(cfg config.CompassConfig) compass.Thresholds {
	th := compass.DefaultThresholds()
	if cfg.AlignedPercent > 0 {
		th.AlignedPercent = cfg.AlignedPercent
	}
	if cfg.DriftingPercent > 0 {
		th.DriftingPercent = cfg.DriftingPercent
	}
	if cfg.FlowingMilestones > 0 {
		th.FlowingMilestones = cfg.FlowingMilestones
	}
	if cfg.FlowingResolved > 0 {
		th.FlowingResolved = cfg.FlowingResolved
	}
	if cfg.ChaosHeavy > 0 {
		th.ChaosHeavy = cfg.ChaosHeavy
	}
	if cfg.ChaosModerate > 0 {
		th.ChaosModerate = cfg.ChaosModerate
	}
	if cfg.HotBlockedCount > 0 {
		th.HotBlockedCount = cfg.HotBlockedCount
	}
	if cfg.HotAgeDays > 0 {
		th.HotAge = time.Duration(cfg.HotAgeDays) * 24 * time.Hour
	}
	return th
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	transport := &sdkmcp.StdioTransport{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, transport); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, apiRouter http.Handler, host string, port int) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.Handle("/", apiRouter)

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
