package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/user/privai/internal/app"
	"github.com/user/privai/internal/housekeeping"
	"github.com/user/privai/internal/httpapi"
	"github.com/user/privai/internal/orchestrator"
	"github.com/user/privai/internal/store"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the privai daemon",
	RunE:  runServe,
}

func writePIDFile(dataDir string) (string, error) {
	pidPath := filepath.Join(dataDir, "privai.pid")
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return pidPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	pidPath, err := writePIDFile(cfg.DataDir)
	if err != nil {
		return err
	}
	defer os.Remove(pidPath)

	st := store.Open(cfg.DataDir)
	defer st.Close()

	a, err := app.New(st, orchestrator.New(), app.Options{
		DebounceWindow: time.Duration(cfg.SaveDebounce) * time.Millisecond,
		HistoryWindow:  cfg.HistoryWindow,
		EnvAPIKeys:     cfg.APIKeys,
	})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	if err := a.Hydrate(cmd.Context()); err != nil {
		return fmt.Errorf("hydrate state: %w", err)
	}
	defer a.Close()

	janitor := housekeeping.New(a, housekeeping.Config{
		Schedule: cfg.Retention.Schedule,
		MaxDays:  cfg.Retention.MaxDays,
	}, slog.Default())
	if err := janitor.Start(); err != nil {
		return fmt.Errorf("start housekeeping: %w", err)
	}
	defer janitor.Stop()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	httpapi.NewHandler(a, slog.Default()).RegisterRoutes(e)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	slog.Info("privai started",
		"data_dir", cfg.DataDir,
		"log_level", cfg.LogLevel,
		"listen_addr", cfg.ListenAddr,
		"history_window", cfg.HistoryWindow,
		"save_debounce_ms", cfg.SaveDebounce,
		"pid_file", pidPath,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
