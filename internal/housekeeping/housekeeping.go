// Package housekeeping runs periodic maintenance over the session store,
// currently retention pruning of stale conversations.
package housekeeping

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/user/privai/internal/app"
)

// Config controls the retention job.
type Config struct {
	Schedule string // cron expression, 5 or 6 fields
	MaxDays  int    // sessions untouched this long are pruned; 0 keeps everything
}

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Janitor prunes sessions through the application state so the UI and
// the store stay in step.
type Janitor struct {
	app  *app.App
	cfg  Config
	log  *slog.Logger
	cron *cron.Cron
}

// New creates a Janitor. A zero MaxDays disables pruning entirely.
func New(a *app.App, cfg Config, logger *slog.Logger) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "@daily"
	}
	return &Janitor{
		app:  a,
		cfg:  cfg,
		log:  logger,
		cron: cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the retention job and starts the cron ticker.
func (j *Janitor) Start() error {
	if j.cfg.MaxDays <= 0 {
		j.log.Info("retention pruning disabled")
		return nil
	}
	if _, err := j.cron.AddFunc(j.cfg.Schedule, j.RunOnce); err != nil {
		return err
	}
	j.log.Info("retention pruning scheduled", "schedule", j.cfg.Schedule, "max_days", j.cfg.MaxDays)
	j.cron.Start()
	return nil
}

// Stop stops the cron ticker.
func (j *Janitor) Stop() {
	j.cron.Stop()
}

// RunOnce prunes every session whose last activity is older than the
// retention window.
func (j *Janitor) RunOnce() {
	if j.cfg.MaxDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -j.cfg.MaxDays)
	pruned := 0
	for _, sess := range j.app.State().Sessions {
		if sess.UpdatedAt.Before(cutoff) {
			j.app.Dispatch(app.DeleteSession{ID: sess.ID})
			pruned++
		}
	}
	if pruned > 0 {
		j.log.Info("pruned stale sessions", "count", pruned, "max_days", j.cfg.MaxDays)
	}
}
