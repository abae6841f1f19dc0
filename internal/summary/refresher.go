// Package summary keeps the stored context and yesterday summaries fresh.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kalambet/helene/internal/composer"
	"github.com/kalambet/helene/internal/health"
	"github.com/kalambet/helene/internal/insights"
	"github.com/kalambet/helene/internal/profile"
)

// trendWindow covers this week and the previous one, which the weekly
// mood and sleep trends compare.
const trendWindow = 14

// DefaultSchedule runs shortly after midnight, seconds field first.
const DefaultSchedule = "0 5 0 * * *"

// ProfileStore is implemented by profile.Manager.
type ProfileStore interface {
	GetProfile() (profile.Profile, error)
	SetField(key string, value any) error
}

// LogSource is implemented by storage.Store.
type LogSource interface {
	ListRecentLogs(limit int) ([]health.DailyLog, error)
}

// Refresher recomputes the context_summary and yesterday_summary profile
// keys from stored check-ins.
type Refresher struct {
	profile ProfileStore
	logs    LogSource
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a Refresher.
func New(p ProfileStore, logs LogSource, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{profile: p, logs: logs, now: time.Now, logger: logger}
}

// Run performs one refresh pass.
func (r *Refresher) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := r.profile.GetProfile()
	if err != nil {
		return fmt.Errorf("reading profile: %w", err)
	}
	locale := health.LocaleOf(p.Language)

	logs, err := r.logs.ListRecentLogs(trendWindow)
	if err != nil {
		return fmt.Errorf("reading recent logs: %w", err)
	}

	contextSummary := insights.Messages(insights.Weekly(logs, locale))
	if err := r.profile.SetField(profile.KeyContextSummary, contextSummary); err != nil {
		return err
	}

	yesterday := r.now().AddDate(0, 0, -1).Format(time.DateOnly)
	yesterdaySummary := ""
	for _, l := range logs {
		if l.LogDate == yesterday {
			yesterdaySummary = composer.FormatDay(locale, l)
			break
		}
	}
	if err := r.profile.SetField(profile.KeyYesterdaySummary, yesterdaySummary); err != nil {
		return err
	}

	r.logger.Info("summaries refreshed",
		"logs", len(logs),
		"context_summary", contextSummary != "",
		"yesterday_summary", yesterdaySummary != "",
	)
	return nil
}

// Start runs Run on schedule (six fields, seconds first) until ctx is done.
// It returns an error only when the schedule cannot be parsed.
func (r *Refresher) Start(ctx context.Context, schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(schedule, func() {
		if err := r.Run(ctx); err != nil && ctx.Err() == nil {
			r.logger.Warn("summary refresh failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("parsing summary schedule %q: %w", schedule, err)
	}

	c.Start()
	r.logger.Info("summary scheduler started", "schedule", schedule)

	<-ctx.Done()
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		r.logger.Warn("summary scheduler stop timed out")
	}
	return nil
}
