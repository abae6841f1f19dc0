// Package pipeline gathers the per-request user context from storage.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/kalambet/helene/internal/health"
	"github.com/kalambet/helene/internal/profile"
)

// RecentDays is the number of check-ins loaded into a request context.
const RecentDays = 7

// ProfileSource is implemented by profile.Manager.
type ProfileSource interface {
	GetProfile() (profile.Profile, error)
}

// LogSource is implemented by storage.Store.
type LogSource interface {
	ListRecentLogs(limit int) ([]health.DailyLog, error)
}

// TurnSource is implemented by storage.Store.
type TurnSource interface {
	RecentTurns(sessionID string, limit int) ([]health.Turn, error)
}

// LoadMetadata captures diagnostic information about a load.
type LoadMetadata struct {
	ProfileLoaded  bool
	LogsUsed       int
	LoadDurationMs int64
}

// Loader builds health.UserContext values from the stored profile and
// check-ins.
type Loader struct {
	profile ProfileSource
	logs    LogSource
	turns   TurnSource
}

// NewLoader creates a Loader. turns may be nil when conversation history is
// never read from storage.
func NewLoader(p ProfileSource, logs LogSource, turns TurnSource) *Loader {
	return &Loader{profile: p, logs: logs, turns: turns}
}

// Load returns the profile and the most recent check-ins, newest first.
// Any failing source is logged and skipped so a context is always returned.
func (l *Loader) Load(ctx context.Context) (uc health.UserContext, meta LoadMetadata) {
	start := time.Now()
	defer func() {
		meta.LoadDurationMs = time.Since(start).Milliseconds()
	}()

	p, err := l.profile.GetProfile()
	if err != nil {
		slog.Warn("context load: failed to read profile", "error", err)
	} else {
		uc = p.UserContext()
		meta.ProfileLoaded = true
	}

	if ctx.Err() != nil {
		return uc, meta
	}

	logs, err := l.logs.ListRecentLogs(RecentDays)
	if err != nil {
		slog.Warn("context load: failed to read recent logs", "error", err)
		return uc, meta
	}
	uc.RecentLogs = logs
	uc.RecentSymptoms = SymptomPeaks(logs)
	meta.LogsUsed = len(logs)

	slog.Debug("context loaded", "profile", meta.ProfileLoaded, "logs", meta.LogsUsed)
	return uc, meta
}

// History returns the last limit turns of a session, or nil when the
// session is empty, unknown or unreadable.
func (l *Loader) History(sessionID string, limit int) []health.Turn {
	if l.turns == nil || sessionID == "" || limit <= 0 {
		return nil
	}
	turns, err := l.turns.RecentTurns(sessionID, limit)
	if err != nil {
		slog.Warn("context load: failed to read history", "session_id", sessionID, "error", err)
		return nil
	}
	return turns
}

// SymptomPeaks returns, per symptom key, the highest intensity recorded
// across logs. Symptoms never recorded are absent from the map.
func SymptomPeaks(logs []health.DailyLog) map[string]int {
	peaks := make(map[string]int)
	for _, log := range logs {
		for _, s := range health.Symptoms {
			v := min(log.Intensity(s), health.MaxIntensity)
			if v > peaks[string(s)] {
				peaks[string(s)] = v
			}
		}
	}
	if len(peaks) == 0 {
		return nil
	}
	return peaks
}
