package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/helene/internal/health"
	"github.com/kalambet/helene/internal/insights"
	"github.com/kalambet/helene/internal/profile"
	"github.com/kalambet/helene/internal/storage"
)

func handleListLogs(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 30, 366)

		logs, err := deps.Store.ListRecentLogs(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list logs: %v", err)
			return
		}
		if logs == nil {
			logs = []health.DailyLog{}
		}
		writeJSON(w, http.StatusOK, logs)
	}
}

func handleGetLog(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := chi.URLParam(r, "date")

		l, err := deps.Store.GetDailyLog(date)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "no check-in for %s", date)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get log: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

func handlePutLog(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		date := chi.URLParam(r, "date")

		var l health.DailyLog
		if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if l.LogDate != "" && l.LogDate != date {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "log_date %q does not match path date %q", l.LogDate, date)
			return
		}
		l.LogDate = date
		if err := l.Validate(); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}

		if err := deps.Store.SaveDailyLog(l); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save log: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

func handleDeleteLog(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := chi.URLParam(r, "date")

		err := deps.Store.DeleteDailyLog(date)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "no check-in for %s", date)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete log: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func handleGetProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := deps.Profile.GetProfile()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get profile: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func handlePatchProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		if err := deps.Profile.SetFields(fields); err != nil {
			if errors.Is(err, profile.ErrUnknownField) || errors.Is(err, profile.ErrInvalidValue) {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "failed to update profile: %v", err)
			return
		}

		p, err := deps.Profile.GetProfile()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get profile: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

type insightsResponse struct {
	Period   string             `json:"period"`
	Insights []insights.Insight `json:"insights"`
}

func handleInsights(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := r.URL.Query().Get("period")
		if period == "" {
			period = "week"
		}
		if period != "week" && period != "month" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "period must be week or month")
			return
		}

		found, err := computeInsights(deps, period)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to compute insights: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, insightsResponse{Period: period, Insights: found})
	}
}

// computeInsights reads enough history for the period and returns a non-nil
// slice.
func computeInsights(deps Deps, period string) ([]insights.Insight, error) {
	p, err := deps.Profile.GetProfile()
	if err != nil {
		return nil, err
	}
	locale := health.LocaleOf(p.Language)

	limit := 14
	if period == "month" {
		limit = 30
	}
	logs, err := deps.Store.ListRecentLogs(limit)
	if err != nil {
		return nil, err
	}

	var found []insights.Insight
	if period == "month" {
		found = insights.Monthly(logs, locale)
	} else {
		found = insights.Weekly(logs, locale)
	}
	if found == nil {
		found = []insights.Insight{}
	}
	return found, nil
}
