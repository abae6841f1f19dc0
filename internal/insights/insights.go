// Package insights derives short, human-readable observations from a run
// of daily check-ins. Logs are expected newest first.
package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/kalambet/helene/internal/composer"
	"github.com/kalambet/helene/internal/health"
)

// Kind is the tone of an insight.
type Kind string

const (
	KindPositive Kind = "positive"
	KindWarning  Kind = "warning"
	KindInfo     Kind = "info"
)

// Insight is one observation.
type Insight struct {
	ID      string `json:"id"`
	Type    Kind   `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Value   string `json:"value"`
}

const (
	maxWeekly          = 5
	minMonthlyLogs     = 7
	weekLen            = 7
	moodTrendThreshold = 10.0 // percent
	sleepThreshold     = 1.0  // points
	patternMinCount    = 3
	consistencyTarget  = 80.0 // percent of a week
)

// Weekly compares the latest seven entries with the seven before them.
// At most five insights are returned.
func Weekly(logs []health.DailyLog, locale string) []Insight {
	if len(logs) == 0 {
		return nil
	}
	T := textsFor(locale)
	current := window(logs, 0, weekLen)
	previous := window(logs, weekLen, 2*weekLen)

	var out []Insight

	curMood := average(current, mood)
	if prevMood := average(previous, mood); prevMood > 0 {
		change := (curMood - prevMood) / prevMood * 100
		if math.Abs(change) > moodTrendThreshold {
			in := Insight{ID: "mood-trend", Type: KindPositive, Title: T.moodTitle, Value: fmt.Sprintf("%.1f/5", curMood)}
			dir := T.up
			if change < 0 {
				in.Type, dir = KindWarning, T.down
			}
			in.Message = fmt.Sprintf(T.moodMessage, dir, math.Round(math.Abs(change)))
			out = append(out, in)
		}
	}

	curSleep := average(current, sleep)
	if prevSleep := average(previous, sleep); prevSleep > 0 {
		delta := curSleep - prevSleep
		if math.Abs(delta) > sleepThreshold {
			in := Insight{ID: "sleep-trend", Type: KindPositive, Title: T.sleepTitle, Value: fmt.Sprintf("%.1f/5", curSleep)}
			how := T.sleptBetter
			if delta < 0 {
				in.Type, how = KindInfo, T.sleptWorse
			}
			in.Message = fmt.Sprintf(T.sleepMessage, how, delta)
			out = append(out, in)
		}
	}

	if day, score, ok := bestDay(current); ok {
		name := T.weekdays[day]
		out = append(out, Insight{
			ID: "best-day", Type: KindPositive, Title: T.bestDayTitle,
			Message: fmt.Sprintf(T.bestDayMessage, name, score),
			Value:   name,
		})
	}

	if top := topSymptoms(current, 2); len(top) > 0 {
		names := make([]string, len(top))
		for i, s := range top {
			names[i] = composer.SymptomLabel(locale, string(s.symptom))
		}
		out = append(out, Insight{
			ID: "top-symptoms", Type: KindWarning, Title: T.topTitle,
			Message: fmt.Sprintf(T.topMessage, strings.Join(names, T.and)),
			Value:   fmt.Sprintf(T.days, top[0].count),
		})
	}

	if msg := timePattern(T, current); msg != "" {
		out = append(out, Insight{ID: "time-pattern", Type: KindInfo, Title: T.patternTitle, Message: msg, Value: "🕐"})
	}

	if energy := average(current, energyLevel); energy > 0 {
		in := Insight{
			ID: "energy", Type: KindPositive, Title: T.energyTitle,
			Message: fmt.Sprintf(T.energyMessage, energy),
			Value:   T.energyGood,
		}
		if energy < 3 {
			in.Type, in.Value = KindInfo, T.energyWatch
		}
		out = append(out, in)
	}

	if rate := float64(len(current)) / weekLen * 100; rate >= consistencyTarget {
		out = append(out, Insight{
			ID: "consistency", Type: KindPositive, Title: T.consistencyTitle,
			Message: fmt.Sprintf(T.consistencyMessage, len(current)),
			Value:   fmt.Sprintf("%.0f%%", math.Round(rate)),
		})
	}

	if len(out) > maxWeekly {
		out = out[:maxWeekly]
	}
	return out
}

// Monthly summarizes a longer run. It needs at least seven logs.
func Monthly(logs []health.DailyLog, locale string) []Insight {
	if len(logs) < minMonthlyLogs {
		return nil
	}
	T := textsFor(locale)

	out := []Insight{{
		ID: "monthly-overview", Type: KindInfo, Title: T.overviewTitle,
		Message: fmt.Sprintf(T.overviewMessage, average(logs, mood), average(logs, sleep), average(logs, energyLevel)),
		Value:   fmt.Sprintf(T.days, len(logs)),
	}}

	for i, s := range topSymptoms(logs, 3) {
		out = append(out, Insight{
			ID:      fmt.Sprintf("monthly-symptom-%d", i),
			Type:    KindWarning,
			Title:   capitalize(composer.SymptomLabel(locale, string(s.symptom))),
			Message: fmt.Sprintf(T.presentMessage, s.count),
			Value:   fmt.Sprintf("%.0f%%", math.Round(float64(s.count)/float64(len(logs))*100)),
		})
	}
	return out
}

// Messages joins insight messages into one sentence-per-line summary.
func Messages(in []Insight) string {
	parts := make([]string, len(in))
	for i, x := range in {
		parts[i] = x.Message
	}
	return strings.Join(parts, ". ")
}

func window(logs []health.DailyLog, from, to int) []health.DailyLog {
	if from >= len(logs) {
		return nil
	}
	if to > len(logs) {
		to = len(logs)
	}
	return logs[from:to]
}

func mood(d health.DailyLog) int        { return d.Mood }
func sleep(d health.DailyLog) int       { return d.SleepQuality }
func energyLevel(d health.DailyLog) int { return d.EnergyLevel }

func average(logs []health.DailyLog, field func(health.DailyLog) int) float64 {
	var sum, n int
	for _, l := range logs {
		if v := field(l); v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// bestDay returns the weekday of the first entry holding the highest mood.
// Entries with unparsable dates are skipped.
func bestDay(logs []health.DailyLog) (time.Weekday, int, bool) {
	best, found := 0, false
	var day time.Weekday
	for _, l := range logs {
		if l.Mood <= best {
			continue
		}
		t, err := time.Parse(time.DateOnly, strings.TrimSpace(l.LogDate))
		if err != nil {
			continue
		}
		best, day, found = l.Mood, t.Weekday(), true
	}
	return day, best, found
}

type symptomCount struct {
	symptom health.Symptom
	count   int
}

// topSymptoms ranks symptoms by the number of days they were present.
// Ties keep canonical order.
func topSymptoms(logs []health.DailyLog, limit int) []symptomCount {
	var counts []symptomCount
	for _, s := range health.Symptoms {
		n := 0
		for _, l := range logs {
			if l.Intensity(s) > 0 {
				n++
			}
		}
		if n > 0 {
			counts = append(counts, symptomCount{s, n})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].count > counts[j].count })
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// timePattern treats hot flashes as daytime and night sweats as evening
// episodes, since check-ins carry no time of day.
func timePattern(T *texts, logs []health.DailyLog) string {
	var morning, evening int
	for _, l := range logs {
		if l.HotFlashes > 0 {
			morning++
		}
		if l.NightSweats > 0 {
			evening++
		}
	}
	switch {
	case evening > morning && evening >= patternMinCount:
		return T.eveningPattern
	case morning > evening && morning >= patternMinCount:
		return T.morningPattern
	}
	return ""
}

func capitalize(s string) string {
	for i, r := range s {
		return strings.ToUpper(string(r)) + s[i+len(string(r)):]
	}
	return s
}
