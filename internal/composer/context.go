package composer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kalambet/helene/internal/health"
)

const (
	maxDayLines       = 7
	maxSymptomsPerDay = 8
)

// BuildContext renders the user context block that is injected into every
// live prompt. Labels follow the profile language only; the message text is
// never consulted. Missing or malformed fields are skipped, never reported.
func BuildContext(uc health.UserContext) string {
	locale := uc.Locale()
	L := labelsFor(locale)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n- %s: %s\n", L.header, L.language, locale)

	if uc.Age > 0 {
		fmt.Fprintf(&sb, "- %s: %d%s\n", L.age, uc.Age, L.ageSuffix)
	}
	if uc.MenopauseStage != "" {
		fmt.Fprintf(&sb, "- %s: %s\n", L.stage, L.stageLabel(uc.MenopauseStage))
	}
	if len(uc.Goals) > 0 {
		fmt.Fprintf(&sb, "- %s: %s\n", L.goals, strings.Join(uc.Goals, ", "))
	}
	if s := strings.TrimSpace(uc.ContextSummary); s != "" {
		fmt.Fprintf(&sb, "- %s: %s\n", L.summary, s)
	}
	if s := strings.TrimSpace(uc.YesterdaySummary); s != "" {
		fmt.Fprintf(&sb, "- %s: %s\n", L.yesterday, s)
	}

	if len(uc.RecentLogs) > 0 {
		fmt.Fprintf(&sb, "- %s:\n", L.last7Days)
		for i, log := range uc.RecentLogs {
			if i == maxDayLines {
				break
			}
			sb.WriteString("  - ")
			sb.WriteString(formatDay(L, log))
			sb.WriteByte('\n')
		}
	}

	if pairs := recentSymptomPairs(L, uc.RecentSymptoms); len(pairs) > 0 {
		fmt.Fprintf(&sb, "- %s: %s\n", L.recentSymptoms, strings.Join(pairs, ", "))
	}

	if len(uc.RecentLogs) > 0 {
		if d := strings.TrimSpace(uc.RecentLogs[0].LogDate); d != "" {
			fmt.Fprintf(&sb, "- %s: %s\n", L.lastCheckIn, d)
		}
		averages := []struct {
			label string
			value func(health.DailyLog) int
		}{
			{L.avgMood, func(d health.DailyLog) int { return d.Mood }},
			{L.avgEnergy, func(d health.DailyLog) int { return d.EnergyLevel }},
			{L.avgSleep, func(d health.DailyLog) int { return d.SleepQuality }},
		}
		for _, a := range averages {
			if avg, ok := meanOneDecimal(uc.RecentLogs, a.value); ok {
				fmt.Fprintf(&sb, "- %s: %s/5\n", a.label, avg)
			}
		}
	}

	return sb.String()
}

// FormatDay renders one check-in as a compact line, e.g.
// "2024-03-02 (mood 3/5, sleep 2/5): hot flashes=moderate".
func FormatDay(locale string, log health.DailyLog) string {
	return formatDay(labelsFor(locale), log)
}

func formatDay(L *labelSet, log health.DailyLog) string {
	date := strings.TrimSpace(log.LogDate)
	if date == "" {
		date = L.unknownDate
	}
	return date + formatScores(L, log) + ": " + formatSymptoms(L, log)
}

func formatScores(L *labelSet, log health.DailyLog) string {
	var parts []string
	if log.Mood > 0 {
		parts = append(parts, fmt.Sprintf("%s %d/5", L.mood, log.Mood))
	}
	if log.EnergyLevel > 0 {
		parts = append(parts, fmt.Sprintf("%s %d/5", L.energy, log.EnergyLevel))
	}
	if log.SleepQuality > 0 {
		parts = append(parts, fmt.Sprintf("%s %d/5", L.sleep, log.SleepQuality))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func formatSymptoms(L *labelSet, log health.DailyLog) string {
	var parts []string
	for _, s := range health.Symptoms {
		v := log.Intensity(s)
		if v <= 0 {
			continue
		}
		parts = append(parts, L.symptomLabel(string(s))+"="+L.intensityWord(v))
		if len(parts) == maxSymptomsPerDay {
			break
		}
	}
	if len(parts) == 0 {
		return L.none
	}
	return strings.Join(parts, ", ")
}

// recentSymptomPairs renders the legacy symptom map. Known symptoms come
// first in canonical order, then unknown keys alphabetically.
func recentSymptomPairs(L *labelSet, m map[string]int) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	known := make(map[string]bool, len(health.Symptoms))
	for _, s := range health.Symptoms {
		known[string(s)] = true
		if _, ok := m[string(s)]; ok {
			keys = append(keys, string(s))
		}
	}
	var extra []string
	for k := range m {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	var pairs []string
	for _, k := range keys {
		v := m[k]
		if v <= 0 {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s (%s)", L.symptomLabel(k), L.intensityWord(v)))
	}
	return pairs
}

// meanOneDecimal averages the positive samples of a metric and formats it
// with one decimal, rounding halves up.
func meanOneDecimal(logs []health.DailyLog, value func(health.DailyLog) int) (string, bool) {
	var sum, n int
	for _, l := range logs {
		if v := value(l); v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return "", false
	}
	tenths := (20*sum + n) / (2 * n)
	return strconv.Itoa(tenths/10) + "." + strconv.Itoa(tenths%10), true
}
