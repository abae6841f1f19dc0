package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kalambet/helene/internal/composer"
	"github.com/kalambet/helene/internal/health"
	"github.com/kalambet/helene/internal/insights"
)

const weeklyDays = 7

// WeeklySummary writes an encouraging recap of the last seven check-ins.
// Live mode asks the model; demo mode assembles the recap from insights and
// never fails.
func (a *Assistant) WeeklySummary(ctx context.Context, uc health.UserContext) (Response, error) {
	s := a.settings()
	mode := ResolveMode(s)
	if a.gen == nil {
		mode = ModeDemo
	}

	logs := uc.RecentLogs
	if len(logs) > weeklyDays {
		logs = logs[:weeklyDays]
	}

	if mode == ModeDemo {
		pause(ctx, s.DemoDelay)
		return Response{Text: demoSummary(uc.Locale(), logs), Mode: ModeDemo}, nil
	}

	start := time.Now()
	text, err := a.gen.GenerateContent(ctx, s.Model, WeeklyPrompt(uc.Age, uc.MenopauseStage, logs), GenerationConfig)
	if err != nil {
		ae := newError(err, uc.Locale())
		a.logger.Error("weekly summary failed", "kind", ae.Kind, "provider_status", ae.ProviderStatus, "elapsed", time.Since(start), "error", err)
		return Response{Mode: ModeLive, Model: s.Model}, ae
	}
	return Response{Text: text, Mode: ModeLive, Model: s.Model}, nil
}

// WeeklyPrompt builds the French recap prompt.
func WeeklyPrompt(age int, stage health.Stage, logs []health.DailyLog) string {
	var sb strings.Builder
	sb.WriteString("Tu es Hélène, assistante IA spécialisée en santé des femmes.\n\n")
	sb.WriteString("Génère un résumé hebdomadaire empathique et personnalisé pour cette utilisatrice.\n\n")
	sb.WriteString("Profil:\n")
	if age > 0 {
		fmt.Fprintf(&sb, "- Âge: %d ans\n", age)
	}
	if stage != "" {
		fmt.Fprintf(&sb, "- Phase: %s\n", composer.StageLabel("fr", stage))
	}

	sb.WriteString("\nLogs des 7 derniers jours:\n")
	for i, l := range logs {
		fmt.Fprintf(&sb, "\nJour %d:\n", i+1)
		fmt.Fprintf(&sb, "- Humeur: %d/5\n", l.Mood)
		fmt.Fprintf(&sb, "- Énergie: %d/5\n", l.EnergyLevel)
		fmt.Fprintf(&sb, "- Sommeil: %d/5\n", l.SleepQuality)
		fmt.Fprintf(&sb, "- Symptômes physiques notables: %s\n", notableSymptoms(l, true))
		fmt.Fprintf(&sb, "- Symptômes mentaux notables: %s\n", notableSymptoms(l, false))
		if n := strings.TrimSpace(l.Notes); n != "" {
			fmt.Fprintf(&sb, "- Notes: %s\n", n)
		}
	}

	sb.WriteString(`
Crée un résumé incluant:
1. Une observation générale de la semaine (2-3 lignes)
2. Les tendances positives
3. Les points d'attention
4. Des conseils personnalisés (2-3 conseils concrets)
5. Un message encourageant

Utilise un ton chaleureux, des emojis occasionnels, et structure avec des paragraphes courts.`)
	return sb.String()
}

// notableSymptoms lists symptoms of one group with intensity of at least 2.
func notableSymptoms(l health.DailyLog, physical bool) string {
	var names []string
	for _, s := range health.Symptoms {
		if s.IsPhysical() != physical || l.Intensity(s) < 2 {
			continue
		}
		names = append(names, composer.SymptomLabel("fr", string(s)))
	}
	if len(names) == 0 {
		return "Aucun"
	}
	return strings.Join(names, ", ")
}

var demoSummaryTexts = map[string]struct{ title, empty, closing string }{
	"fr": {
		title:   "Ta semaine en bref 🌸",
		empty:   "Pas encore assez de check-ins cette semaine pour un résumé. Continue à noter ton humeur et tes symptômes, je serai là pour faire le point avec toi 🌸",
		closing: "Chaque check-in t'aide à mieux comprendre ton corps. Prends soin de toi cette semaine 💗",
	},
	"en": {
		title:   "Your week at a glance 🌸",
		empty:   "Not enough check-ins this week for a recap yet. Keep logging your mood and symptoms and we'll look back together 🌸",
		closing: "Every check-in helps you understand your body a little better. Take care of yourself this week 💗",
	},
}

func demoSummary(locale string, logs []health.DailyLog) string {
	T := demoSummaryTexts[locale]
	found := insights.Weekly(logs, locale)
	if len(found) == 0 {
		return T.empty
	}
	var sb strings.Builder
	sb.WriteString(T.title)
	sb.WriteString("\n\n")
	for _, in := range found {
		fmt.Fprintf(&sb, "• %s\n", in.Message)
	}
	sb.WriteString("\n")
	sb.WriteString(T.closing)
	return sb.String()
}
