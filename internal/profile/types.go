package profile

import "github.com/kalambet/helene/internal/health"

// Storage keys of the profile fields.
const (
	KeyAge              = "age"
	KeyMenopauseStage   = "menopause_stage"
	KeyGoals            = "goals"
	KeyLanguage         = "language"
	KeyContextSummary   = "context_summary"
	KeyYesterdaySummary = "yesterday_summary"
)

// Fields lists every settable key in display order.
var Fields = []string{
	KeyAge, KeyMenopauseStage, KeyGoals, KeyLanguage, KeyContextSummary, KeyYesterdaySummary,
}

// Profile is the user's stored profile plus the summaries written by the
// nightly refresher.
type Profile struct {
	Age              int          `json:"age,omitempty" yaml:"age,omitempty"`
	MenopauseStage   health.Stage `json:"menopause_stage,omitempty" yaml:"menopause_stage,omitempty"`
	Goals            []string     `json:"goals,omitempty" yaml:"goals,omitempty"`
	Language         string       `json:"language,omitempty" yaml:"language,omitempty"`
	ContextSummary   string       `json:"context_summary,omitempty" yaml:"context_summary,omitempty"`
	YesterdaySummary string       `json:"yesterday_summary,omitempty" yaml:"yesterday_summary,omitempty"`
}

// UserContext returns the profile part of a request context. Logs and
// symptom counts are left for the caller to fill.
func (p Profile) UserContext() health.UserContext {
	return health.UserContext{
		Age:              p.Age,
		MenopauseStage:   p.MenopauseStage,
		Goals:            append([]string(nil), p.Goals...),
		Language:         p.Language,
		ContextSummary:   p.ContextSummary,
		YesterdaySummary: p.YesterdaySummary,
	}
}
