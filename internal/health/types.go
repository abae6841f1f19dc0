// Package health holds the user-side data the assistant reasons about:
// the profile snapshot, daily check-ins and conversation turns.
package health

import "strings"

// Stage is a menopause stage code.
type Stage string

const (
	StagePre  Stage = "pre"
	StagePeri Stage = "peri"
	StageMeno Stage = "meno"
	StagePost Stage = "post"
)

// Valid reports whether s is one of the four known stage codes.
func (s Stage) Valid() bool {
	switch s {
	case StagePre, StagePeri, StageMeno, StagePost:
		return true
	}
	return false
}

// Symptom is the storage key of a tracked symptom.
type Symptom string

const (
	HotFlashes   Symptom = "hot_flashes"
	NightSweats  Symptom = "night_sweats"
	Headaches    Symptom = "headaches"
	JointPain    Symptom = "joint_pain"
	Fatigue      Symptom = "fatigue"
	Anxiety      Symptom = "anxiety"
	Irritability Symptom = "irritability"
	BrainFog     Symptom = "brain_fog"
	LowMood      Symptom = "low_mood"
)

// Symptoms lists every tracked symptom in canonical display order.
var Symptoms = []Symptom{
	HotFlashes, NightSweats, Headaches, JointPain, Fatigue,
	Anxiety, Irritability, BrainFog, LowMood,
}

// IsPhysical reports whether the symptom belongs to the physical group.
func (s Symptom) IsPhysical() bool {
	switch s {
	case HotFlashes, NightSweats, Headaches, JointPain, Fatigue:
		return true
	}
	return false
}

// DailyLog is one day of self-reported check-in data.
// Scores are 1..5 and symptom intensities 1..3; zero means not recorded.
type DailyLog struct {
	LogDate      string `json:"log_date" yaml:"log_date"`
	Mood         int    `json:"mood,omitempty" yaml:"mood,omitempty"`
	EnergyLevel  int    `json:"energy_level,omitempty" yaml:"energy_level,omitempty"`
	SleepQuality int    `json:"sleep_quality,omitempty" yaml:"sleep_quality,omitempty"`
	HotFlashes   int    `json:"hot_flashes,omitempty" yaml:"hot_flashes,omitempty"`
	NightSweats  int    `json:"night_sweats,omitempty" yaml:"night_sweats,omitempty"`
	Headaches    int    `json:"headaches,omitempty" yaml:"headaches,omitempty"`
	JointPain    int    `json:"joint_pain,omitempty" yaml:"joint_pain,omitempty"`
	Fatigue      int    `json:"fatigue,omitempty" yaml:"fatigue,omitempty"`
	Anxiety      int    `json:"anxiety,omitempty" yaml:"anxiety,omitempty"`
	Irritability int    `json:"irritability,omitempty" yaml:"irritability,omitempty"`
	BrainFog     int    `json:"brain_fog,omitempty" yaml:"brain_fog,omitempty"`
	LowMood      int    `json:"low_mood,omitempty" yaml:"low_mood,omitempty"`
	Notes        string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Intensity returns the recorded intensity for s, or 0 for unknown keys.
func (d DailyLog) Intensity(s Symptom) int {
	switch s {
	case HotFlashes:
		return d.HotFlashes
	case NightSweats:
		return d.NightSweats
	case Headaches:
		return d.Headaches
	case JointPain:
		return d.JointPain
	case Fatigue:
		return d.Fatigue
	case Anxiety:
		return d.Anxiety
	case Irritability:
		return d.Irritability
	case BrainFog:
		return d.BrainFog
	case LowMood:
		return d.LowMood
	}
	return 0
}

// SetIntensity records v for s. Unknown keys are ignored.
func (d *DailyLog) SetIntensity(s Symptom, v int) {
	switch s {
	case HotFlashes:
		d.HotFlashes = v
	case NightSweats:
		d.NightSweats = v
	case Headaches:
		d.Headaches = v
	case JointPain:
		d.JointPain = v
	case Fatigue:
		d.Fatigue = v
	case Anxiety:
		d.Anxiety = v
	case Irritability:
		d.Irritability = v
	case BrainFog:
		d.BrainFog = v
	case LowMood:
		d.LowMood = v
	}
}

// UserContext is the per-request snapshot handed to the assistant.
// RecentLogs is expected newest first.
type UserContext struct {
	Age              int            `json:"age,omitempty" yaml:"age,omitempty"`
	MenopauseStage   Stage          `json:"menopause_stage,omitempty" yaml:"menopause_stage,omitempty"`
	Goals            []string       `json:"goals,omitempty" yaml:"goals,omitempty"`
	Language         string         `json:"language,omitempty" yaml:"language,omitempty"`
	ContextSummary   string         `json:"context_summary,omitempty" yaml:"context_summary,omitempty"`
	YesterdaySummary string         `json:"yesterday_summary,omitempty" yaml:"yesterday_summary,omitempty"`
	RecentLogs       []DailyLog     `json:"recent_logs,omitempty" yaml:"recent_logs,omitempty"`
	RecentSymptoms   map[string]int `json:"recent_symptoms,omitempty" yaml:"recent_symptoms,omitempty"`
}

// Locale returns "en" when Language starts with "en" (any case), else "fr".
func (u UserContext) Locale() string {
	return LocaleOf(u.Language)
}

// LocaleOf maps a free-form language tag onto the two supported locales.
func LocaleOf(lang string) string {
	if strings.HasPrefix(strings.ToLower(lang), "en") {
		return "en"
	}
	return "fr"
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of the running conversation.
type Turn struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}
