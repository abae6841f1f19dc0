package composer

import (
	"strconv"

	"github.com/kalambet/helene/internal/health"
)

// labelSet is the locale dictionary used to render a context block.
// Instances are never mutated after package init.
type labelSet struct {
	header         string
	language       string
	age            string
	ageSuffix      string
	stage          string
	goals          string
	summary        string
	yesterday      string
	last7Days      string
	recentSymptoms string
	lastCheckIn    string
	avgMood        string
	avgEnergy      string
	avgSleep       string
	mood           string
	energy         string
	sleep          string
	unknownDate    string
	none           string
	stages         map[health.Stage]string
	symptoms       map[health.Symptom]string
	intensity      [4]string
}

var locales = map[string]*labelSet{
	"en": {
		header:         "USER CONTEXT (do not repeat verbatim):",
		language:       "Language",
		age:            "Age",
		stage:          "Stage",
		goals:          "Goals",
		summary:        "Summary (app)",
		yesterday:      "Yesterday",
		last7Days:      "Daily check-ins (last 7 days)",
		recentSymptoms: "Recent symptoms",
		lastCheckIn:    "Last check-in",
		avgMood:        "Avg mood (7d)",
		avgEnergy:      "Avg energy (7d)",
		avgSleep:       "Avg sleep (7d)",
		mood:           "mood",
		energy:         "energy",
		sleep:          "sleep",
		unknownDate:    "(unknown date)",
		none:           "none",
		stages: map[health.Stage]string{
			health.StagePre:  "Pre-menopause",
			health.StagePeri: "Perimenopause",
			health.StageMeno: "Menopause",
			health.StagePost: "Post-menopause",
		},
		symptoms: map[health.Symptom]string{
			health.HotFlashes:   "hot flashes",
			health.NightSweats:  "night sweats",
			health.Headaches:    "headaches",
			health.JointPain:    "joint pain",
			health.Fatigue:      "fatigue",
			health.Anxiety:      "anxiety",
			health.Irritability: "irritability",
			health.BrainFog:     "brain fog",
			health.LowMood:      "low mood",
		},
		intensity: [4]string{"", "mild", "moderate", "severe"},
	},
	"fr": {
		header:         "CONTEXTE UTILISATRICE (ne pas répéter tel quel):",
		language:       "Langue",
		age:            "Âge",
		ageSuffix:      " ans",
		stage:          "Phase",
		goals:          "Objectifs",
		summary:        "Résumé (app)",
		yesterday:      "Hier",
		last7Days:      "Check-ins journaliers (7 derniers jours)",
		recentSymptoms: "Symptômes récents",
		lastCheckIn:    "Dernier check-in",
		avgMood:        "Moyenne humeur (7j)",
		avgEnergy:      "Moyenne énergie (7j)",
		avgSleep:       "Moyenne sommeil (7j)",
		mood:           "humeur",
		energy:         "énergie",
		sleep:          "sommeil",
		unknownDate:    "(date inconnue)",
		none:           "aucun",
		stages: map[health.Stage]string{
			health.StagePre:  "Pré-ménopause",
			health.StagePeri: "Périménopause",
			health.StageMeno: "Ménopause",
			health.StagePost: "Post-ménopause",
		},
		symptoms: map[health.Symptom]string{
			health.HotFlashes:   "bouffées de chaleur",
			health.NightSweats:  "sueurs nocturnes",
			health.Headaches:    "maux de tête",
			health.JointPain:    "douleurs articulaires",
			health.Fatigue:      "fatigue",
			health.Anxiety:      "anxiété",
			health.Irritability: "irritabilité",
			health.BrainFog:     "brouillard mental",
			health.LowMood:      "humeur basse",
		},
		intensity: [4]string{"", "légers", "modérés", "sévères"},
	},
}

func labelsFor(locale string) *labelSet {
	if l, ok := locales[locale]; ok {
		return l
	}
	return locales["fr"]
}

// stageLabel renders a stage code; unrecognized codes are shown as-is.
func (l *labelSet) stageLabel(s health.Stage) string {
	if v, ok := l.stages[s]; ok {
		return v
	}
	return string(s)
}

// symptomLabel renders a symptom key; unrecognized keys are shown as-is.
func (l *labelSet) symptomLabel(key string) string {
	if v, ok := l.symptoms[health.Symptom(key)]; ok {
		return v
	}
	return key
}

// intensityWord renders 1..3 as a word and anything else as the raw number.
func (l *labelSet) intensityWord(v int) string {
	if v >= 1 && v < len(l.intensity) {
		return l.intensity[v]
	}
	return strconv.Itoa(v)
}

// SymptomLabel returns the localized display name of a symptom key.
func SymptomLabel(locale, key string) string {
	return labelsFor(locale).symptomLabel(key)
}

// StageLabel returns the localized display name of a menopause stage.
func StageLabel(locale string, s health.Stage) string {
	return labelsFor(locale).stageLabel(s)
}
