package insights

import "time"

type texts struct {
	moodTitle, moodMessage, up, down                    string
	sleepTitle, sleepMessage, sleptBetter, sleptWorse   string
	bestDayTitle, bestDayMessage                        string
	weekdays                                            map[time.Weekday]string
	topTitle, topMessage, and, days                     string
	patternTitle, morningPattern, eveningPattern        string
	energyTitle, energyMessage, energyGood, energyWatch string
	consistencyTitle, consistencyMessage                string
	overviewTitle, overviewMessage, presentMessage      string
}

var french = &texts{
	moodTitle:    "Tendance humeur",
	moodMessage:  "Votre humeur est %s de %.0f%% cette semaine",
	up:           "en hausse",
	down:         "en baisse",
	sleepTitle:   "Sommeil",
	sleepMessage: "Vous avez %s cette semaine (%+.1f pt)",
	sleptBetter:  "mieux dormi",
	sleptWorse:   "moins bien dormi",

	bestDayTitle:   "Meilleure journée",
	bestDayMessage: "%s était votre meilleur jour (humeur %d/5)",
	weekdays: map[time.Weekday]string{
		time.Sunday: "Dimanche", time.Monday: "Lundi", time.Tuesday: "Mardi",
		time.Wednesday: "Mercredi", time.Thursday: "Jeudi", time.Friday: "Vendredi",
		time.Saturday: "Samedi",
	},

	topTitle:   "Symptômes principaux",
	topMessage: "Cette semaine : %s",
	and:        " et ",
	days:       "%d jours",

	patternTitle:   "Pattern observé",
	morningPattern: "Vos symptômes sont plus fréquents le matin",
	eveningPattern: "Vos symptômes sont plus fréquents le soir",

	energyTitle:   "Niveau d'énergie",
	energyMessage: "Votre énergie moyenne est de %.1f/5",
	energyGood:    "Bon",
	energyWatch:   "À surveiller",

	consistencyTitle:   "Excellent suivi",
	consistencyMessage: "Vous avez complété %d/7 check-ins cette semaine",

	overviewTitle:   "Vue d'ensemble du mois",
	overviewMessage: "Humeur: %.1f/5 • Sommeil: %.1f/5 • Énergie: %.1f/5",
	presentMessage:  "Présent %d jours ce mois-ci",
}

var english = &texts{
	moodTitle:    "Mood trend",
	moodMessage:  "Your mood is %s %.0f%% this week",
	up:           "up",
	down:         "down",
	sleepTitle:   "Sleep",
	sleepMessage: "You %s this week (%+.1f pt)",
	sleptBetter:  "slept better",
	sleptWorse:   "slept worse",

	bestDayTitle:   "Best day",
	bestDayMessage: "%s was your best day (mood %d/5)",
	weekdays: map[time.Weekday]string{
		time.Sunday: "Sunday", time.Monday: "Monday", time.Tuesday: "Tuesday",
		time.Wednesday: "Wednesday", time.Thursday: "Thursday", time.Friday: "Friday",
		time.Saturday: "Saturday",
	},

	topTitle:   "Main symptoms",
	topMessage: "This week: %s",
	and:        " and ",
	days:       "%d days",

	patternTitle:   "Pattern spotted",
	morningPattern: "Your symptoms are more frequent in the morning",
	eveningPattern: "Your symptoms are more frequent in the evening",

	energyTitle:   "Energy level",
	energyMessage: "Your average energy is %.1f/5",
	energyGood:    "Good",
	energyWatch:   "Keep an eye on it",

	consistencyTitle:   "Great tracking",
	consistencyMessage: "You completed %d/7 check-ins this week",

	overviewTitle:   "Month at a glance",
	overviewMessage: "Mood: %.1f/5 • Sleep: %.1f/5 • Energy: %.1f/5",
	presentMessage:  "Present on %d days this month",
}

func textsFor(locale string) *texts {
	if locale == "en" {
		return english
	}
	return french
}
