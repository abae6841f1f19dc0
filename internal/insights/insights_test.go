package insights

import (
	"fmt"
	"testing"

	"github.com/kalambet/helene/internal/health"
)

// twoWeeks returns 14 logs, newest first: 2024-03-10 (Sunday) back to 2024-02-26.
func twoWeeks() []health.DailyLog {
	var logs []health.DailyLog
	for i := 0; i < 14; i++ {
		day := 10 - i
		date := fmt.Sprintf("2024-03-%02d", day)
		if day <= 0 {
			date = fmt.Sprintf("2024-02-%02d", 29+day)
		}
		l := health.DailyLog{LogDate: date}
		if i < 7 {
			l.Mood, l.SleepQuality, l.EnergyLevel = 4, 4, 3
			if i%2 == 0 {
				l.HotFlashes = 2
			}
		} else {
			l.Mood, l.SleepQuality, l.EnergyLevel = 2, 2, 3
		}
		logs = append(logs, l)
	}
	// Wednesday 2024-03-06 is the best day.
	logs[4].Mood = 5
	logs[1].NightSweats = 1
	return logs
}

func TestWeekly_French(t *testing.T) {
	got := Weekly(twoWeeks(), "fr")

	wantIDs := []string{"mood-trend", "sleep-trend", "best-day", "top-symptoms", "time-pattern"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d insights, want %d: %+v", len(got), len(wantIDs), got)
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("insight[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}

	checks := []struct {
		idx     int
		message string
		value   string
		kind    Kind
	}{
		{0, "Votre humeur est en hausse de 107% cette semaine", "4.1/5", KindPositive},
		{1, "Vous avez mieux dormi cette semaine (+2.0 pt)", "4.0/5", KindPositive},
		{2, "Mercredi était votre meilleur jour (humeur 5/5)", "Mercredi", KindPositive},
		{3, "Cette semaine : bouffées de chaleur et sueurs nocturnes", "4 jours", KindWarning},
		{4, "Vos symptômes sont plus fréquents le matin", "🕐", KindInfo},
	}
	for _, c := range checks {
		in := got[c.idx]
		if in.Message != c.message {
			t.Errorf("%s message = %q, want %q", in.ID, in.Message, c.message)
		}
		if in.Value != c.value {
			t.Errorf("%s value = %q, want %q", in.ID, in.Value, c.value)
		}
		if in.Type != c.kind {
			t.Errorf("%s type = %q, want %q", in.ID, in.Type, c.kind)
		}
	}
}

func TestWeekly_DecliningMood(t *testing.T) {
	logs := twoWeeks()
	for i := range logs {
		if i < 7 {
			logs[i].Mood = 2
		} else {
			logs[i].Mood = 4
		}
	}
	got := Weekly(logs, "en")
	if len(got) == 0 || got[0].ID != "mood-trend" {
		t.Fatalf("expected mood trend first, got %+v", got)
	}
	if got[0].Type != KindWarning || got[0].Message != "Your mood is down 50% this week" {
		t.Errorf("got %+v", got[0])
	}
}

func TestWeekly_SingleLogEnglish(t *testing.T) {
	got := Weekly([]health.DailyLog{{LogDate: "2024-03-04", Mood: 3, EnergyLevel: 2}}, "en")

	if len(got) != 2 {
		t.Fatalf("got %d insights, want 2: %+v", len(got), got)
	}
	if got[0].Message != "Monday was your best day (mood 3/5)" {
		t.Errorf("best day = %q", got[0].Message)
	}
	if got[1].ID != "energy" || got[1].Type != KindInfo || got[1].Value != "Keep an eye on it" {
		t.Errorf("energy = %+v", got[1])
	}
}

func TestWeekly_Consistency(t *testing.T) {
	var logs []health.DailyLog
	for i := 0; i < 6; i++ {
		logs = append(logs, health.DailyLog{LogDate: "bad-date"})
	}
	got := Weekly(logs, "fr")
	if len(got) != 1 || got[0].ID != "consistency" {
		t.Fatalf("got %+v", got)
	}
	if got[0].Value != "86%" || got[0].Message != "Vous avez complété 6/7 check-ins cette semaine" {
		t.Errorf("got %+v", got[0])
	}
}

func TestWeekly_Empty(t *testing.T) {
	if got := Weekly(nil, "fr"); got != nil {
		t.Errorf("Weekly(nil) = %+v, want nil", got)
	}
}

func TestMonthly(t *testing.T) {
	var logs []health.DailyLog
	for i := 0; i < 10; i++ {
		l := health.DailyLog{LogDate: fmt.Sprintf("2024-01-%02d", 20-i), Mood: 3, SleepQuality: 4, EnergyLevel: 2}
		if i < 5 {
			l.HotFlashes = 1
		}
		if i >= 5 {
			l.Headaches = 2
		}
		if i < 2 {
			l.Fatigue = 3
		}
		logs = append(logs, l)
	}

	got := Monthly(logs, "fr")
	if len(got) != 4 {
		t.Fatalf("got %d insights, want 4: %+v", len(got), got)
	}
	if got[0].Message != "Humeur: 3.0/5 • Sommeil: 4.0/5 • Énergie: 2.0/5" || got[0].Value != "10 jours" {
		t.Errorf("overview = %+v", got[0])
	}

	want := []struct{ title, value string }{
		{"Bouffées de chaleur", "50%"},
		{"Maux de tête", "50%"},
		{"Fatigue", "20%"},
	}
	for i, w := range want {
		in := got[i+1]
		if in.Title != w.title || in.Value != w.value {
			t.Errorf("symptom %d = %+v, want %s %s", i, in, w.title, w.value)
		}
	}
}

func TestMonthly_TooFewLogs(t *testing.T) {
	if got := Monthly(make([]health.DailyLog, 6), "fr"); got != nil {
		t.Errorf("Monthly with 6 logs = %+v, want nil", got)
	}
}

func TestMessages(t *testing.T) {
	got := Messages([]Insight{{Message: "a"}, {Message: "b"}})
	if got != "a. b" {
		t.Errorf("Messages = %q", got)
	}
}
