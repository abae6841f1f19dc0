package health

import (
	"strings"
	"testing"
)

func TestDailyLogValidate(t *testing.T) {
	valid := DailyLog{LogDate: "2024-03-04", Mood: 5, EnergyLevel: 1, HotFlashes: 3}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid log rejected: %v", err)
	}
	if err := (DailyLog{LogDate: "2024-03-04"}).Validate(); err != nil {
		t.Errorf("empty scores rejected: %v", err)
	}

	tests := []struct {
		name string
		log  DailyLog
		want string
	}{
		{"bad date", DailyLog{LogDate: "04/03/2024"}, "log_date"},
		{"mood too high", DailyLog{LogDate: "2024-03-04", Mood: 6}, "mood"},
		{"negative sleep", DailyLog{LogDate: "2024-03-04", SleepQuality: -1}, "sleep_quality"},
		{"intensity too high", DailyLog{LogDate: "2024-03-04", BrainFog: 4}, "brain_fog"},
		{"long notes", DailyLog{LogDate: "2024-03-04", Notes: strings.Repeat("x", MaxNotesLength+1)}, "notes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.log.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleUser) || !ValidRole(RoleAssistant) || ValidRole("system") {
		t.Error("ValidRole mismatch")
	}
}
