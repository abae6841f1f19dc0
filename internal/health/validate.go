package health

import (
	"errors"
	"fmt"
	"time"
)

// MaxNotesLength bounds the free-text note of a check-in, in bytes.
const MaxNotesLength = 2000

// MaxIntensity is the strongest symptom intensity, "severe".
const MaxIntensity = 3

// Validate checks the date format and the score and intensity ranges.
// Zero values are accepted as "not recorded".
func (d DailyLog) Validate() error {
	var errs []error
	if _, err := time.Parse(time.DateOnly, d.LogDate); err != nil {
		errs = append(errs, fmt.Errorf("log_date %q is not a YYYY-MM-DD date", d.LogDate))
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"mood", d.Mood},
		{"energy_level", d.EnergyLevel},
		{"sleep_quality", d.SleepQuality},
	} {
		if f.v < 0 || f.v > 5 {
			errs = append(errs, fmt.Errorf("%s must be between 1 and 5, got %d", f.name, f.v))
		}
	}
	for _, s := range Symptoms {
		if v := d.Intensity(s); v < 0 || v > MaxIntensity {
			errs = append(errs, fmt.Errorf("%s must be between 1 and 3, got %d", s, v))
		}
	}
	if len(d.Notes) > MaxNotesLength {
		errs = append(errs, fmt.Errorf("notes exceed %d bytes", MaxNotesLength))
	}
	return errors.Join(errs...)
}

// ValidRole reports whether r is a known conversation role.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAssistant
}
