package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kalambet/helene/internal/health"
)

var (
	// ErrUnknownField is returned by SetField for keys outside Fields.
	ErrUnknownField = errors.New("unknown profile field")
	// ErrInvalidValue is returned by SetField when a value fails validation.
	ErrInvalidValue = errors.New("invalid profile value")
)

// ProfileStore defines the storage operations the Manager needs.
// Implemented by storage.Store.
type ProfileStore interface {
	SetProfileKey(key, value string) error
	GetAllProfileKeys() (map[string]string, error)
	DeleteProfileKey(key string) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Manager provides cached, structured access to the user profile stored in SQLite.
type Manager struct {
	store ProfileStore
	clock Clock
	ttl   time.Duration

	mu       sync.RWMutex
	cached   *Profile
	cachedAt time.Time
}

// NewManager creates a Manager with a 60-second cache TTL.
func NewManager(store ProfileStore) *Manager {
	return &Manager{
		store: store,
		clock: realClock{},
		ttl:   60 * time.Second,
	}
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(store ProfileStore, clock Clock, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		clock: clock,
		ttl:   ttl,
	}
}

// GetProfile reads all profile keys from storage (or cache) and assembles
// a structured Profile. Returns a zero-value Profile on empty store.
func (m *Manager) GetProfile() (Profile, error) {
	// Fast path: read lock for cache hit.
	m.mu.RLock()
	if m.cached != nil && m.clock.Now().Before(m.cachedAt.Add(m.ttl)) {
		p := deepCopyProfile(m.cached)
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock.
	if m.cached != nil && m.clock.Now().Before(m.cachedAt.Add(m.ttl)) {
		return deepCopyProfile(m.cached), nil
	}

	keys, err := m.store.GetAllProfileKeys()
	if err != nil {
		return Profile{}, fmt.Errorf("loading profile keys: %w", err)
	}

	p := buildProfile(keys)
	m.cached = &p
	m.cachedAt = m.clock.Now()
	return deepCopyProfile(&p), nil
}

// SetField validates and persists one profile key, then invalidates the
// cache. value may be a string or a JSON-decoded value (number, array).
// An empty string clears the field.
func (m *Manager) SetField(key string, value any) error {
	return m.SetFields(map[string]any{key: value})
}

// SetFields validates every field before writing any of them, so a bad
// value leaves the profile untouched. A nil value clears its field.
func (m *Manager) SetFields(fields map[string]any) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, len(keys))
	for i, key := range keys {
		value := fields[key]
		if value == nil {
			value = ""
		}
		str, err := normalize(key, value)
		if err != nil {
			return err
		}
		values[i] = str
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.cached = nil }()

	for i, key := range keys {
		var err error
		if values[i] == "" {
			err = m.store.DeleteProfileKey(key)
		} else {
			err = m.store.SetProfileKey(key, values[i])
		}
		if err != nil {
			return fmt.Errorf("setting profile key %q: %w", key, err)
		}
	}
	return nil
}

// normalize turns value into the stored string form of key.
func normalize(key string, value any) (string, error) {
	switch key {
	case KeyAge:
		var age int
		switch v := value.(type) {
		case int:
			age = v
		case float64:
			if v != float64(int(v)) {
				return "", fmt.Errorf("%w: age %v is not a whole number", ErrInvalidValue, v)
			}
			age = int(v)
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				return "", nil
			}
			n, err := strconv.Atoi(s)
			if err != nil {
				return "", fmt.Errorf("%w: age %q is not a number", ErrInvalidValue, v)
			}
			age = n
		default:
			return "", fmt.Errorf("%w: age must be a number", ErrInvalidValue)
		}
		if age < 1 || age > 120 {
			return "", fmt.Errorf("%w: age %d out of range", ErrInvalidValue, age)
		}
		return strconv.Itoa(age), nil

	case KeyMenopauseStage:
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("%w: menopause_stage must be a string", ErrInvalidValue)
		}
		s = strings.TrimSpace(s)
		if s != "" && !health.Stage(s).Valid() {
			return "", fmt.Errorf("%w: menopause_stage must be one of pre, peri, meno, post", ErrInvalidValue)
		}
		return s, nil

	case KeyGoals:
		goals, err := goalList(value)
		if err != nil {
			return "", err
		}
		if len(goals) == 0 {
			return "", nil
		}
		b, err := json.Marshal(goals)
		if err != nil {
			return "", fmt.Errorf("marshalling goals: %w", err)
		}
		return string(b), nil

	case KeyLanguage, KeyContextSummary, KeyYesterdaySummary:
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("%w: %s must be a string", ErrInvalidValue, key)
		}
		return strings.TrimSpace(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, key)
}

// goalList accepts a string slice, a JSON-decoded array, a JSON array string
// or a comma-separated string.
func goalList(value any) ([]string, error) {
	var raw []string
	switch v := value.(type) {
	case []string:
		raw = v
	case []any:
		for _, g := range v {
			s, ok := g.(string)
			if !ok {
				return nil, fmt.Errorf("%w: goals must be strings", ErrInvalidValue)
			}
			raw = append(raw, s)
		}
	case string:
		s := strings.TrimSpace(v)
		if strings.HasPrefix(s, "[") {
			if err := json.Unmarshal([]byte(s), &raw); err != nil {
				return nil, fmt.Errorf("%w: goals: %v", ErrInvalidValue, err)
			}
		} else {
			raw = strings.Split(s, ",")
		}
	default:
		return nil, fmt.Errorf("%w: goals must be a list", ErrInvalidValue)
	}

	goals := make([]string, 0, len(raw))
	for _, g := range raw {
		if g = strings.TrimSpace(g); g != "" {
			goals = append(goals, g)
		}
	}
	return goals, nil
}

func deepCopyProfile(p *Profile) Profile {
	if p == nil {
		return Profile{}
	}
	cp := *p
	if p.Goals != nil {
		cp.Goals = make([]string, len(p.Goals))
		copy(cp.Goals, p.Goals)
	}
	return cp
}

// buildProfile assembles a Profile from flat key-value pairs. Malformed
// values are logged and skipped.
func buildProfile(keys map[string]string) Profile {
	var p Profile

	if v, ok := keys[KeyAge]; ok {
		if age, err := strconv.Atoi(v); err == nil {
			p.Age = age
		} else {
			slog.Warn("malformed profile key, skipping", "key", KeyAge, "error", err)
		}
	}
	p.MenopauseStage = health.Stage(keys[KeyMenopauseStage])
	unmarshalProfileKey(keys, KeyGoals, &p.Goals)
	p.Language = keys[KeyLanguage]
	p.ContextSummary = keys[KeyContextSummary]
	p.YesterdaySummary = keys[KeyYesterdaySummary]

	return p
}

// unmarshalProfileKey unmarshals a JSON value from keys into target, logging
// a warning if the value is present but malformed.
func unmarshalProfileKey(keys map[string]string, key string, target any) {
	v, ok := keys[key]
	if !ok {
		return
	}
	if err := json.Unmarshal([]byte(v), target); err != nil {
		slog.Warn("malformed profile key, skipping", "key", key, "error", err)
	}
}
