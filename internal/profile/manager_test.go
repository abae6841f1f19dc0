package profile

import (
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/kalambet/helene/internal/health"
)

// --- Mock store ---

type mockStore struct {
	mu   sync.Mutex
	data map[string]string

	getAllCalls int
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) SetProfileKey(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockStore) DeleteProfileKey(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockStore) GetAllProfileKeys() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getAllCalls++
	cp := make(map[string]string, len(m.data))
	for k, v := range m.data {
		cp[k] = v
	}
	return cp, nil
}

// --- Mock clock ---

type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- Tests ---

func TestGetProfile_Empty(t *testing.T) {
	mgr := NewManager(newMockStore())

	p, err := mgr.GetProfile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(p, Profile{}) {
		t.Errorf("expected zero profile, got %+v", p)
	}
}

func TestSetAndGetFields(t *testing.T) {
	store := newMockStore()
	mgr := NewManager(store)

	fields := map[string]any{
		KeyAge:              "52",
		KeyMenopauseStage:   "peri",
		KeyGoals:            []string{"mieux dormir", " gérer le stress "},
		KeyLanguage:         "fr-FR",
		KeyContextSummary:   "  Humeur en hausse.  ",
		KeyYesterdaySummary: "2024-03-04: humeur 4/5",
	}
	for k, v := range fields {
		if err := mgr.SetField(k, v); err != nil {
			t.Fatalf("SetField(%s): %v", k, err)
		}
	}

	p, err := mgr.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile error: %v", err)
	}
	want := Profile{
		Age:              52,
		MenopauseStage:   health.StagePeri,
		Goals:            []string{"mieux dormir", "gérer le stress"},
		Language:         "fr-FR",
		ContextSummary:   "Humeur en hausse.",
		YesterdaySummary: "2024-03-04: humeur 4/5",
	}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("profile = %+v, want %+v", p, want)
	}
	if store.data[KeyGoals] != `["mieux dormir","gérer le stress"]` {
		t.Errorf("stored goals = %s", store.data[KeyGoals])
	}
}

func TestSetField_JSONValues(t *testing.T) {
	mgr := NewManager(newMockStore())

	var body map[string]any
	if err := json.Unmarshal([]byte(`{"age": 48, "goals": ["sleep", "energy"]}`), &body); err != nil {
		t.Fatal(err)
	}
	for k, v := range body {
		if err := mgr.SetField(k, v); err != nil {
			t.Fatalf("SetField(%s): %v", k, err)
		}
	}

	p, _ := mgr.GetProfile()
	if p.Age != 48 || !reflect.DeepEqual(p.Goals, []string{"sleep", "energy"}) {
		t.Errorf("profile = %+v", p)
	}
}

func TestSetField_GoalsFormats(t *testing.T) {
	tests := []struct {
		in   any
		want []string
	}{
		{"sleep, mood ,", []string{"sleep", "mood"}},
		{`["a","b"]`, []string{"a", "b"}},
		{[]any{"x"}, []string{"x"}},
	}
	for _, tt := range tests {
		mgr := NewManager(newMockStore())
		if err := mgr.SetField(KeyGoals, tt.in); err != nil {
			t.Fatalf("SetField(%v): %v", tt.in, err)
		}
		p, _ := mgr.GetProfile()
		if !reflect.DeepEqual(p.Goals, tt.want) {
			t.Errorf("goals for %v = %v, want %v", tt.in, p.Goals, tt.want)
		}
	}
}

func TestSetField_Validation(t *testing.T) {
	tests := []struct {
		key   string
		value any
		want  error
	}{
		{KeyAge, "abc", ErrInvalidValue},
		{KeyAge, 0, ErrInvalidValue},
		{KeyAge, 130, ErrInvalidValue},
		{KeyAge, 50.5, ErrInvalidValue},
		{KeyAge, true, ErrInvalidValue},
		{KeyMenopauseStage, "unknown", ErrInvalidValue},
		{KeyMenopauseStage, 3, ErrInvalidValue},
		{KeyGoals, []any{1}, ErrInvalidValue},
		{KeyGoals, `[broken`, ErrInvalidValue},
		{KeyLanguage, 12, ErrInvalidValue},
		{"favorite_color", "blue", ErrUnknownField},
	}
	for _, tt := range tests {
		mgr := NewManager(newMockStore())
		err := mgr.SetField(tt.key, tt.value)
		if !errors.Is(err, tt.want) {
			t.Errorf("SetField(%s, %v) error = %v, want %v", tt.key, tt.value, err, tt.want)
		}
	}
}

func TestSetFields_ValidatesBeforeWriting(t *testing.T) {
	store := newMockStore()
	mgr := NewManager(store)
	mgr.SetField(KeyAge, 50)

	err := mgr.SetFields(map[string]any{KeyAge: 45, KeyLanguage: "en", KeyMenopauseStage: "bogus"})
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("SetFields error = %v, want ErrInvalidValue", err)
	}
	if want := map[string]string{KeyAge: "50"}; !reflect.DeepEqual(store.data, want) {
		t.Errorf("store = %v, want %v", store.data, want)
	}

	if err := mgr.SetFields(map[string]any{KeyAge: nil, KeyLanguage: "en"}); err != nil {
		t.Fatalf("SetFields: %v", err)
	}
	if want := map[string]string{KeyLanguage: "en"}; !reflect.DeepEqual(store.data, want) {
		t.Errorf("store = %v, want %v", store.data, want)
	}
}

func TestSetField_EmptyClears(t *testing.T) {
	store := newMockStore()
	mgr := NewManager(store)

	mgr.SetField(KeyAge, 50)
	mgr.SetField(KeyGoals, "sleep")
	if err := mgr.SetField(KeyAge, ""); err != nil {
		t.Fatalf("clearing age: %v", err)
	}
	if err := mgr.SetField(KeyGoals, ""); err != nil {
		t.Fatalf("clearing goals: %v", err)
	}
	if len(store.data) != 0 {
		t.Errorf("store still holds %v", store.data)
	}
}

func TestBuildProfile_MalformedValues(t *testing.T) {
	p := buildProfile(map[string]string{
		KeyAge:      "fifty",
		KeyGoals:    "not json",
		KeyLanguage: "en",
	})
	if p.Age != 0 || p.Goals != nil || p.Language != "en" {
		t.Errorf("profile = %+v", p)
	}
}

func TestGetProfile_ReturnsCopy(t *testing.T) {
	mgr := NewManager(newMockStore())
	mgr.SetField(KeyGoals, []string{"sleep"})

	p, _ := mgr.GetProfile()
	p.Goals[0] = "mutated"

	again, _ := mgr.GetProfile()
	if again.Goals[0] != "sleep" {
		t.Errorf("cached profile was mutated: %v", again.Goals)
	}
}

func TestProfileUserContext(t *testing.T) {
	p := Profile{Age: 51, MenopauseStage: health.StageMeno, Goals: []string{"a"}, Language: "en", ContextSummary: "cs"}
	uc := p.UserContext()
	if uc.Age != 51 || uc.MenopauseStage != health.StageMeno || uc.Language != "en" || uc.ContextSummary != "cs" {
		t.Errorf("UserContext = %+v", uc)
	}
	uc.Goals[0] = "changed"
	if p.Goals[0] != "a" {
		t.Error("UserContext shares the goals slice")
	}
}

func TestCacheTTL(t *testing.T) {
	store := newMockStore()
	clock := &mockClock{now: time.Now()}
	mgr := NewManagerWithClock(store, clock, 60*time.Second)

	mgr.SetField(KeyLanguage, "fr")

	mgr.GetProfile()
	mgr.GetProfile()

	store.mu.Lock()
	calls := store.getAllCalls
	store.mu.Unlock()

	if calls != 1 {
		t.Errorf("expected 1 store call (cache hit on second), got %d", calls)
	}
}

func TestCacheInvalidation(t *testing.T) {
	store := newMockStore()
	clock := &mockClock{now: time.Now()}
	ttl := 60 * time.Second
	mgr := NewManagerWithClock(store, clock, ttl)

	mgr.SetField(KeyLanguage, "fr")

	mgr.GetProfile()

	// Advance past TTL
	clock.Advance(ttl + time.Second)

	mgr.GetProfile()

	store.mu.Lock()
	calls := store.getAllCalls
	store.mu.Unlock()

	if calls != 2 {
		t.Errorf("expected 2 store calls (cache expired), got %d", calls)
	}
}

func TestSetFieldInvalidatesCache(t *testing.T) {
	store := newMockStore()
	clock := &mockClock{now: time.Now()}
	mgr := NewManagerWithClock(store, clock, time.Hour)

	mgr.SetField(KeyLanguage, "fr")
	if p, _ := mgr.GetProfile(); p.Language != "fr" {
		t.Fatalf("language = %q", p.Language)
	}
	mgr.SetField(KeyLanguage, "en")
	if p, _ := mgr.GetProfile(); p.Language != "en" {
		t.Errorf("language after update = %q, want en", p.Language)
	}
}
