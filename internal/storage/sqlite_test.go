package storage

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kalambet/helene/internal/health"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// the schema_version count stays correct (migration not re-applied).
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if err := s1.SaveDailyLog(health.DailyLog{LogDate: "2024-03-01", Mood: 3}); err != nil {
		t.Fatalf("SaveDailyLog: %v", err)
	}

	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
	if _, err := s2.GetDailyLog("2024-03-01"); err != nil {
		t.Errorf("data lost across reopen: %v", err)
	}
}

// TestMigrationsOrdered verifies migrations are applied in ascending numeric order.
func TestMigrationsOrdered(t *testing.T) {
	s := openTestStore(t)

	versions, err := s.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(versions) == 0 {
		t.Fatal("expected at least one applied migration")
	}

	for i := 1; i < len(versions); i++ {
		if versions[i] <= versions[i-1] {
			t.Errorf("migrations not in ascending order: %v", versions)
			break
		}
	}
}

func TestIndexesExist(t *testing.T) {
	s := openTestStore(t)

	indexes := []string{"idx_interactions_created", "idx_interactions_session", "idx_turns_created"}
	for _, idx := range indexes {
		var count int
		err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&count)
		if err != nil {
			t.Fatalf("querying sqlite_master for %q: %v", idx, err)
		}
		if count != 1 {
			t.Errorf("index %q not found in sqlite_master", idx)
		}
	}
}

func TestParseMigrationVersion(t *testing.T) {
	v, err := parseMigrationVersion("001_init.sql")
	if err != nil || v != 1 {
		t.Errorf("parseMigrationVersion = %d, %v", v, err)
	}
	if _, err := parseMigrationVersion("init.sql"); err == nil {
		t.Error("expected error for unversioned file")
	}
}

// --- Daily Logs ---

func TestDailyLogRoundTrip(t *testing.T) {
	s := openTestStore(t)

	want := health.DailyLog{
		LogDate: "2024-03-04", Mood: 4, EnergyLevel: 3, SleepQuality: 2,
		HotFlashes: 2, NightSweats: 1, Headaches: 3, JointPain: 1, Fatigue: 2,
		Anxiety: 1, Irritability: 2, BrainFog: 3, LowMood: 1,
		Notes: "marche de 30 min",
	}
	if err := s.SaveDailyLog(want); err != nil {
		t.Fatalf("SaveDailyLog: %v", err)
	}

	got, err := s.GetDailyLog("2024-03-04")
	if err != nil {
		t.Fatalf("GetDailyLog: %v", err)
	}
	if got != want {
		t.Errorf("GetDailyLog = %+v, want %+v", got, want)
	}
}

func TestSaveDailyLog_Upsert(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveDailyLog(health.DailyLog{LogDate: "2024-03-04", Mood: 2, HotFlashes: 3}); err != nil {
		t.Fatalf("SaveDailyLog: %v", err)
	}
	if err := s.SaveDailyLog(health.DailyLog{LogDate: "2024-03-04", Mood: 5}); err != nil {
		t.Fatalf("SaveDailyLog (overwrite): %v", err)
	}

	got, err := s.GetDailyLog("2024-03-04")
	if err != nil {
		t.Fatalf("GetDailyLog: %v", err)
	}
	if got.Mood != 5 || got.HotFlashes != 0 {
		t.Errorf("after upsert = %+v, want mood 5 and no hot flashes", got)
	}

	logs, err := s.ListRecentLogs(0)
	if err != nil {
		t.Fatalf("ListRecentLogs: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("got %d rows, want 1", len(logs))
	}
}

func TestSaveDailyLog_InvalidDate(t *testing.T) {
	s := openTestStore(t)

	for _, date := range []string{"", "04/03/2024", "2024-13-01", "2024-03-04T10:00:00Z"} {
		if err := s.SaveDailyLog(health.DailyLog{LogDate: date}); err == nil {
			t.Errorf("SaveDailyLog(%q) succeeded, want error", date)
		}
	}
}

func TestListRecentLogs_NewestFirst(t *testing.T) {
	s := openTestStore(t)

	for _, d := range []string{"2024-03-02", "2024-03-10", "2024-02-28", "2024-03-05"} {
		if err := s.SaveDailyLog(health.DailyLog{LogDate: d, Mood: 3}); err != nil {
			t.Fatalf("SaveDailyLog(%s): %v", d, err)
		}
	}

	got, err := s.ListRecentLogs(3)
	if err != nil {
		t.Fatalf("ListRecentLogs: %v", err)
	}
	want := []string{"2024-03-10", "2024-03-05", "2024-03-02"}
	if len(got) != len(want) {
		t.Fatalf("got %d logs, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].LogDate != w {
			t.Errorf("logs[%d] = %s, want %s", i, got[i].LogDate, w)
		}
	}

	all, err := s.ListRecentLogs(-1)
	if err != nil {
		t.Fatalf("ListRecentLogs(-1): %v", err)
	}
	if len(all) != 4 {
		t.Errorf("ListRecentLogs(-1) returned %d, want 4", len(all))
	}
}

func TestListRecentLogs_Empty(t *testing.T) {
	s := openTestStore(t)

	got, err := s.ListRecentLogs(7)
	if err != nil {
		t.Fatalf("ListRecentLogs: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d logs, want 0", len(got))
	}
}

func TestDeleteDailyLog(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveDailyLog(health.DailyLog{LogDate: "2024-03-04"}); err != nil {
		t.Fatalf("SaveDailyLog: %v", err)
	}
	if err := s.DeleteDailyLog("2024-03-04"); err != nil {
		t.Fatalf("DeleteDailyLog: %v", err)
	}
	if _, err := s.GetDailyLog("2024-03-04"); err != ErrNotFound {
		t.Errorf("GetDailyLog after delete: error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteDailyLog("2024-03-04"); err != ErrNotFound {
		t.Errorf("second DeleteDailyLog: error = %v, want ErrNotFound", err)
	}
}

// --- User Profile ---

// TestProfileKeyRoundTrip sets a key and gets it back.
func TestProfileKeyRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetProfileKey("language", "fr"); err != nil {
		t.Fatalf("SetProfileKey: %v", err)
	}

	val, err := s.GetProfileKey("language")
	if err != nil {
		t.Fatalf("GetProfileKey: %v", err)
	}
	if val != "fr" {
		t.Errorf("value = %q, want %q", val, "fr")
	}

	// Overwrite and verify upsert works.
	if err := s.SetProfileKey("language", "en"); err != nil {
		t.Fatalf("SetProfileKey (overwrite): %v", err)
	}
	val, err = s.GetProfileKey("language")
	if err != nil {
		t.Fatalf("GetProfileKey (overwrite): %v", err)
	}
	if val != "en" {
		t.Errorf("value = %q, want %q", val, "en")
	}
}

func TestGetProfileKeyNotFound(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetProfileKey("age"); err != ErrNotFound {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetAllProfileKeys(t *testing.T) {
	s := openTestStore(t)

	keys := map[string]string{
		"age":             "51",
		"menopause_stage": "peri",
		"goals":           `["sleep"]`,
		"language":        "fr",
	}
	for k, v := range keys {
		if err := s.SetProfileKey(k, v); err != nil {
			t.Fatalf("SetProfileKey(%q): %v", k, err)
		}
	}

	got, err := s.GetAllProfileKeys()
	if err != nil {
		t.Fatalf("GetAllProfileKeys: %v", err)
	}

	if len(got) != len(keys) {
		t.Fatalf("got %d keys, want %d", len(got), len(keys))
	}
	for k, want := range keys {
		if got[k] != want {
			t.Errorf("key %q = %q, want %q", k, got[k], want)
		}
	}
}

func TestDeleteProfileKey(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetProfileKey("age", "50"); err != nil {
		t.Fatalf("SetProfileKey: %v", err)
	}
	if err := s.DeleteProfileKey("age"); err != nil {
		t.Fatalf("DeleteProfileKey: %v", err)
	}
	if _, err := s.GetProfileKey("age"); err != ErrNotFound {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteProfileKey("age"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

// --- Conversation Turns ---

func TestTurnsChronological(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 6; i++ {
		role := health.RoleUser
		if i%2 == 1 {
			role = health.RoleAssistant
		}
		if err := s.AppendTurn("sess-a", health.Turn{Role: role, Content: fmt.Sprintf("turn %d", i)}); err != nil {
			t.Fatalf("AppendTurn %d: %v", i, err)
		}
	}
	if err := s.AppendTurn("sess-b", health.Turn{Role: health.RoleUser, Content: "other"}); err != nil {
		t.Fatalf("AppendTurn sess-b: %v", err)
	}

	got, err := s.RecentTurns("sess-a", 4)
	if err != nil {
		t.Fatalf("RecentTurns: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d turns, want 4", len(got))
	}
	for i, turn := range got {
		want := fmt.Sprintf("turn %d", i+2)
		if turn.Content != want {
			t.Errorf("turns[%d] = %q, want %q", i, turn.Content, want)
		}
	}
	if got[0].Role != health.RoleUser || got[1].Role != health.RoleAssistant {
		t.Errorf("roles = %s, %s", got[0].Role, got[1].Role)
	}

	other, err := s.RecentTurns("sess-b", 10)
	if err != nil {
		t.Fatalf("RecentTurns sess-b: %v", err)
	}
	if len(other) != 1 || other[0].Content != "other" {
		t.Errorf("sess-b turns = %+v", other)
	}
}

func TestAppendTurn_EmptySession(t *testing.T) {
	s := openTestStore(t)

	if err := s.AppendTurn("", health.Turn{Role: health.RoleUser, Content: "x"}); err == nil {
		t.Error("expected error for empty session id")
	}
}

func TestAppendTurn_Concurrent(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.AppendTurn("sess", health.Turn{Role: health.RoleUser, Content: fmt.Sprint(i)}); err != nil {
				t.Errorf("AppendTurn %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	got, err := s.RecentTurns("sess", 100)
	if err != nil {
		t.Fatalf("RecentTurns: %v", err)
	}
	if len(got) != 20 {
		t.Errorf("got %d turns, want 20", len(got))
	}
}

// --- Interactions ---

func TestSaveAndGetInteraction(t *testing.T) {
	s := openTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	want := Interaction{
		ID:          "int-001",
		CreatedAt:   now,
		SessionID:   "sess-1",
		UserMessage: "J'ai des bouffées de chaleur",
		Reply:       "Les bouffées de chaleur sont fréquentes.",
		Mode:        "live",
		Model:       "gemini-2.0-flash",
		Status:      "completed",
	}

	if err := s.SaveInteraction(want); err != nil {
		t.Fatalf("SaveInteraction: %v", err)
	}

	got, err := s.GetInteraction("int-001")
	if err != nil {
		t.Fatalf("GetInteraction: %v", err)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	got.CreatedAt = want.CreatedAt
	if got != want {
		t.Errorf("GetInteraction = %+v, want %+v", got, want)
	}
}

// TestGetInteractionNotFound verifies that retrieving a non-existent ID returns ErrNotFound.
func TestGetInteractionNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetInteraction("does-not-exist")
	if err != ErrNotFound {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSaveInteraction_Failed(t *testing.T) {
	s := openTestStore(t)

	in := Interaction{
		ID:          "int-failed",
		CreatedAt:   time.Now().UTC(),
		UserMessage: "hello",
		Mode:        "live",
		Status:      "failed",
		ErrorKind:   "connectivity",
	}
	if err := s.SaveInteraction(in); err != nil {
		t.Fatalf("SaveInteraction: %v", err)
	}

	got, err := s.GetInteraction("int-failed")
	if err != nil {
		t.Fatalf("GetInteraction: %v", err)
	}
	if got.Status != "failed" || got.ErrorKind != "connectivity" || got.Reply != "" {
		t.Errorf("got %+v", got)
	}
}

// TestSaveInteraction_DefaultStatus saves an interaction without explicit status and verifies default.
func TestSaveInteraction_DefaultStatus(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveInteraction(Interaction{ID: "int-default", CreatedAt: time.Now(), Mode: "demo"}); err != nil {
		t.Fatalf("SaveInteraction: %v", err)
	}

	got, err := s.GetInteraction("int-default")
	if err != nil {
		t.Fatalf("GetInteraction: %v", err)
	}
	if got.Status != "completed" {
		t.Errorf("Status = %q, want %q", got.Status, "completed")
	}
}

// TestGetRecentInteractions saves 10 interactions and verifies limit and descending order.
func TestGetRecentInteractions(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for j := 0; j < 10; j++ {
		i := Interaction{
			ID:          fmt.Sprintf("int-%02d", j),
			CreatedAt:   base.Add(time.Duration(j) * time.Hour),
			UserMessage: fmt.Sprintf("message %d", j),
			Mode:        "demo",
		}
		if err := s.SaveInteraction(i); err != nil {
			t.Fatalf("SaveInteraction %d: %v", j, err)
		}
	}

	got, err := s.GetRecentInteractions(5)
	if err != nil {
		t.Fatalf("GetRecentInteractions: %v", err)
	}

	if len(got) != 5 {
		t.Fatalf("got %d interactions, want 5", len(got))
	}

	for k := 1; k < len(got); k++ {
		if got[k].CreatedAt.After(got[k-1].CreatedAt) {
			t.Errorf("not in descending order: [%d]=%v > [%d]=%v", k, got[k].CreatedAt, k-1, got[k-1].CreatedAt)
		}
	}

	if got[0].ID != "int-09" {
		t.Errorf("first result ID = %q, want %q", got[0].ID, "int-09")
	}
}
