package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kalambet/helene/internal/health"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database holding check-ins, the profile, conversation
// turns and the reply audit log.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending migrations.
// Pass ":memory:" as dataDir for an in-memory database (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "helene.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	// Ensure schema_version table exists (bootstrap).
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort by filename to guarantee ascending order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		// Check if already applied.
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the list of applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- Daily Logs ---

const logColumns = `log_date, mood, energy_level, sleep_quality, hot_flashes, night_sweats, headaches,
	joint_pain, fatigue, anxiety, irritability, brain_fog, low_mood, notes`

// SaveDailyLog inserts the check-in or replaces the one already stored for
// the same date.
func (s *Store) SaveDailyLog(l health.DailyLog) error {
	if _, err := time.Parse(time.DateOnly, l.LogDate); err != nil {
		return fmt.Errorf("invalid log date %q: %w", l.LogDate, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO daily_logs (`+logColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(log_date) DO UPDATE SET
			mood = excluded.mood, energy_level = excluded.energy_level, sleep_quality = excluded.sleep_quality,
			hot_flashes = excluded.hot_flashes, night_sweats = excluded.night_sweats, headaches = excluded.headaches,
			joint_pain = excluded.joint_pain, fatigue = excluded.fatigue, anxiety = excluded.anxiety,
			irritability = excluded.irritability, brain_fog = excluded.brain_fog, low_mood = excluded.low_mood,
			notes = excluded.notes, updated_at = excluded.updated_at`,
		l.LogDate, l.Mood, l.EnergyLevel, l.SleepQuality, l.HotFlashes, l.NightSweats, l.Headaches,
		l.JointPain, l.Fatigue, l.Anxiety, l.Irritability, l.BrainFog, l.LowMood, l.Notes, now, now,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(r rowScanner) (health.DailyLog, error) {
	var l health.DailyLog
	err := r.Scan(&l.LogDate, &l.Mood, &l.EnergyLevel, &l.SleepQuality, &l.HotFlashes, &l.NightSweats, &l.Headaches,
		&l.JointPain, &l.Fatigue, &l.Anxiety, &l.Irritability, &l.BrainFog, &l.LowMood, &l.Notes)
	return l, err
}

func (s *Store) GetDailyLog(date string) (health.DailyLog, error) {
	l, err := scanLog(s.db.QueryRow(`SELECT `+logColumns+` FROM daily_logs WHERE log_date = ?`, date))
	if err == sql.ErrNoRows {
		return health.DailyLog{}, ErrNotFound
	}
	return l, err
}

// ListRecentLogs returns up to limit check-ins, newest first. A limit of zero
// or less returns every stored check-in.
func (s *Store) ListRecentLogs(limit int) ([]health.DailyLog, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT `+logColumns+` FROM daily_logs ORDER BY log_date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []health.DailyLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Store) DeleteDailyLog(date string) error {
	res, err := s.db.Exec(`DELETE FROM daily_logs WHERE log_date = ?`, date)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- User Profile ---

func (s *Store) SetProfileKey(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO user_profile (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) GetProfileKey(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM user_profile WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

func (s *Store) GetAllProfileKeys() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM user_profile")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		result[k] = v
	}
	return result, rows.Err()
}

// DeleteProfileKey removes key. Deleting a missing key is not an error.
func (s *Store) DeleteProfileKey(key string) error {
	_, err := s.db.Exec("DELETE FROM user_profile WHERE key = ?", key)
	return err
}

// --- Conversation Turns ---

// AppendTurn adds t at the end of the session's conversation.
func (s *Store) AppendTurn(sessionID string, t health.Turn) error {
	if sessionID == "" {
		return fmt.Errorf("empty session id")
	}
	_, err := s.db.Exec(`
		INSERT INTO conversation_turns (session_id, ordinal, role, content, created_at)
		SELECT ?, COALESCE(MAX(ordinal), 0) + 1, ?, ?, ?
		FROM conversation_turns WHERE session_id = ?`,
		sessionID, string(t.Role), t.Content, time.Now().UTC().Format(time.RFC3339), sessionID,
	)
	return err
}

// RecentTurns returns the last limit turns of the session in chronological
// order.
func (s *Store) RecentTurns(sessionID string, limit int) ([]health.Turn, error) {
	rows, err := s.db.Query(`
		SELECT role, content FROM conversation_turns
		WHERE session_id = ? ORDER BY ordinal DESC LIMIT ?`, sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []health.Turn
	for rows.Next() {
		var t health.Turn
		var role string
		if err := rows.Scan(&role, &t.Content); err != nil {
			return nil, err
		}
		t.Role = health.Role(role)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// --- Interactions ---

const interactionColumns = `id, created_at, session_id, user_message, reply, mode, model, status, error_kind`

func (s *Store) SaveInteraction(i Interaction) error {
	status := i.Status
	if status == "" {
		status = "completed"
	}
	_, err := s.db.Exec(`
		INSERT INTO interactions (`+interactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.CreatedAt.UTC().Format(time.RFC3339), i.SessionID, i.UserMessage, i.Reply,
		i.Mode, i.Model, status, i.ErrorKind,
	)
	return err
}

func scanInteraction(r rowScanner) (Interaction, error) {
	var i Interaction
	var createdAt string
	if err := r.Scan(&i.ID, &createdAt, &i.SessionID, &i.UserMessage, &i.Reply, &i.Mode, &i.Model, &i.Status, &i.ErrorKind); err != nil {
		return Interaction{}, err
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Interaction{}, fmt.Errorf("parsing created_at: %w", err)
	}
	i.CreatedAt = t
	return i, nil
}

func (s *Store) GetInteraction(id string) (Interaction, error) {
	i, err := scanInteraction(s.db.QueryRow(`SELECT `+interactionColumns+` FROM interactions WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return Interaction{}, ErrNotFound
	}
	return i, err
}

func (s *Store) GetRecentInteractions(limit int) ([]Interaction, error) {
	rows, err := s.db.Query(`SELECT `+interactionColumns+` FROM interactions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Interaction
	for rows.Next() {
		i, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, i)
	}
	return results, rows.Err()
}
