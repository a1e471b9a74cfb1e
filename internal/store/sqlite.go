package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wayfinder-ai/wayfinder/pkg/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id                 TEXT PRIMARY KEY,
		subscription_type  TEXT NOT NULL DEFAULT 'free',
		daily_requests     INTEGER NOT NULL DEFAULT 0,
		last_request_date  TEXT NOT NULL DEFAULT '',
		total_requests     INTEGER NOT NULL DEFAULT 0,
		created_at         TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		key        TEXT PRIMARY KEY,
		facts      TEXT NOT NULL DEFAULT '{}',
		history    TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) GetOrCreateUser(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{ID: id}
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT subscription_type, daily_requests, last_request_date, total_requests, created_at
		 FROM users WHERE id = ?`, id).
		Scan(&user.SubscriptionType, &user.DailyRequests, &user.LastRequestDate, &user.TotalRequests, &createdAt)

	switch {
	case err == sql.ErrNoRows:
		user.SubscriptionType = model.TierFree
		user.CreatedAt = time.Now().UTC()
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO users (id, subscription_type, created_at) VALUES (?, ?, ?)`,
			id, user.SubscriptionType, user.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return user, nil
	case err != nil:
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return user, nil
}

func (s *SQLiteStore) SaveUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET subscription_type = ?, daily_requests = ?, last_request_date = ?, total_requests = ?
		 WHERE id = ?`,
		user.SubscriptionType, user.DailyRequests, user.LastRequestDate, user.TotalRequests, user.ID)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetOrCreateSession(ctx context.Context, key string) (*model.Session, error) {
	session := &model.Session{Key: key}
	var facts, history, createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT facts, history, created_at FROM sessions WHERE key = ?`, key).
		Scan(&facts, &history, &createdAt)

	switch {
	case err == sql.ErrNoRows:
		session.Facts = []byte("{}")
		session.CreatedAt = time.Now().UTC()
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO sessions (key, created_at) VALUES (?, ?)`,
			key, session.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		return session, nil
	case err != nil:
		return nil, fmt.Errorf("get session: %w", err)
	}

	session.Facts = []byte(facts)
	if err := json.Unmarshal([]byte(history), &session.History); err != nil {
		// Corrupt history is dropped rather than blocking the session.
		session.History = nil
	}
	session.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return session, nil
}

func (s *SQLiteStore) SaveSession(ctx context.Context, session *model.Session) error {
	history, err := json.Marshal(session.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	facts := session.Facts
	if len(facts) == 0 {
		facts = []byte("{}")
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE sessions SET facts = ?, history = ? WHERE key = ?`,
		string(facts), string(history), session.Key)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
