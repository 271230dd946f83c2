package db

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/y3rawat/mindstore/internal/content"
)

// Store is the local cache: the last fetched library snapshot per
// user (so views paint before the first round-trip), saved AI
// analyses, and a small metadata key/value table.
type Store struct {
	db *sql.DB
}

func NewStore(dataDir string) (*Store, error) {
	dbPath := filepath.Join(dataDir, "mindstore.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS content_cache (
		content_hash TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		url TEXT,
		title TEXT,
		author TEXT,
		platform TEXT,
		saved_at TIMESTAMP,
		position INTEGER NOT NULL,
		media TEXT NOT NULL,
		fetched_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_content_cache_user ON content_cache(user_id, position);

	CREATE TABLE IF NOT EXISTS analyses (
		content_hash TEXT PRIMARY KEY,
		analysis TEXT NOT NULL,
		model TEXT,
		generated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveSnapshot replaces the cached library for one user with the
// given item sequence, preserving order. The cache mirrors the last
// reset load; it is not merged.
func (s *Store) SaveSnapshot(userID string, items []content.Item) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM content_cache WHERE user_id = ?`, userID); err != nil {
		return err
	}

	now := time.Now()
	for i, item := range items {
		blob, err := json.Marshal(item.Media)
		if err != nil {
			return err
		}
		var savedAt interface{}
		if !item.SavedAt.IsZero() {
			savedAt = item.SavedAt.Time
		}
		_, err = tx.Exec(`
			INSERT OR REPLACE INTO content_cache
			(content_hash, user_id, url, title, author, platform, saved_at, position, media, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.Key(), userID, item.URL, item.Media.Title, item.Media.Author,
			string(item.Media.Platform), savedAt, i, string(blob), now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadSnapshot returns the cached item sequence for a user in its
// original order.
func (s *Store) LoadSnapshot(userID string) ([]content.Item, error) {
	rows, err := s.db.Query(`
		SELECT content_hash, url, saved_at, media FROM content_cache
		WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

// SearchCache filters the cached snapshot by a case-insensitive match
// on title, author or platform, the same fields the library search
// box covers.
func (s *Store) SearchCache(userID, query string) ([]content.Item, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT content_hash, url, saved_at, media FROM content_cache
		WHERE user_id = ? AND (title LIKE ? OR author LIKE ? OR platform LIKE ?)
		ORDER BY position`, userID, pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]content.Item, error) {
	var items []content.Item
	for rows.Next() {
		var item content.Item
		var savedAt sql.NullTime
		var blob string
		if err := rows.Scan(&item.ContentHash, &item.URL, &savedAt, &blob); err != nil {
			return nil, err
		}
		if savedAt.Valid {
			item.SavedAt = content.SavedAt{Time: savedAt.Time}
		}
		if err := json.Unmarshal([]byte(blob), &item.Media); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Analysis is a stored AI analysis of one item.
type Analysis struct {
	ContentHash string
	Text        string
	Model       string
	GeneratedAt time.Time
}

func (s *Store) SaveAnalysis(a Analysis) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO analyses (content_hash, analysis, model, generated_at)
		VALUES (?, ?, ?, ?)`,
		a.ContentHash, a.Text, a.Model, a.GeneratedAt,
	)
	return err
}

func (s *Store) GetAnalysis(contentHash string) (*Analysis, error) {
	var a Analysis
	err := s.db.QueryRow(`
		SELECT content_hash, analysis, model, generated_at FROM analyses
		WHERE content_hash = ?`, contentHash).
		Scan(&a.ContentHash, &a.Text, &a.Model, &a.GeneratedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)`, key, value)
	return err
}
