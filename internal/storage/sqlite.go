package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yoonbit/dramatalk/internal/core"
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("storage: ping database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Initialize creates the schema if it does not exist.
func (s *SQLiteStore) Initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		character_ids TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS turns (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		sender TEXT NOT NULL,
		character_id TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL,
		number INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY (conversation_id) REFERENCES conversations(id)
	);
	CREATE INDEX IF NOT EXISTS idx_turns_conversation ON turns(conversation_id, number);

	CREATE TABLE IF NOT EXISTS memories (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		character_id TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		importance INTEGER NOT NULL DEFAULT 0,
		last_referenced TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_memories_owner ON memories(user_id, character_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("storage: create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateConversation inserts a new conversation, filling in ID and
// timestamps when absent.
func (s *SQLiteStore) CreateConversation(c *core.Conversation) error {
	if c.ID == "" {
		c.ID = core.GenerateID()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	ids, err := json.Marshal(c.CharacterIDs)
	if err != nil {
		return fmt.Errorf("storage: encode character ids: %w", err)
	}

	_, err = s.db.Exec(`INSERT INTO conversations (id, user_id, title, character_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Title, string(ids), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("storage: create conversation: %w", err)
	}
	return nil
}

// GetConversation loads one conversation by ID.
func (s *SQLiteStore) GetConversation(id string) (*core.Conversation, error) {
	row := s.db.QueryRow(`SELECT id, user_id, title, character_ids, created_at, updated_at
		FROM conversations WHERE id = ?`, id)

	var c core.Conversation
	var ids string
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &ids, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get conversation: %w", err)
	}
	if err := json.Unmarshal([]byte(ids), &c.CharacterIDs); err != nil {
		return nil, fmt.Errorf("storage: decode character ids: %w", err)
	}
	return &c, nil
}

// ListConversations returns a user's conversations, newest first.
func (s *SQLiteStore) ListConversations(userID string) ([]core.Conversation, error) {
	rows, err := s.db.Query(`SELECT id, user_id, title, character_ids, created_at, updated_at
		FROM conversations WHERE user_id = ? ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("storage: list conversations: %w", err)
	}
	defer rows.Close()

	var out []core.Conversation
	for rows.Next() {
		var c core.Conversation
		var ids string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &ids, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("storage: scan conversation: %w", err)
		}
		if err := json.Unmarshal([]byte(ids), &c.CharacterIDs); err != nil {
			return nil, fmt.Errorf("storage: decode character ids: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AppendTurn appends a turn to its conversation's transcript,
// assigning the next sequential number. Turns are never updated.
func (s *SQLiteStore) AppendTurn(t *core.Turn) error {
	if t.ID == "" {
		t.ID = core.GenerateID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: begin append: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT COALESCE(MAX(number), 0) FROM turns WHERE conversation_id = ?`, t.ConversationID)
	var last int
	if err := row.Scan(&last); err != nil {
		return fmt.Errorf("storage: next turn number: %w", err)
	}
	t.Number = last + 1

	_, err = tx.Exec(`INSERT INTO turns (id, conversation_id, sender, character_id, text, number, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ConversationID, string(t.Sender), t.CharacterID, t.Text, t.Number, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("storage: append turn: %w", err)
	}

	_, err = tx.Exec(`UPDATE conversations SET updated_at = ? WHERE id = ?`, t.CreatedAt, t.ConversationID)
	if err != nil {
		return fmt.Errorf("storage: touch conversation: %w", err)
	}

	return tx.Commit()
}

// GetTurns returns the most recent limit turns in chronological order.
// A limit of 0 returns the whole transcript.
func (s *SQLiteStore) GetTurns(conversationID string, limit int) ([]core.Turn, error) {
	query := `SELECT id, conversation_id, sender, character_id, text, number, created_at
		FROM turns WHERE conversation_id = ? ORDER BY number DESC`
	args := []any{conversationID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: get turns: %w", err)
	}
	defer rows.Close()

	var out []core.Turn
	for rows.Next() {
		var t core.Turn
		var sender string
		if err := rows.Scan(&t.ID, &t.ConversationID, &sender, &t.CharacterID, &t.Text, &t.Number, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage: scan turn: %w", err)
		}
		t.Sender = core.Sender(sender)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Flip newest-first into chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// AddMemory stores a remembered fact.
func (s *SQLiteStore) AddMemory(m *core.Memory) error {
	if m.ID == "" {
		m.ID = core.GenerateID()
	}
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.LastReferenced.IsZero() {
		m.LastReferenced = now
	}

	_, err := s.db.Exec(`INSERT INTO memories (id, user_id, character_id, type, content, importance, last_referenced, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.CharacterID, m.Type, m.Content, m.Importance, m.LastReferenced, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("storage: add memory: %w", err)
	}
	return nil
}

// TopMemories returns the limit most relevant memories for a user and
// character, ordered by importance then recency of reference, and
// touches their last-referenced time so rotation favors fresh facts.
func (s *SQLiteStore) TopMemories(userID, characterID string, limit int) ([]core.Memory, error) {
	rows, err := s.db.Query(`SELECT id, user_id, character_id, type, content, importance, last_referenced, created_at
		FROM memories WHERE user_id = ? AND character_id = ?
		ORDER BY importance DESC, last_referenced DESC LIMIT ?`,
		userID, characterID, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: top memories: %w", err)
	}
	defer rows.Close()

	var out []core.Memory
	for rows.Next() {
		var m core.Memory
		if err := rows.Scan(&m.ID, &m.UserID, &m.CharacterID, &m.Type, &m.Content, &m.Importance, &m.LastReferenced, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage: scan memory: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(out) > 0 {
		ids := make([]string, len(out))
		args := make([]any, 0, len(out)+1)
		args = append(args, time.Now())
		for i, m := range out {
			ids[i] = "?"
			args = append(args, m.ID)
		}
		_, err = s.db.Exec(`UPDATE memories SET last_referenced = ? WHERE id IN (`+strings.Join(ids, ",")+`)`, args...)
		if err != nil {
			return nil, fmt.Errorf("storage: touch memories: %w", err)
		}
	}
	return out, nil
}
