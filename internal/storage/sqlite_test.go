package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/yoonbit/dramatalk/internal/core"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestConversationRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	c := &core.Conversation{
		UserID:       "u1",
		Title:        "도깨비와의 대화",
		CharacterIDs: []string{"kim_shin", "wang_yeo"},
	}
	if err := s.CreateConversation(c); err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if c.ID == "" {
		t.Fatal("ID was not assigned")
	}

	got, err := s.GetConversation(c.ID)
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if got.Title != c.Title || got.UserID != "u1" {
		t.Errorf("got %+v", got)
	}
	if len(got.CharacterIDs) != 2 || got.CharacterIDs[0] != "kim_shin" {
		t.Errorf("character ids = %v", got.CharacterIDs)
	}
}

func TestGetConversationNotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.GetConversation("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListConversationsNewestFirst(t *testing.T) {
	s := setupTestStore(t)

	older := &core.Conversation{UserID: "u1", Title: "older", CharacterIDs: []string{"a"}}
	newer := &core.Conversation{UserID: "u1", Title: "newer", CharacterIDs: []string{"a"}}
	if err := s.CreateConversation(older); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateConversation(newer); err != nil {
		t.Fatal(err)
	}
	// Appending to the older conversation makes it the most recent.
	if err := s.AppendTurn(&core.Turn{ConversationID: older.ID, Sender: core.SenderUser, Text: "hi"}); err != nil {
		t.Fatal(err)
	}

	list, err := s.ListConversations("u1")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(list) != 2 || list[0].Title != "older" {
		t.Errorf("list = %+v", list)
	}
}

func TestAppendAndGetTurns(t *testing.T) {
	s := setupTestStore(t)
	c := &core.Conversation{UserID: "u1", CharacterIDs: []string{"a"}}
	if err := s.CreateConversation(c); err != nil {
		t.Fatal(err)
	}

	texts := []string{"first", "second", "third", "fourth"}
	for _, text := range texts {
		turn := &core.Turn{ConversationID: c.ID, Sender: core.SenderUser, Text: text}
		if err := s.AppendTurn(turn); err != nil {
			t.Fatalf("AppendTurn(%s): %v", text, err)
		}
	}

	t.Run("numbers are sequential", func(t *testing.T) {
		turns, err := s.GetTurns(c.ID, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(turns) != 4 {
			t.Fatalf("turns = %d", len(turns))
		}
		for i, turn := range turns {
			if turn.Number != i+1 {
				t.Errorf("turn %d number = %d", i, turn.Number)
			}
			if turn.Text != texts[i] {
				t.Errorf("turn %d text = %q, want %q", i, turn.Text, texts[i])
			}
		}
	})

	t.Run("limit keeps the most recent in order", func(t *testing.T) {
		turns, err := s.GetTurns(c.ID, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(turns) != 2 || turns[0].Text != "third" || turns[1].Text != "fourth" {
			t.Errorf("turns = %+v", turns)
		}
	})
}

func TestTopMemories(t *testing.T) {
	s := setupTestStore(t)
	base := time.Now().Add(-time.Hour)

	memories := []*core.Memory{
		{UserID: "u1", CharacterID: "a", Content: "low", Importance: 1, LastReferenced: base},
		{UserID: "u1", CharacterID: "a", Content: "high", Importance: 9, LastReferenced: base},
		{UserID: "u1", CharacterID: "a", Content: "mid-old", Importance: 5, LastReferenced: base.Add(-time.Hour)},
		{UserID: "u1", CharacterID: "a", Content: "mid-new", Importance: 5, LastReferenced: base},
		{UserID: "u1", CharacterID: "other", Content: "stranger", Importance: 10, LastReferenced: base},
	}
	for _, m := range memories {
		if err := s.AddMemory(m); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.TopMemories("u1", "a", 3)
	if err != nil {
		t.Fatalf("TopMemories: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d memories", len(got))
	}
	if got[0].Content != "high" || got[1].Content != "mid-new" || got[2].Content != "mid-old" {
		t.Errorf("order = %s, %s, %s", got[0].Content, got[1].Content, got[2].Content)
	}

	t.Run("returned memories are touched", func(t *testing.T) {
		again, err := s.TopMemories("u1", "a", 3)
		if err != nil {
			t.Fatal(err)
		}
		for _, m := range again {
			if !m.LastReferenced.After(base) {
				t.Errorf("memory %q was not touched: %v", m.Content, m.LastReferenced)
			}
		}
	})
}
