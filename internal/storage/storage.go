// Package storage persists conversations, transcript turns, and
// character memories in SQLite.
package storage

import (
	"errors"

	"github.com/yoonbit/dramatalk/internal/core"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store is the full persistence surface. The engine only reads through
// its TranscriptStore subset; writing turns belongs to the caller.
type Store interface {
	Initialize() error
	Close() error

	CreateConversation(c *core.Conversation) error
	GetConversation(id string) (*core.Conversation, error)
	ListConversations(userID string) ([]core.Conversation, error)

	AppendTurn(t *core.Turn) error
	GetTurns(conversationID string, limit int) ([]core.Turn, error)

	AddMemory(m *core.Memory) error
	TopMemories(userID, characterID string, limit int) ([]core.Memory, error)
}
