// Package core contains the core domain types for dramatalk.
package core

import (
	"strings"
	"time"
)

// Sender identifies who produced a transcript turn.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderAI     Sender = "ai"
	SenderSystem Sender = "system"
)

// System markers inserted into the transcript by the UI when a debate
// starts or ends. Stance derivation only looks at turns between them.
const (
	DebateStartMarker = "토론이 시작되었습니다"
	DebateEndMarker   = "토론이 종료되었습니다"
	RoundMarker       = "라운드"
	OpinionMarker     = "어떤 의견"
)

// bubblePrefixes tag UI-generated system bubbles that masquerade as
// ordinary user/ai turns. They never carry conversational content.
var bubblePrefixes = []string{"🎬", "🎤", "💬", "💭"}

// IsSystemBubble reports whether a turn's text is a pre-tagged UI bubble
// rather than free-form conversation.
func IsSystemBubble(text string) bool {
	for _, p := range bubblePrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// Turn is a single entry in a conversation transcript. Transcripts are
// append-only; turns are never rewritten.
type Turn struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Sender         Sender    `json:"sender"`
	CharacterID    string    `json:"character_id,omitempty"` // set for ai turns in multi-character rooms
	Text           string    `json:"text"`
	Number         int       `json:"number"` // sequential ordinal within the conversation
	CreatedAt      time.Time `json:"created_at"`
}

// Conversation is a chat room between a user and one or more characters.
type Conversation struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title,omitempty"`
	CharacterIDs []string  `json:"character_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TimeOfDay overrides the wall-clock period in the prompt context.
type TimeOfDay string

const (
	TimeCurrent   TimeOfDay = "current"
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

// Mood adjusts the conversational register of generated replies.
type Mood string

const (
	MoodNormal   Mood = "normal"
	MoodRomantic Mood = "romantic"
	MoodFriendly Mood = "friendly"
	MoodSerious  Mood = "serious"
)

// ChatSettings are per-request knobs chosen by the user.
type ChatSettings struct {
	TimeOfDay TimeOfDay `json:"time_of_day,omitempty"`
	Weather   string    `json:"weather,omitempty"`
	Mood      Mood      `json:"mood,omitempty"`
}

// Memory is a remembered fact about a (user, character) pair. The engine
// reads memories and touches their last-referenced time; it never
// creates or edits them.
type Memory struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	CharacterID    string    `json:"character_id"`
	Type           string    `json:"type"` // "emotion", "event", ...
	Content        string    `json:"content"`
	Importance     int       `json:"importance"`
	LastReferenced time.Time `json:"last_referenced"`
	CreatedAt      time.Time `json:"created_at"`
}

// Reply is one character's chunked response, ready for bubble delivery.
type Reply struct {
	CharacterID string   `json:"id"`
	Texts       []string `json:"texts"`
}
