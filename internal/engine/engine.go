// Package engine orchestrates persona replies: prompt assembly,
// generation with retry, structured-output recovery, and the fallback
// paths that keep a displayable reply coming back no matter what the
// model does.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yoonbit/dramatalk/internal/config"
	"github.com/yoonbit/dramatalk/internal/core"
	"github.com/yoonbit/dramatalk/internal/genai"
	"github.com/yoonbit/dramatalk/internal/persona"
	"github.com/yoonbit/dramatalk/internal/prompt"
	"github.com/yoonbit/dramatalk/internal/text"
)

// Fixed user-visible placeholders. These are product copy, not
// diagnostics; they must match exactly across every failure path.
const (
	msgModelUnavailable = "AI 모델 로드에 실패했습니다. (API 키/결제 문제)"
	msgThinking         = "잠시 생각이 필요하네요."
)

func msgNotReady(name string) string {
	return fmt.Sprintf("아직 %s 님의 대사는 준비되지 않았습니다. (AI 연동 전)", name)
}

// TranscriptStore is the slice of storage the engine reads. The engine
// never writes turns; appending belongs to the caller.
type TranscriptStore interface {
	GetTurns(conversationID string, limit int) ([]core.Turn, error)
	TopMemories(userID, characterID string, limit int) ([]core.Memory, error)
}

// Engine generates persona replies over a transcript store.
type Engine struct {
	gen      genai.Generator // nil when no API key was configured
	personas persona.Store
	store    TranscriptStore
	cfg      *config.Config
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an engine. gen may be nil; every generation then
// short-circuits to the fixed model-unavailable message, which is the
// desired behavior when the API key is missing.
func New(gen genai.Generator, personas persona.Store, store TranscriptStore, cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		gen:      gen,
		personas: personas,
		store:    store,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// ChatRequest is one single-party generation request.
type ChatRequest struct {
	ConversationID string
	UserID         string
	CharacterID    string
	Nickname       string
	UserText       string
	Settings       core.ChatSettings
}

// Respond generates one character's reply. It never returns an error to
// the caller: every failure collapses into a displayable placeholder,
// chunked like a normal reply.
func (e *Engine) Respond(ctx context.Context, req ChatRequest) *core.Reply {
	p, err := e.personas.Get(req.CharacterID)
	if err != nil || !p.Ready() {
		name := req.CharacterID
		if p != nil {
			name = p.Name
		}
		return e.reply(req.CharacterID, msgNotReady(name))
	}

	if e.gen == nil {
		return e.reply(req.CharacterID, msgModelUnavailable)
	}

	raw, err := e.generateSingle(ctx, p, req)
	if err != nil {
		e.logger.Error("single-party generation failed",
			"character", req.CharacterID,
			"conversation", req.ConversationID,
			"error", err)
		return e.reply(req.CharacterID, msgThinking)
	}

	return e.reply(req.CharacterID, e.normalize(raw, req.Nickname))
}

// generateSingle runs the full happy path: history, memories, prompt,
// generation, extraction. Callers turn any error into a placeholder.
func (e *Engine) generateSingle(ctx context.Context, p *persona.Persona, req ChatRequest) (string, error) {
	history, err := e.store.GetTurns(req.ConversationID, e.cfg.MaxHistoryTurns)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	history = conversationalOnly(history)

	memories, err := e.store.TopMemories(req.UserID, req.CharacterID, e.cfg.MemoryLimit)
	if err != nil {
		// Memories flavor the reply but are not required for one.
		e.logger.Warn("memory lookup failed", "character", req.CharacterID, "error", err)
		memories = nil
	}

	asm := prompt.BuildSingle(prompt.SingleParams{
		Persona:  p,
		Nickname: req.Nickname,
		History:  history,
		Memories: memories,
		Settings: req.Settings,
		Now:      e.now(),
		UserText: req.UserText,
	})

	env, err := e.gen.Generate(ctx, genai.UserText(asm.Render(), e.cfg.Temperature))
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	out, err := genai.Extract(env)
	if err != nil {
		return "", fmt.Errorf("extract: %w", err)
	}
	return out, nil
}

// conversationalOnly drops system markers and UI bubbles from the
// history window; the single-party prompt wants dialogue only.
func conversationalOnly(turns []core.Turn) []core.Turn {
	out := turns[:0:0]
	for _, turn := range turns {
		if turn.Sender == core.SenderSystem || core.IsSystemBubble(turn.Text) {
			continue
		}
		out = append(out, turn)
	}
	return out
}

// normalize cleans raw model output and substitutes the nickname.
func (e *Engine) normalize(raw, nickname string) string {
	s := text.ReplaceNickname(raw, nickname)
	return text.CleanReply(s)
}

// reply wraps final text into a chunked reply for bubble delivery.
func (e *Engine) reply(characterID, s string) *core.Reply {
	return &core.Reply{
		CharacterID: characterID,
		Texts:       text.Chunk(s, e.cfg.MaxLinesPerBubble),
	}
}
