package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yoonbit/dramatalk/internal/core"
	"github.com/yoonbit/dramatalk/internal/genai"
	"github.com/yoonbit/dramatalk/internal/persona"
	"github.com/yoonbit/dramatalk/internal/prompt"
)

// Structured-output field names the debate prompt demands from the
// model. Participant order in the reply slice follows these.
const (
	fieldResponseA = "response_A"
	fieldResponseB = "response_B"
)

// DebateRequest is one dual-party generation request.
type DebateRequest struct {
	ConversationID string
	UserID         string
	CharacterAID   string
	CharacterBID   string
	Topic          string
	Tone           prompt.Tone
	Nickname       string
	Settings       core.ChatSettings
}

// Debate generates one debate round for both participants in a single
// model call and recovers the two replies from its JSON output. A
// missing or unusable field falls back to regenerating that participant
// alone, the two fallbacks running concurrently with failures isolated
// per participant. The result always holds exactly two replies, A first.
func (e *Engine) Debate(ctx context.Context, req DebateRequest) []*core.Reply {
	pa, errA := e.personas.Get(req.CharacterAID)
	pb, errB := e.personas.Get(req.CharacterBID)

	replies := make([]*core.Reply, 2)
	if errA != nil || !pa.Ready() {
		replies[0] = e.reply(req.CharacterAID, msgNotReady(personaName(pa, req.CharacterAID)))
	}
	if errB != nil || !pb.Ready() {
		replies[1] = e.reply(req.CharacterBID, msgNotReady(personaName(pb, req.CharacterBID)))
	}
	if replies[0] != nil && replies[1] != nil {
		return replies
	}

	if e.gen == nil {
		return []*core.Reply{
			e.reply(req.CharacterAID, msgModelUnavailable),
			e.reply(req.CharacterBID, msgModelUnavailable),
		}
	}

	var rawA, rawB string
	if replies[0] == nil && replies[1] == nil {
		fields, err := e.generateDual(ctx, pa, pb, req)
		if err != nil {
			e.logger.Warn("dual-party generation failed, falling back per participant",
				"conversation", req.ConversationID,
				"error", err)
		} else {
			rawA = fields[fieldResponseA]
			rawB = fields[fieldResponseB]
		}
	}

	// Each participant that still has no text regenerates alone. The
	// goroutines only ever write their own slot, and neither aborts the
	// other: a participant's failure becomes its own placeholder.
	g, gctx := errgroup.WithContext(ctx)
	if replies[0] == nil {
		g.Go(func() error {
			replies[0] = e.debateReply(gctx, pa, req, req.CharacterAID, rawA)
			return nil
		})
	}
	if replies[1] == nil {
		g.Go(func() error {
			replies[1] = e.debateReply(gctx, pb, req, req.CharacterBID, rawB)
			return nil
		})
	}
	g.Wait()

	return replies
}

// generateDual runs the shared debate call and recovers its JSON.
func (e *Engine) generateDual(ctx context.Context, pa, pb *persona.Persona, req DebateRequest) (map[string]string, error) {
	turns, err := e.store.GetTurns(req.ConversationID, 0)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	facts := ReplayDebate(turns, req.CharacterAID, req.CharacterBID)
	e.logger.Debug("debate replayed",
		"conversation", req.ConversationID,
		"round", facts.Round,
		"stance_a_set", facts.StanceA.Text != "",
		"stance_b_set", facts.StanceB.Text != "")

	asm := prompt.BuildDebate(prompt.DebateParams{
		PersonaA:         pa,
		PersonaB:         pb,
		Topic:            req.Topic,
		Tone:             req.Tone,
		StanceA:          facts.StanceA.Text,
		StanceB:          facts.StanceB.Text,
		Round:            facts.Round,
		LastUserInput:    facts.LastUserInput,
		LastOpponentText: facts.LastOpponentText,
		FieldA:           fieldResponseA,
		FieldB:           fieldResponseB,
	})

	env, err := e.gen.Generate(ctx, genai.UserText(asm.Render(), e.cfg.DebateTemperature))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	raw, err := genai.Extract(env)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	fields, err := RecoverJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("recover: %w", err)
	}
	return fields, nil
}

// debateReply finalizes one participant's side: use the recovered field
// if present, otherwise regenerate that participant alone, and when
// even that fails fall back to the terminal placeholder.
func (e *Engine) debateReply(ctx context.Context, p *persona.Persona, req DebateRequest, characterID, recovered string) *core.Reply {
	if recovered != "" {
		return e.reply(characterID, e.normalize(recovered, req.Nickname))
	}

	raw, err := e.generateSingle(ctx, p, ChatRequest{
		ConversationID: req.ConversationID,
		UserID:         req.UserID,
		CharacterID:    characterID,
		Nickname:       req.Nickname,
		UserText:       req.Topic,
		Settings:       req.Settings,
	})
	if err != nil {
		e.logger.Error("single-party fallback failed",
			"character", characterID,
			"conversation", req.ConversationID,
			"error", err)
		return e.reply(characterID, msgThinking)
	}
	return e.reply(characterID, e.normalize(raw, req.Nickname))
}

func personaName(p *persona.Persona, fallback string) string {
	if p != nil && p.Name != "" {
		return p.Name
	}
	return fallback
}
