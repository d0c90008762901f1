package engine

import (
	"strings"

	"github.com/yoonbit/dramatalk/internal/core"
)

// Stance is one participant's locked opening position in a debate. It
// is derived from the transcript on every request and never stored, so
// edits to the transcript are the single source of truth.
type Stance struct {
	CharacterID string
	Text        string // verbatim first utterance, empty until spoken
}

// RoundFacts is everything the debate prompt needs that comes from
// replaying the transcript.
type RoundFacts struct {
	StanceA          Stance
	StanceB          Stance
	Round            int
	LastUserInput    string // most recent free-form user turn, "" if none
	LastOpponentText string // most recent AI turn, used from round 2 on
}

// debateWindow returns the turns after the most recent debate-start
// system marker, excluding any turns after a debate-end marker. With no
// start marker the window is empty.
func debateWindow(turns []core.Turn) []core.Turn {
	start := -1
	for i, turn := range turns {
		if turn.Sender == core.SenderSystem && strings.Contains(turn.Text, core.DebateStartMarker) {
			start = i
		}
	}
	if start < 0 {
		return nil
	}
	window := turns[start+1:]
	for i, turn := range window {
		if turn.Sender == core.SenderSystem && strings.Contains(turn.Text, core.DebateEndMarker) {
			return window[:i]
		}
	}
	return window
}

// isRoundBoundary reports whether a turn ends the opening segment: the
// first user interjection, or a system round announcement.
func isRoundBoundary(turn core.Turn) bool {
	if turn.Sender == core.SenderUser && !core.IsSystemBubble(turn.Text) {
		return true
	}
	if turn.Sender == core.SenderSystem &&
		(strings.Contains(turn.Text, core.RoundMarker) || strings.Contains(turn.Text, core.OpinionMarker)) {
		return true
	}
	return false
}

// DeriveStances replays the transcript and locks each participant's
// stance to their first real utterance in the opening segment of the
// current debate. Bubble-tagged UI turns never count as utterances. A
// participant who has not yet spoken in the opening segment gets an
// empty stance; it stays empty for the rest of the debate rather than
// being retroactively filled from a later round.
func DeriveStances(turns []core.Turn, aID, bID string) (Stance, Stance) {
	stanceA := Stance{CharacterID: aID}
	stanceB := Stance{CharacterID: bID}

	for _, turn := range debateWindow(turns) {
		if isRoundBoundary(turn) {
			break
		}
		if turn.Sender != core.SenderAI || core.IsSystemBubble(turn.Text) {
			continue
		}
		switch turn.CharacterID {
		case aID:
			if stanceA.Text == "" {
				stanceA.Text = turn.Text
			}
		case bID:
			if stanceB.Text == "" {
				stanceB.Text = turn.Text
			}
		}
		if stanceA.Text != "" && stanceB.Text != "" {
			break
		}
	}
	return stanceA, stanceB
}

// countRounds counts round announcements in the window; the current
// round is one more than the announcements seen. A window with no
// announcements is round 1.
func countRounds(window []core.Turn) int {
	round := 1
	for _, turn := range window {
		if turn.Sender == core.SenderSystem && strings.Contains(turn.Text, core.RoundMarker) {
			round++
		}
	}
	return round
}

// ReplayDebate derives everything a debate turn needs from the
// transcript: both stances, the round number, the latest free-form user
// input, and from round 2 the opponent's latest message. The tail scans
// walk backwards and stop at the first match.
func ReplayDebate(turns []core.Turn, aID, bID string) RoundFacts {
	stanceA, stanceB := DeriveStances(turns, aID, bID)
	window := debateWindow(turns)

	facts := RoundFacts{
		StanceA: stanceA,
		StanceB: stanceB,
		Round:   countRounds(window),
	}

	for i := len(window) - 1; i >= 0; i-- {
		turn := window[i]
		if turn.Sender == core.SenderUser && !core.IsSystemBubble(turn.Text) {
			facts.LastUserInput = turn.Text
			break
		}
	}

	if facts.Round >= 2 {
		for i := len(window) - 1; i >= 0; i-- {
			turn := window[i]
			if turn.Sender == core.SenderAI && !core.IsSystemBubble(turn.Text) {
				facts.LastOpponentText = turn.Text
				break
			}
		}
	}

	return facts
}
