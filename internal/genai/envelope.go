package genai

import (
	"fmt"
	"strings"
)

// Finish reasons reported by the generation service.
const (
	FinishStop       = "STOP"
	FinishMaxTokens  = "MAX_TOKENS"
	FinishSafety     = "SAFETY"
	FinishRecitation = "RECITATION"
)

// Part is one fragment of generated content. Only text parts are used.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Content groups the parts of a single message.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Candidate is one proposed completion inside an envelope. Every field
// is optional: safety-filtered candidates arrive with no content at all.
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// PromptFeedback reports prompt-level blocking, present only when the
// whole request was rejected before any candidate was produced.
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// UsageMetadata carries token accounting for the call.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount int `json:"candidatesTokenCount,omitempty"`
	TotalTokenCount      int `json:"totalTokenCount,omitempty"`
}

// Envelope is the raw response of a generation call. Its shape is
// adversarial: any field may be missing, and the convenience Text
// accessor must behave when parts are empty.
type Envelope struct {
	Candidates     []Candidate     `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *UsageMetadata  `json:"usageMetadata,omitempty"`
}

// Text is the convenience accessor: the concatenated text of the first
// candidate's parts. It returns "" rather than failing when the
// candidate list, content, or parts are absent.
func (e *Envelope) Text() string {
	if e == nil || len(e.Candidates) == 0 {
		return ""
	}
	return e.Candidates[0].text()
}

func (c *Candidate) text() string {
	if c == nil || c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range c.Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// ExtractReason classifies why extraction produced no text.
type ExtractReason string

const (
	ReasonSafetyBlocked ExtractReason = "safety_blocked"
	ReasonEmpty         ExtractReason = "empty"
)

// ExtractError reports a failed extraction together with the completion
// reason observed on the candidate, for diagnostics.
type ExtractError struct {
	Reason       ExtractReason
	FinishReason string
}

func (e *ExtractError) Error() string {
	if e.FinishReason != "" {
		return fmt.Sprintf("no usable text in response (%s, finish_reason=%s)", e.Reason, e.FinishReason)
	}
	return fmt.Sprintf("no usable text in response (%s)", e.Reason)
}

// Extract pulls plain text out of an envelope. It tries, in order:
//
//  1. the first candidate's parts, concatenated and trimmed;
//  2. the convenience accessor, but only when the candidate finished
//     with a normal stop;
//
// and otherwise returns an *ExtractError tagged safety_blocked or
// empty. Extract never panics on a missing field.
func Extract(env *Envelope) (string, error) {
	if env == nil || len(env.Candidates) == 0 {
		reason := ReasonEmpty
		finish := ""
		if env != nil && env.PromptFeedback != nil && env.PromptFeedback.BlockReason != "" {
			reason = ReasonSafetyBlocked
			finish = env.PromptFeedback.BlockReason
		}
		return "", &ExtractError{Reason: reason, FinishReason: finish}
	}

	cand := env.Candidates[0]

	if text := strings.TrimSpace(cand.text()); text != "" {
		return text, nil
	}

	if cand.FinishReason == FinishStop || cand.FinishReason == "" {
		if text := strings.TrimSpace(env.Text()); text != "" {
			return text, nil
		}
		return "", &ExtractError{Reason: ReasonEmpty, FinishReason: cand.FinishReason}
	}

	if cand.FinishReason == FinishSafety || cand.FinishReason == FinishRecitation {
		return "", &ExtractError{Reason: ReasonSafetyBlocked, FinishReason: cand.FinishReason}
	}

	return "", &ExtractError{Reason: ReasonEmpty, FinishReason: cand.FinishReason}
}
