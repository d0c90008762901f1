package prompt

import (
	"fmt"
	"strings"

	"github.com/yoonbit/dramatalk/internal/persona"
)

// Tone selects the register a debate is argued in.
type Tone string

const (
	ToneAggressive Tone = "aggressive"
	ToneCalm       Tone = "calm"
	TonePlayful    Tone = "playful"
	ToneBalanced   Tone = "balanced"
)

var toneLines = map[Tone]string{
	ToneAggressive: "두 사람 모두 날카롭고 공격적으로 상대의 허점을 파고드세요. 단, 인신공격은 하지 마세요.",
	ToneCalm:       "두 사람 모두 차분하고 논리적으로, 감정을 앞세우지 말고 근거 중심으로 말하세요.",
	TonePlayful:    "두 사람 모두 가볍고 유쾌하게, 농담을 섞어가며 토론하세요.",
	ToneBalanced:   "두 사람 모두 상대의 좋은 지적은 인정하면서 자신의 입장을 지키세요.",
}

// DebateParams carries everything the dual-party prompt needs. Stances
// are verbatim transcript text; an empty stance simply omits the lock
// block for that participant.
type DebateParams struct {
	PersonaA, PersonaB *persona.Persona
	Topic              string
	Tone               Tone
	StanceA, StanceB   string
	Round              int
	LastUserInput      string
	LastOpponentText   string
	FieldA, FieldB     string
}

// BuildDebate assembles the dual-party debate prompt. Both characters
// speak in one model call and the output must be a bare JSON object
// with one field per participant.
func BuildDebate(p DebateParams) *Assembler {
	asm := NewAssembler()

	asm.Add(LabelRole, fmt.Sprintf(
		"당신은 두 인물을 동시에 연기합니다.\nA: %s - %s\nB: %s - %s\n두 인물은 서로 토론 중이며, 각자의 말투와 성격을 유지해야 합니다. 절대 AI라는 사실을 밝히지 마세요.",
		p.PersonaA.Name, p.PersonaA.Description,
		p.PersonaB.Name, p.PersonaB.Description))

	asm.Add(LabelTopic, fmt.Sprintf("토론 주제: %s", p.Topic))

	asm.Add(LabelTone, toneLines[p.Tone])

	if p.StanceA != "" {
		asm.Add(LabelStanceA, fmt.Sprintf(
			"%s의 입장은 토론 시작 때 이미 정해졌습니다. 아래 입장을 절대 바꾸지 말고 끝까지 유지하세요:\n\"%s\"",
			p.PersonaA.Name, p.StanceA))
	}
	if p.StanceB != "" {
		asm.Add(LabelStanceB, fmt.Sprintf(
			"%s의 입장은 토론 시작 때 이미 정해졌습니다. 아래 입장을 절대 바꾸지 말고 끝까지 유지하세요:\n\"%s\"",
			p.PersonaB.Name, p.StanceB))
	}

	if p.Round >= 2 && p.LastOpponentText != "" {
		asm.Add(LabelOpponent, fmt.Sprintf("직전 발언:\n\"%s\"\n이 발언에 반응하며 토론을 이어가세요.", p.LastOpponentText))
	}

	if p.LastUserInput != "" {
		asm.Add(LabelUserInput, fmt.Sprintf("사용자가 방금 이렇게 말했습니다:\n\"%s\"\n두 인물 모두 이 말을 반영해서 대답하세요.", p.LastUserInput))
	}

	asm.Add(LabelRules, strings.Join([]string{
		"라운드 번호나 '몇 라운드'라는 말을 입에 올리지 마세요.",
		"답변 앞에 이름 말머리를 붙이지 마세요.",
		"각 인물의 대사는 2~4문장으로 하세요.",
	}, "\n"))

	asm.Add(LabelOutput, fmt.Sprintf(
		"반드시 아래 형식의 JSON 객체만 출력하세요. 설명, 마크다운, 코드 펜스를 붙이지 마세요.\n{\"%s\": \"%s의 대사\", \"%s\": \"%s의 대사\"}",
		p.FieldA, p.PersonaA.Name, p.FieldB, p.PersonaB.Name))

	return asm
}
