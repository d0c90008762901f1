package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/yoonbit/dramatalk/internal/core"
	"github.com/yoonbit/dramatalk/internal/persona"
	"github.com/yoonbit/dramatalk/internal/text"
)

// SingleParams carries everything a single-party prompt needs.
type SingleParams struct {
	Persona  *persona.Persona
	Nickname string
	History  []core.Turn
	Memories []core.Memory
	Settings core.ChatSettings
	Now      time.Time
	UserText string
}

var moodLines = map[core.Mood]string{
	core.MoodRomantic: "지금 분위기는 로맨틱합니다. 설레는 감정을 은근히 드러내세요.",
	core.MoodFriendly: "지금 분위기는 편안한 친구 사이입니다. 격의 없이 장난스럽게 말해도 좋습니다.",
	core.MoodSerious:  "지금 분위기는 진지합니다. 가볍게 넘기지 말고 깊이 있게 대답하세요.",
}

// BuildSingle assembles the single-party prompt: who the character is,
// when and in what mood the conversation happens, how to address the
// user, the character's material, remembered facts, recent history,
// and finally the user's message.
func BuildSingle(p SingleParams) *Assembler {
	asm := NewAssembler()

	asm.Add(LabelRole, fmt.Sprintf("당신은 '%s'입니다. 지금부터 %s(으)로서 사용자와 대화합니다. 절대 AI라는 사실을 밝히지 마세요.",
		p.Persona.Name, p.Persona.Name))

	asm.Add(LabelTime, renderTimeBlock(BuildTimeContext(p.Now, p.Persona.EraYear, p.Settings)))

	asm.Add(LabelMood, moodLines[p.Settings.Mood])

	if p.Nickname != "" {
		asm.Add(LabelNickname, fmt.Sprintf("사용자의 이름은 '%s'입니다. 이름은 자연스러울 때만 부르고, 매 문장마다 부르지 마세요.", p.Nickname))
	}

	asm.Add(LabelRules, strings.Join([]string{
		"답변 앞에 자신의 이름이나 '이름:' 같은 말머리를 붙이지 마세요.",
		"예시 대사를 그대로 복사하지 말고 상황에 맞게 새로 말하세요.",
		"대괄호 지문이나 마크다운 서식 없이 대사만 말하세요.",
	}, "\n"))

	asm.Add(LabelDescription, "인물 소개:\n"+p.Persona.Description)

	if len(p.Persona.DialogueExamples) > 0 {
		var sb strings.Builder
		sb.WriteString("말투 예시:")
		for _, ex := range p.Persona.DialogueExamples {
			fmt.Fprintf(&sb, "\n사용자: %s\n%s: %s", ex.User, p.Persona.Name, ex.Character)
		}
		asm.Add(LabelExamples, text.ReplaceNickname(sb.String(), p.Nickname))
	}

	if len(p.Persona.StyleRules) > 0 {
		var sb strings.Builder
		sb.WriteString("말투 지침:")
		for _, rule := range p.Persona.StyleRules {
			fmt.Fprintf(&sb, "\n- %s", rule)
		}
		asm.Add(LabelStyle, text.ReplaceNickname(sb.String(), p.Nickname))
	}

	if len(p.Memories) > 0 {
		var sb strings.Builder
		sb.WriteString("기억하고 있는 것들:")
		for _, m := range p.Memories {
			fmt.Fprintf(&sb, "\n- %s", m.Content)
		}
		sb.WriteString("\n기억은 관련 있을 때만 자연스럽게 언급하세요.")
		asm.Add(LabelMemories, sb.String())
	}

	if len(p.History) > 0 {
		var sb strings.Builder
		sb.WriteString("최근 대화:")
		for _, turn := range p.History {
			speaker := p.Persona.Name
			if turn.Sender == core.SenderUser {
				speaker = speakerName(p.Nickname)
			}
			fmt.Fprintf(&sb, "\n%s: %s", speaker, turn.Text)
		}
		asm.Add(LabelHistory, sb.String())
	}

	asm.Add(LabelUserInput, fmt.Sprintf("%s: %s\n%s:", speakerName(p.Nickname), p.UserText, p.Persona.Name))

	return asm
}

func speakerName(nickname string) string {
	if nickname != "" {
		return nickname
	}
	return "사용자"
}
