package engine

import (
	"testing"

	"github.com/yoonbit/dramatalk/internal/core"
)

func sys(text string) core.Turn { return core.Turn{Sender: core.SenderSystem, Text: text} }
func usr(text string) core.Turn { return core.Turn{Sender: core.SenderUser, Text: text} }
func ai(characterID, text string) core.Turn {
	return core.Turn{Sender: core.SenderAI, CharacterID: characterID, Text: text}
}

func TestDeriveStances(t *testing.T) {
	const stanceA = "치즈는 라면의 완성이오."
	const stanceB = "라면은 국물 맛으로 먹는 것입니다."

	t.Run("first utterances in opening segment", func(t *testing.T) {
		turns := []core.Turn{
			usr("라면 얘기나 하자"),
			sys("토론이 시작되었습니다: 라면에 치즈"),
			ai("a", stanceA),
			ai("b", stanceB),
			ai("a", "두 번째 발언은 입장이 아니오."),
		}
		a, b := DeriveStances(turns, "a", "b")
		if a.Text != stanceA {
			t.Errorf("stance A = %q", a.Text)
		}
		if b.Text != stanceB {
			t.Errorf("stance B = %q", b.Text)
		}
	})

	t.Run("segment ends at first user turn", func(t *testing.T) {
		turns := []core.Turn{
			sys("토론이 시작되었습니다"),
			ai("a", stanceA),
			usr("b는 어떻게 생각해?"),
			ai("b", "늦게 말한 입장은 잠기지 않습니다."),
		}
		a, b := DeriveStances(turns, "a", "b")
		if a.Text != stanceA {
			t.Errorf("stance A = %q", a.Text)
		}
		if b.Text != "" {
			t.Errorf("stance B should stay unset, got %q", b.Text)
		}
	})

	t.Run("segment ends at round marker", func(t *testing.T) {
		turns := []core.Turn{
			sys("토론이 시작되었습니다"),
			ai("a", stanceA),
			sys("라운드 2"),
			ai("b", "라운드 2의 발언"),
		}
		_, b := DeriveStances(turns, "a", "b")
		if b.Text != "" {
			t.Errorf("stance B should stay unset after round marker, got %q", b.Text)
		}
	})

	t.Run("bubble-tagged turns are not utterances", func(t *testing.T) {
		turns := []core.Turn{
			sys("토론이 시작되었습니다"),
			ai("a", "🎤 김신의 차례입니다"),
			ai("a", stanceA),
		}
		a, _ := DeriveStances(turns, "a", "b")
		if a.Text != stanceA {
			t.Errorf("stance A = %q, bubble turn must be skipped", a.Text)
		}
	})

	t.Run("bubble user turn does not end the segment", func(t *testing.T) {
		turns := []core.Turn{
			sys("토론이 시작되었습니다"),
			usr("💬 관전 중"),
			ai("a", stanceA),
		}
		a, _ := DeriveStances(turns, "a", "b")
		if a.Text != stanceA {
			t.Errorf("stance A = %q", a.Text)
		}
	})

	t.Run("no debate marker means no stances", func(t *testing.T) {
		turns := []core.Turn{
			usr("안녕"),
			ai("a", "반갑소"),
		}
		a, b := DeriveStances(turns, "a", "b")
		if a.Text != "" || b.Text != "" {
			t.Errorf("stances without a debate window: %q / %q", a.Text, b.Text)
		}
	})

	t.Run("latest debate window wins", func(t *testing.T) {
		turns := []core.Turn{
			sys("토론이 시작되었습니다"),
			ai("a", "옛 토론의 입장"),
			sys("토론이 종료되었습니다"),
			sys("토론이 시작되었습니다"),
			ai("a", stanceA),
		}
		a, _ := DeriveStances(turns, "a", "b")
		if a.Text != stanceA {
			t.Errorf("stance A = %q, want the new debate's stance", a.Text)
		}
	})
}

func TestStancesStableAcrossRounds(t *testing.T) {
	const stanceA = "사랑이 우선이오."
	const stanceB = "의리가 우선입니다."

	turns := []core.Turn{
		sys("토론이 시작되었습니다"),
		ai("a", stanceA),
		ai("b", stanceB),
	}
	// Five more rounds of back and forth; the locked stances must come
	// back verbatim on every replay.
	for round := 2; round <= 6; round++ {
		turns = append(turns,
			sys("라운드 시작"),
			ai("a", "round utterance"),
			ai("b", "round utterance"),
			usr("계속 해봐"),
		)
		a, b := DeriveStances(turns, "a", "b")
		if a.Text != stanceA || b.Text != stanceB {
			t.Fatalf("round %d: stances drifted: %q / %q", round, a.Text, b.Text)
		}
	}
}

func TestReplayDebate(t *testing.T) {
	turns := []core.Turn{
		sys("토론이 시작되었습니다"),
		ai("a", "입장 A"),
		ai("b", "입장 B"),
		sys("라운드 2"),
		ai("a", "반박 A"),
		ai("b", "반박 B"),
		usr("💭 생각 중"),
		usr("둘 다 너무해"),
	}
	facts := ReplayDebate(turns, "a", "b")

	if facts.Round != 2 {
		t.Errorf("round = %d, want 2", facts.Round)
	}
	if facts.StanceA.Text != "입장 A" || facts.StanceB.Text != "입장 B" {
		t.Errorf("stances = %q / %q", facts.StanceA.Text, facts.StanceB.Text)
	}
	if facts.LastUserInput != "둘 다 너무해" {
		t.Errorf("last user input = %q, bubble turn must be skipped", facts.LastUserInput)
	}
	if facts.LastOpponentText != "반박 B" {
		t.Errorf("last opponent = %q", facts.LastOpponentText)
	}
}

func TestReplayDebateRoundOneHasNoOpponentText(t *testing.T) {
	turns := []core.Turn{
		sys("토론이 시작되었습니다"),
		ai("a", "입장 A"),
	}
	facts := ReplayDebate(turns, "a", "b")
	if facts.Round != 1 {
		t.Errorf("round = %d", facts.Round)
	}
	if facts.LastOpponentText != "" {
		t.Errorf("round 1 should not carry opponent text: %q", facts.LastOpponentText)
	}
}
