package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/yoonbit/dramatalk/internal/core"
)

// kst is the timezone every conversation lives in, regardless of where
// the process runs.
var kst = time.FixedZone("KST", 9*60*60)

var weekdaysKorean = [...]string{"일요일", "월요일", "화요일", "수요일", "목요일", "금요일", "토요일"}

// TimeContext describes "now" from the character's point of view.
type TimeContext struct {
	Period     string // 아침, 낮, 저녁, 밤
	Hour       int
	Weekday    string
	MealTime   bool
	YearsAgo   int // years between the character's era and now, 0 for modern characters
	Weather    string
	Overridden bool
}

// BuildTimeContext computes the character-facing time context. A
// time-of-day override replaces the wall-clock period; weather passes
// through verbatim. eraYear anchors how long ago the character's own
// time was.
func BuildTimeContext(now time.Time, eraYear int, settings core.ChatSettings) TimeContext {
	now = now.In(kst)
	hour := now.Hour()

	tc := TimeContext{
		Hour:    hour,
		Weekday: weekdaysKorean[int(now.Weekday())],
		Weather: settings.Weather,
	}

	switch settings.TimeOfDay {
	case core.TimeMorning:
		tc.Period, tc.Hour, tc.Overridden = "아침", 8, true
	case core.TimeAfternoon:
		tc.Period, tc.Hour, tc.Overridden = "낮", 14, true
	case core.TimeEvening:
		tc.Period, tc.Hour, tc.Overridden = "저녁", 19, true
	case core.TimeNight:
		tc.Period, tc.Hour, tc.Overridden = "밤", 23, true
	default:
		tc.Period = periodOf(hour)
	}

	tc.MealTime = isMealTime(tc.Hour)
	if eraYear > 0 && eraYear < now.Year() {
		tc.YearsAgo = now.Year() - eraYear
	}
	return tc
}

func periodOf(hour int) string {
	switch {
	case hour >= 5 && hour < 11:
		return "아침"
	case hour >= 11 && hour < 17:
		return "낮"
	case hour >= 17 && hour < 21:
		return "저녁"
	default:
		return "밤"
	}
}

func isMealTime(hour int) bool {
	return (hour >= 7 && hour <= 9) || (hour >= 12 && hour <= 13) || (hour >= 18 && hour <= 20)
}

// renderTimeBlock turns a TimeContext into the prompt's time section,
// including the rules about when time may be mentioned.
func renderTimeBlock(tc TimeContext) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "현재 시점: %s %s (%d시경)", tc.Weekday, tc.Period, tc.Hour)
	if tc.Weather != "" {
		fmt.Fprintf(&sb, ", 날씨: %s", tc.Weather)
	}
	sb.WriteString("\n")
	if tc.YearsAgo > 0 {
		fmt.Fprintf(&sb, "당신이 살던 시대로부터 약 %d년이 지났습니다.\n", tc.YearsAgo)
	}
	if tc.MealTime {
		sb.WriteString("지금은 식사 시간대입니다. 자연스럽다면 식사 이야기를 꺼내도 좋습니다.\n")
	}
	sb.WriteString("시간은 대화 흐름상 자연스러울 때만 언급하고, 매번 시간 얘기를 꺼내지 마세요. 날짜나 시각을 숫자로 그대로 읽지 마세요.")
	return sb.String()
}
