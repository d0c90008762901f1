// Package text cleans generated replies and splits them into delivery
// chunks.
package text

import (
	"regexp"
	"strings"
)

// Placeholders a persona's style guide may use for the user's name.
const (
	placeholderUser     = "{{USER}}"
	placeholderNickname = "{{user_nickname}}"
)

// ReplaceNickname substitutes the user's nickname into both placeholder
// forms. An empty nickname leaves the placeholders in place.
func ReplaceNickname(s, nickname string) string {
	if nickname == "" {
		return s
	}
	s = strings.ReplaceAll(s, placeholderUser, nickname)
	s = strings.ReplaceAll(s, placeholderNickname, nickname)
	return s
}

// Prompt fragments that occasionally leak into the model output. A line
// containing one of these is internal scaffolding, not dialogue.
var metaMarkers = []string{
	"이전 대화:",
	"Previous conversation:",
	"현재 시점:",
	"Current time:",
	"대화 기록:",
	"Conversation history:",
}

var (
	// Leading "이름:" speaker prefix, e.g. "김신: 안녕" or "Kim Shin: hi".
	namePrefixRe = regexp.MustCompile(`^[\p{Hangul}A-Za-z .]{1,20}:\s*`)
	// Leading bracketed stage direction, e.g. "[차분하게]".
	bracketTagRe = regexp.MustCompile(`^\[[^\]\n]{1,40}\]\s*`)
	// Korean date/time runs, e.g. "2024년 3월 5일" or "오후 3시 20분".
	koreanDateRe = regexp.MustCompile(`\d{4}년\s*\d{1,2}월\s*\d{1,2}일|(오전|오후)\s*\d{1,2}시(\s*\d{1,2}분)?`)
	// ISO-ish date/time runs, e.g. "2024-03-05 14:30:00".
	isoDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}([ T]\d{2}:\d{2}(:\d{2})?)?`)
	// Markdown heading prefix.
	headingRe = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	// Code fence lines, with or without a language tag.
	fenceLineRe = regexp.MustCompile("(?m)^```[a-zA-Z]*\\s*$")
)

// CleanReply strips prompt leakage and formatting artifacts out of a
// generated reply. When stripping leaves fewer than two characters the
// original input is returned untouched, since a mangled reply is still
// better than an empty bubble.
func CleanReply(s string) string {
	original := s

	s = fenceLineRe.ReplaceAllString(s, "")

	// Everything after a horizontal rule is the model talking to
	// itself, never dialogue.
	if idx := strings.Index(s, "---"); idx >= 0 {
		s = s[:idx]
	}

	for _, marker := range metaMarkers {
		if idx := strings.Index(s, marker); idx >= 0 {
			s = s[:idx]
		}
	}

	s = strings.TrimSpace(s)
	s = namePrefixRe.ReplaceAllString(s, "")
	s = bracketTagRe.ReplaceAllString(s, "")
	s = koreanDateRe.ReplaceAllString(s, "")
	s = isoDateRe.ReplaceAllString(s, "")

	s = strings.ReplaceAll(s, "**", "")
	s = headingRe.ReplaceAllString(s, "")

	s = strings.TrimSpace(s)
	if len([]rune(s)) < 2 {
		return original
	}
	return s
}
