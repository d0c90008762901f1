package engine

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformed reports raw model output that could not be coaxed into a
// JSON object even after repair.
type ErrMalformed struct {
	Raw string
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("engine: malformed structured output: %.80q", e.Raw)
}

var (
	fenceRe       = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	lineCommentRe = regexp.MustCompile(`(?m)^\s*//.*$|([,{\[]\s*)//[^\n"]*`)
	blockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// RecoverJSON digs a flat string-valued JSON object out of raw model
// output. Models wrap objects in markdown fences, surround them with
// prose, and sometimes annotate them with comments; recovery handles
// each in turn:
//
//  1. unwrap the first fenced block, if any;
//  2. slice from the first '{' to the last '}';
//  3. strict unmarshal; on failure strip // and /* */ comments and
//     retry exactly once.
//
// Valid JSON passes through unchanged, so recovery is idempotent.
func RecoverJSON(raw string) (map[string]string, error) {
	s := raw
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, &ErrMalformed{Raw: raw}
	}
	s = s[start : end+1]

	if fields, err := unmarshalFields(s); err == nil {
		return fields, nil
	}

	repaired := blockComment.ReplaceAllString(s, "")
	repaired = lineCommentRe.ReplaceAllString(repaired, "$1")
	if fields, err := unmarshalFields(repaired); err == nil {
		return fields, nil
	}

	return nil, &ErrMalformed{Raw: raw}
}

// unmarshalFields decodes a JSON object into string fields, stringifying
// any non-string values rather than rejecting the whole object.
func unmarshalFields(s string) (map[string]string, error) {
	var generic map[string]any
	if err := json.Unmarshal([]byte(s), &generic); err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(generic))
	for k, v := range generic {
		switch val := v.(type) {
		case string:
			fields[k] = val
		case nil:
			fields[k] = ""
		default:
			fields[k] = fmt.Sprint(val)
		}
	}
	return fields, nil
}
