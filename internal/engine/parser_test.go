package engine

import (
	"errors"
	"testing"
)

func TestRecoverJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "clean object passes through",
			raw:  `{"response_A": "안녕", "response_B": "반갑소"}`,
			want: map[string]string{"response_A": "안녕", "response_B": "반갑소"},
		},
		{
			name: "fenced block unwrapped",
			raw:  "```json\n{\"response_A\": \"a\", \"response_B\": \"b\"}\n```",
			want: map[string]string{"response_A": "a", "response_B": "b"},
		},
		{
			name: "fence without language tag",
			raw:  "```\n{\"response_A\": \"a\"}\n```",
			want: map[string]string{"response_A": "a"},
		},
		{
			name: "surrounding prose sliced away",
			raw:  "여기 두 사람의 대사입니다:\n{\"response_A\": \"a\", \"response_B\": \"b\"}\n도움이 되었길 바랍니다.",
			want: map[string]string{"response_A": "a", "response_B": "b"},
		},
		{
			name: "fenced block with trailing prose",
			raw:  "```json\n{\"response_A\": \"a\"}\n```\n이상입니다.",
			want: map[string]string{"response_A": "a"},
		},
		{
			name: "line comments repaired",
			raw:  "{\n// 김신의 대사\n\"response_A\": \"a\",\n\"response_B\": \"b\"\n}",
			want: map[string]string{"response_A": "a", "response_B": "b"},
		},
		{
			name: "block comment repaired",
			raw:  `{"response_A": "a", /* 왕여 */ "response_B": "b"}`,
			want: map[string]string{"response_A": "a", "response_B": "b"},
		},
		{
			name: "non-string values stringified",
			raw:  `{"response_A": "a", "round": 3}`,
			want: map[string]string{"response_A": "a", "round": "3"},
		},
		{
			name:    "no braces at all",
			raw:     "그냥 산문입니다",
			wantErr: true,
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "unclosed object",
			raw:     `{"response_A": "a"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecoverJSON(tt.raw)
			if tt.wantErr {
				var malformed *ErrMalformed
				if !errors.As(err, &malformed) {
					t.Fatalf("expected ErrMalformed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("RecoverJSON: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("field %s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestRecoverJSONIdempotent(t *testing.T) {
	// Recovering already-valid output must not change it, so running
	// the recoverer twice is safe.
	raw := `{"response_A": "체스는 기술이오.", "response_B": "운도 실력입니다."}`
	first, err := RecoverJSON(raw)
	if err != nil {
		t.Fatal(err)
	}
	second, err := RecoverJSON(raw)
	if err != nil {
		t.Fatal(err)
	}
	for k := range first {
		if first[k] != second[k] {
			t.Errorf("field %s changed between runs", k)
		}
	}
}
