package text

import (
	"strings"
	"testing"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxLines int
		want     []string
	}{
		{
			name:     "short reply is one chunk",
			in:       "한 줄\n두 줄",
			maxLines: 4,
			want:     []string{"한 줄\n두 줄"},
		},
		{
			name:     "exactly max lines is one chunk",
			in:       "a\nb\nc\nd",
			maxLines: 4,
			want:     []string{"a\nb\nc\nd"},
		},
		{
			name:     "six lines split into four plus two",
			in:       "1\n2\n3\n4\n5\n6",
			maxLines: 4,
			want:     []string{"1\n2\n3\n4", "5\n6"},
		},
		{
			name:     "blank lines dropped before grouping",
			in:       "1\n\n2\n  \n3\n4\n5",
			maxLines: 4,
			want:     []string{"1\n2\n3\n4", "5"},
		},
		{
			name:     "lines trimmed",
			in:       "  hello  \n  world  ",
			maxLines: 4,
			want:     []string{"hello\nworld"},
		},
		{
			name:     "whitespace-only input preserved as is",
			in:       "   \n  ",
			maxLines: 4,
			want:     []string{"   \n  "},
		},
		{
			name:     "empty input preserved as is",
			in:       "",
			maxLines: 4,
			want:     []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.in, tt.maxLines)
			if len(got) != len(tt.want) {
				t.Fatalf("chunk count = %d, want %d (%q)", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChunkNeverLosesOrReordersLines(t *testing.T) {
	in := "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9"
	chunks := Chunk(in, 4)

	if want := (9 + 3) / 4; len(chunks) != want {
		t.Fatalf("chunk count = %d, want %d", len(chunks), want)
	}
	rejoined := strings.Join(chunks, "\n")
	if rejoined != in {
		t.Errorf("rejoined chunks = %q, want original %q", rejoined, in)
	}
}

func TestChunkNeverEmpty(t *testing.T) {
	for _, in := range []string{"", "\n\n\n", "text", "a\nb\nc\nd\ne"} {
		if got := Chunk(in, 4); len(got) == 0 {
			t.Errorf("Chunk(%q) returned empty sequence", in)
		}
	}
}
