package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/yoonbit/dramatalk/internal/core"
)

// MarkdownExporter writes the transcript as a Markdown document.
type MarkdownExporter struct {
	names map[string]string
}

func (e *MarkdownExporter) FileExtension() string { return "md" }

func (e *MarkdownExporter) Export(c *core.Conversation, turns []core.Turn, w io.Writer) error {
	var sb strings.Builder

	title := c.Title
	if title == "" {
		title = "대화 기록"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "- 시작: %s\n", c.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "- 참여 캐릭터: %s\n\n", strings.Join(characterNames(c, e.names), ", "))
	sb.WriteString("---\n\n")

	for _, turn := range turns {
		if turn.Sender == core.SenderSystem {
			fmt.Fprintf(&sb, "> %s\n\n", turn.Text)
			continue
		}
		fmt.Fprintf(&sb, "**%s**\n\n%s\n\n", speakerLabel(turn, e.names), turn.Text)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func characterNames(c *core.Conversation, names map[string]string) []string {
	out := make([]string, 0, len(c.CharacterIDs))
	for _, id := range c.CharacterIDs {
		if name, ok := names[id]; ok {
			out = append(out, name)
		} else {
			out = append(out, id)
		}
	}
	return out
}
