// Package export writes conversation transcripts to shareable formats.
package export

import (
	"fmt"
	"io"

	"github.com/yoonbit/dramatalk/internal/core"
)

// Exporter writes a conversation transcript to w.
type Exporter interface {
	Export(c *core.Conversation, turns []core.Turn, w io.Writer) error
	FileExtension() string
}

// GetExporter returns the exporter for a format name. names maps
// character IDs to display names for labeling AI turns.
func GetExporter(format string, names map[string]string) (Exporter, error) {
	switch format {
	case "markdown", "md":
		return &MarkdownExporter{names: names}, nil
	case "json":
		return &JSONExporter{names: names}, nil
	case "pdf":
		return &PDFExporter{names: names}, nil
	default:
		return nil, fmt.Errorf("export: unsupported format %q", format)
	}
}

// speakerLabel resolves the display label of a turn.
func speakerLabel(t core.Turn, names map[string]string) string {
	switch t.Sender {
	case core.SenderUser:
		return "사용자"
	case core.SenderSystem:
		return "시스템"
	default:
		if name, ok := names[t.CharacterID]; ok {
			return name
		}
		if t.CharacterID != "" {
			return t.CharacterID
		}
		return "AI"
	}
}
