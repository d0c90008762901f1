package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/yoonbit/dramatalk/internal/core"
)

// JSONExporter writes the transcript as a machine-readable document.
type JSONExporter struct {
	names map[string]string
}

func (e *JSONExporter) FileExtension() string { return "json" }

type jsonDocument struct {
	ID         string     `json:"id"`
	Title      string     `json:"title,omitempty"`
	Characters []string   `json:"characters"`
	CreatedAt  time.Time  `json:"created_at"`
	Turns      []jsonTurn `json:"turns"`
}

type jsonTurn struct {
	Number    int       `json:"number"`
	Sender    string    `json:"sender"`
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *JSONExporter) Export(c *core.Conversation, turns []core.Turn, w io.Writer) error {
	doc := jsonDocument{
		ID:         c.ID,
		Title:      c.Title,
		Characters: characterNames(c, e.names),
		CreatedAt:  c.CreatedAt,
		Turns:      make([]jsonTurn, 0, len(turns)),
	}
	for _, turn := range turns {
		doc.Turns = append(doc.Turns, jsonTurn{
			Number:    turn.Number,
			Sender:    string(turn.Sender),
			Speaker:   speakerLabel(turn, e.names),
			Text:      turn.Text,
			CreatedAt: turn.CreatedAt,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
