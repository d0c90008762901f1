package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/yoonbit/dramatalk/internal/core"
)

// PDFExporter writes the transcript as a PDF. Korean text needs a UTF-8
// TTF font; point FontPath at one (e.g. NanumGothic.ttf) or the built-in
// Arial is used and Hangul will not render.
type PDFExporter struct {
	names    map[string]string
	FontPath string
}

func (e *PDFExporter) FileExtension() string { return "pdf" }

func (e *PDFExporter) Export(c *core.Conversation, turns []core.Turn, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	family := "Arial"
	if e.FontPath != "" {
		family = "custom"
		pdf.AddUTF8Font(family, "", e.FontPath)
		pdf.AddUTF8Font(family, "B", e.FontPath)
	}

	title := c.Title
	if title == "" {
		title = "Conversation"
	}
	pdf.SetFont(family, "B", 16)
	pdf.MultiCell(0, 10, title, "", "C", false)
	pdf.Ln(2)

	pdf.SetFont(family, "", 9)
	meta := fmt.Sprintf("%s | %s",
		c.CreatedAt.Format("2006-01-02 15:04"),
		strings.Join(characterNames(c, e.names), ", "))
	pdf.MultiCell(0, 5, meta, "", "C", false)
	pdf.Ln(6)

	for _, turn := range turns {
		if turn.Sender == core.SenderSystem {
			pdf.SetFont(family, "", 9)
			pdf.SetTextColor(120, 120, 120)
			pdf.MultiCell(0, 5, turn.Text, "", "C", false)
			pdf.SetTextColor(0, 0, 0)
			pdf.Ln(3)
			continue
		}
		pdf.SetFont(family, "B", 11)
		pdf.MultiCell(0, 6, speakerLabel(turn, e.names), "", "L", false)
		pdf.SetFont(family, "", 10)
		pdf.MultiCell(0, 5, turn.Text, "", "L", false)
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}
