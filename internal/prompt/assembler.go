// Package prompt assembles the instruction text sent to the model. All
// assembly is deterministic: the same inputs always render the same
// prompt, block for block.
package prompt

import "strings"

// Block labels, used to assert prompt structure without matching on
// instruction wording.
const (
	LabelRole        = "role"
	LabelTime        = "time"
	LabelMood        = "mood"
	LabelNickname    = "nickname"
	LabelRules       = "rules"
	LabelDescription = "description"
	LabelExamples    = "examples"
	LabelStyle       = "style"
	LabelMemories    = "memories"
	LabelHistory     = "history"
	LabelUserInput   = "user_input"
	LabelTopic       = "topic"
	LabelTone        = "tone"
	LabelStanceA     = "stance_a"
	LabelStanceB     = "stance_b"
	LabelOpponent    = "opponent"
	LabelOutput      = "output"
)

// Block is one labeled section of a prompt.
type Block struct {
	Label string
	Text  string
}

// Assembler collects labeled blocks in insertion order.
type Assembler struct {
	blocks []Block
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Add appends a block. Empty text is skipped so callers can add
// optional sections unconditionally.
func (a *Assembler) Add(label, text string) *Assembler {
	text = strings.TrimSpace(text)
	if text != "" {
		a.blocks = append(a.blocks, Block{Label: label, Text: text})
	}
	return a
}

// Labels returns the labels of the blocks present, in order.
func (a *Assembler) Labels() []string {
	labels := make([]string, len(a.blocks))
	for i, b := range a.blocks {
		labels[i] = b.Label
	}
	return labels
}

// Block returns the text of the first block with the given label, and
// whether it exists.
func (a *Assembler) Block(label string) (string, bool) {
	for _, b := range a.blocks {
		if b.Label == label {
			return b.Text, true
		}
	}
	return "", false
}

// Render joins the blocks into the final prompt text.
func (a *Assembler) Render() string {
	parts := make([]string, len(a.blocks))
	for i, b := range a.blocks {
		parts[i] = b.Text
	}
	return strings.Join(parts, "\n\n")
}
