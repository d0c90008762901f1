package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/yoonbit/dramatalk/internal/core"
)

var testNames = map[string]string{"kim_shin": "김신", "wang_yeo": "왕여"}

func testConversation() (*core.Conversation, []core.Turn) {
	c := &core.Conversation{
		ID:           "c1",
		UserID:       "u1",
		Title:        "사랑 대 의리",
		CharacterIDs: []string{"kim_shin", "wang_yeo"},
		CreatedAt:    time.Date(2026, 3, 5, 21, 0, 0, 0, time.UTC),
	}
	turns := []core.Turn{
		{Number: 1, Sender: core.SenderSystem, Text: "토론이 시작되었습니다"},
		{Number: 2, Sender: core.SenderAI, CharacterID: "kim_shin", Text: "사랑이 우선이오."},
		{Number: 3, Sender: core.SenderAI, CharacterID: "wang_yeo", Text: "의리가 우선입니다."},
		{Number: 4, Sender: core.SenderUser, Text: "둘 다 맞는 말이네."},
	}
	return c, turns
}

func TestGetExporter(t *testing.T) {
	for format, ext := range map[string]string{
		"markdown": "md", "md": "md", "json": "json", "pdf": "pdf",
	} {
		e, err := GetExporter(format, testNames)
		if err != nil {
			t.Fatalf("GetExporter(%s): %v", format, err)
		}
		if e.FileExtension() != ext {
			t.Errorf("extension for %s = %s, want %s", format, e.FileExtension(), ext)
		}
	}

	if _, err := GetExporter("docx", nil); err == nil {
		t.Error("unsupported format should error")
	}
}

func TestMarkdownExport(t *testing.T) {
	c, turns := testConversation()
	e, _ := GetExporter("markdown", testNames)

	var buf bytes.Buffer
	if err := e.Export(c, turns, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "# 사랑 대 의리") {
		t.Error("title missing")
	}
	if !strings.Contains(out, "**김신**") || !strings.Contains(out, "**왕여**") {
		t.Error("character names not resolved")
	}
	if !strings.Contains(out, "> 토론이 시작되었습니다") {
		t.Error("system turn not quoted")
	}
	if !strings.Contains(out, "**사용자**") {
		t.Error("user label missing")
	}
}

func TestJSONExport(t *testing.T) {
	c, turns := testConversation()
	e, _ := GetExporter("json", testNames)

	var buf bytes.Buffer
	if err := e.Export(c, turns, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var doc struct {
		ID         string   `json:"id"`
		Characters []string `json:"characters"`
		Turns      []struct {
			Speaker string `json:"speaker"`
			Text    string `json:"text"`
		} `json:"turns"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.ID != "c1" || len(doc.Turns) != 4 {
		t.Errorf("doc = %+v", doc)
	}
	if doc.Characters[0] != "김신" {
		t.Errorf("characters = %v", doc.Characters)
	}
	if doc.Turns[1].Speaker != "김신" || doc.Turns[1].Text != "사랑이 우선이오." {
		t.Errorf("turn = %+v", doc.Turns[1])
	}
}

func TestPDFExport(t *testing.T) {
	c, turns := testConversation()
	e, _ := GetExporter("pdf", testNames)

	var buf bytes.Buffer
	if err := e.Export(c, turns, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output does not look like a PDF")
	}
}
