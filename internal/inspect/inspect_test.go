package inspect

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/dshills/textcmd/internal/engine"
)

func TestJSONEmpty(t *testing.T) {
	doc, err := JSON(engine.New())
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if !gjson.Valid(doc) {
		t.Fatalf("invalid JSON: %s", doc)
	}

	tests := map[string]string{
		"content":          "",
		"selection.start":  "0",
		"selection.end":    "0",
		"selection.empty":  "true",
		"history.undo.#":   "0",
		"history.redo.#":   "0",
		"history.can_undo": "false",
	}
	for path, want := range tests {
		if got := gjson.Get(doc, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
}

func TestJSONHistory(t *testing.T) {
	e := engine.New()
	_ = e.Insert("hello")
	_ = e.SetSelection(0, 5)
	_ = e.Insert("bye")
	_ = e.Undo()

	doc, err := JSON(e)
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	if got := gjson.Get(doc, "content").String(); got != "hello" {
		t.Errorf("content = %q", got)
	}
	if got := gjson.Get(doc, "selection.start").Int(); got != 0 {
		t.Errorf("selection.start = %d", got)
	}
	if got := gjson.Get(doc, "selection.end").Int(); got != 5 {
		t.Errorf("selection.end = %d", got)
	}

	undo := gjson.Get(doc, "history.undo.#.description").Array()
	if len(undo) != 2 || undo[0].String() != `Insert "hello"` || undo[1].String() != "Select 0-5" {
		t.Errorf("undo descriptions = %v", undo)
	}
	redo := gjson.Get(doc, "history.redo.#.description").Array()
	if len(redo) != 1 || redo[0].String() != `Insert "bye"` {
		t.Errorf("redo descriptions = %v", redo)
	}

	id := gjson.Get(doc, "history.undo.0.id").String()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("id %q is not a UUID: %v", id, err)
	}
	if gjson.Get(doc, "history.redo.0.timestamp").String() == "" {
		t.Error("missing timestamp")
	}
}

func TestJSONEscapesContent(t *testing.T) {
	e := engine.New(engine.WithContent("a \"quoted\"\nline 世"))

	doc, err := JSON(e)
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if got := gjson.Get(doc, "content").String(); got != "a \"quoted\"\nline 世" {
		t.Errorf("content = %q", got)
	}
}

func TestPretty(t *testing.T) {
	e := engine.New()
	_ = e.Insert("x")

	doc, err := Pretty(e)
	if err != nil {
		t.Fatalf("Pretty failed: %v", err)
	}
	if !strings.Contains(doc, "\n  \"content\": \"x\"") {
		t.Errorf("not indented:\n%s", doc)
	}
	if gjson.Get(doc, "history.undo.0.description").String() != "Type 'x'" {
		t.Errorf("unexpected document:\n%s", doc)
	}
}
