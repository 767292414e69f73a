// Package inspect renders an engine's state and history as JSON.
package inspect

import (
	"fmt"
	"time"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/textcmd/internal/engine"
)

// JSON returns the engine's content, selection and both history stacks:
//
//	{"content":"...","selection":{"start":0,"end":0},
//	 "history":{"undo":[...],"redo":[...]}}
//
// Stacks are listed bottom first, so the last undo entry is undone next and
// the last redo entry is redone next.
func JSON(e *engine.Engine) (string, error) {
	state := e.State()

	doc := `{"history":{"undo":[],"redo":[]}}`
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.Set(doc, path, value)
	}

	set("content", state.Content)
	set("selection.start", state.Selection.Start)
	set("selection.end", state.Selection.End)
	set("selection.empty", state.Selection.IsEmpty())
	appendEntries(set, "history.undo", e.UndoInfo())
	appendEntries(set, "history.redo", e.RedoInfo())
	set("history.can_undo", e.CanUndo())
	set("history.can_redo", e.CanRedo())

	if err != nil {
		return "", fmt.Errorf("inspect: %w", err)
	}
	return doc, nil
}

func appendEntries(set func(string, any), path string, infos []engine.OperationInfo) {
	for i, info := range infos {
		prefix := fmt.Sprintf("%s.%d", path, i)
		set(prefix+".id", info.ID.String())
		set(prefix+".description", info.Description)
		set(prefix+".timestamp", info.Timestamp.UTC().Format(time.RFC3339Nano))
	}
}

// Pretty is JSON with indentation.
func Pretty(e *engine.Engine) (string, error) {
	doc, err := JSON(e)
	if err != nil {
		return "", err
	}
	return string(pretty.Pretty([]byte(doc))), nil
}
