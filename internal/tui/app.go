package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/textcmd/internal/engine"
	"github.com/dshills/textcmd/internal/logging"
)

// Styles used for drawing.
var (
	styleText      = tcell.StyleDefault
	styleSelection = tcell.StyleDefault.Reverse(true)
	styleStatus    = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleError     = tcell.StyleDefault.Background(tcell.ColorMaroon).Foreground(tcell.ColorWhite)
)

// TabWidth is the number of columns a tab advances to.
const TabWidth = 4

// App connects a screen to an engine.
type App struct {
	screen tcell.Screen
	engine *engine.Engine
	logger *logging.Logger

	// anchor and head are the fixed and moving ends of a keyboard selection.
	anchor, head int

	message string
	isError bool
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an App drawing to an initialized screen.
func New(screen tcell.Screen, e *engine.Engine, opts ...Option) *App {
	a := &App{
		screen: screen,
		engine: e,
		logger: logging.Null(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithComponent("tui")
	a.syncAnchor()
	return a
}

// redraw is posted when the engine changes outside the event loop.
type redraw struct{}

// Run processes events until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	unsubscribe := a.engine.OnChange(func(engine.State) {
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(redraw{}))
	})
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(ctx.Err()))
		case <-done:
		}
	}()

	a.Draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return ctx.Err()
		}
		if a.HandleEvent(ev) {
			return nil
		}
		a.Draw()
	}
}

// HandleEvent applies one event and reports whether the app should quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventPaste:
		a.handlePaste(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return false
}

func (a *App) handlePaste(ev *tcell.EventPaste) {
	switch {
	case ev.Start():
		a.engine.BeginUndoGroup("Paste")
	case ev.End():
		a.engine.EndUndoGroup()
	}
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	a.message = ""
	a.isError = false
	a.followEngine(a.engine.Selection())

	if ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 {
		return a.handleCtrlRune(ev.Rune())
	}

	shift := ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlQ:
		return true
	case tcell.KeyCtrlZ:
		a.undo()
	case tcell.KeyCtrlY:
		a.redo()
	case tcell.KeyCtrlA:
		a.selectAll()
	case tcell.KeyEnter:
		a.insert("\n")
	case tcell.KeyTab:
		a.insert("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.report(a.engine.Delete())
		a.syncAnchor()
	case tcell.KeyLeft:
		if shift {
			a.extend(-1)
		} else {
			a.moveHorizontal(-1)
		}
	case tcell.KeyRight:
		if shift {
			a.extend(1)
		} else {
			a.moveHorizontal(1)
		}
	case tcell.KeyHome:
		a.moveTo(lineStart(a.engine.Content(), a.head))
	case tcell.KeyEnd:
		a.moveTo(lineEnd(a.engine.Content(), a.head))
	case tcell.KeyRune:
		a.insert(string(ev.Rune()))
	}
	return false
}

// handleCtrlRune covers terminals that report Ctrl+letter as a modified rune.
func (a *App) handleCtrlRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		return true
	case 'z', 'Z':
		a.undo()
	case 'y', 'Y':
		a.redo()
	case 'a', 'A':
		a.selectAll()
	}
	return false
}

func (a *App) insert(text string) {
	a.report(a.engine.Insert(text))
	a.syncAnchor()
}

func (a *App) undo() {
	if !a.engine.CanUndo() {
		a.message = "Nothing to undo"
		return
	}
	a.report(a.engine.Undo())
	a.syncAnchor()
}

func (a *App) redo() {
	if !a.engine.CanRedo() {
		a.message = "Nothing to redo"
		return
	}
	a.report(a.engine.Redo())
	a.syncAnchor()
}

func (a *App) selectAll() {
	n := a.engine.Len()
	if a.report(a.engine.SetSelection(0, n)) {
		a.anchor, a.head = 0, n
	}
}

// moveHorizontal collapses a range to its near edge, or steps the cursor.
func (a *App) moveHorizontal(dir int) {
	sel := a.engine.Selection()
	switch {
	case !sel.IsEmpty() && dir < 0:
		a.moveTo(sel.Start)
	case !sel.IsEmpty():
		a.moveTo(sel.End)
	default:
		a.moveTo(clamp(sel.Start+dir, 0, a.engine.Len()))
	}
}

func (a *App) moveTo(offset int) {
	if a.engine.Selection() == (engine.Selection{Start: offset, End: offset}) {
		a.anchor, a.head = offset, offset
		return
	}
	if a.report(a.engine.SetSelection(offset, offset)) {
		a.anchor, a.head = offset, offset
	}
}

// extend moves the head of the selection while the anchor stays put.
func (a *App) extend(dir int) {
	head := clamp(a.head+dir, 0, a.engine.Len())
	if head == a.head {
		return
	}
	if a.report(a.engine.SetSelection(min(a.anchor, head), max(a.anchor, head))) {
		a.head = head
	}
}

// followEngine resyncs anchor and head when the engine's selection was
// changed by something other than extend.
func (a *App) followEngine(sel engine.Selection) {
	if sel.Start != min(a.anchor, a.head) || sel.End != max(a.anchor, a.head) {
		a.anchor, a.head = sel.Start, sel.End
	}
}

// syncAnchor resets the keyboard selection to the engine's selection.
func (a *App) syncAnchor() {
	sel := a.engine.Selection()
	a.anchor, a.head = sel.Start, sel.End
}

// report shows err on the status line and returns true if err is nil.
func (a *App) report(err error) bool {
	if err == nil {
		return true
	}
	a.logger.Warn("%v", err)
	a.message = err.Error()
	a.isError = true
	return false
}

// Draw renders the content and the status line.
func (a *App) Draw() {
	a.screen.Clear()
	width, height := a.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}

	state := a.engine.State()
	sel := state.Selection
	a.followEngine(sel)
	textRows := height - 1

	x, y := 0, 0
	cursorX, cursorY := -1, -1
	offset := 0
	for _, r := range state.Content {
		if offset == a.head {
			cursorX, cursorY = x, y
		}

		style := styleText
		if offset >= sel.Start && offset < sel.End {
			style = styleSelection
		}

		switch r {
		case '\n':
			if style == styleSelection && y < textRows {
				a.screen.SetContent(x, y, ' ', nil, style)
			}
			x, y = 0, y+1
		case '\t':
			next := (x/TabWidth + 1) * TabWidth
			for ; x < next && x < width; x++ {
				if y < textRows {
					a.screen.SetContent(x, y, ' ', nil, style)
				}
			}
		default:
			w := uniseg.StringWidth(string(r))
			if w == 0 {
				w = 1
			}
			if x+w > width {
				x, y = 0, y+1
			}
			if y < textRows {
				a.screen.SetContent(x, y, r, nil, style)
			}
			x += w
		}

		if x >= width {
			x, y = 0, y+1
		}
		offset++
	}
	if offset <= a.head && cursorX < 0 {
		cursorX, cursorY = x, y
	}

	if cursorY >= 0 && cursorY < textRows {
		a.screen.ShowCursor(cursorX, cursorY)
	} else {
		a.screen.HideCursor()
	}

	a.drawStatus(width, height-1, sel)
	a.screen.Show()
}

func (a *App) drawStatus(width, y int, sel engine.Selection) {
	style := styleStatus
	text := fmt.Sprintf(" %v  len %d  undo %d  redo %d", sel, a.engine.Len(), a.engine.UndoCount(), a.engine.RedoCount())
	if a.engine.IsReadOnly() {
		text += "  [read-only]"
	}
	if a.message != "" {
		text += "  " + a.message
	}
	if a.isError {
		style = styleError
	}

	x := 0
	for _, r := range text {
		if x >= width {
			break
		}
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		a.screen.SetContent(x, y, ' ', nil, style)
	}
}

// Message returns the current status message.
func (a *App) Message() string {
	return a.message
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
