package tui

import (
	"github.com/gdamore/tcell/v2"
)

// NewScreen creates and initializes a terminal screen with bracketed
// paste enabled. The caller must call Fini.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnablePaste()
	return screen, nil
}
