package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	// MsgTick is the periodic refresh.
	MsgTick MsgKind = iota
	// MsgWake is sent when a background task finished or external state changed.
	MsgWake
)

// tickMsg is the constructor for [MsgTick]
func tickMsg(t time.Time) Msg {
	return Msg{kind: MsgTick, data: t}
}

// Wake returns the message that makes the program run a cycle right away.
// It is safe to pass to [tea.Program.Send] from any goroutine.
func Wake() tea.Msg {
	return Msg{kind: MsgWake}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}
