package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotsearch/internal/models"
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
	MsgStatus MsgKind = iota
	MsgResults
	MsgCleared
	MsgActionDone
)

// Kind reports which constructor built m.
func (m Msg) Kind() MsgKind { return m.kind }

type resultsData struct {
	kind  models.Kind
	items []models.Item
}

type actionData struct {
	action string
	err    error
}

// statusMsg is the constructor for [MsgStatus]
func statusMsg(text string) Msg {
	return Msg{kind: MsgStatus, data: text}
}

// resultsMsg is the constructor for [MsgResults]
func resultsMsg(kind models.Kind, items []models.Item) Msg {
	return Msg{kind: MsgResults, data: resultsData{kind, items}}
}

// clearedMsg is the constructor for [MsgCleared]
func clearedMsg() Msg {
	return Msg{kind: MsgCleared}
}

// actionDoneMsg is the constructor for [MsgActionDone]
func actionDoneMsg(action string, err error) Msg {
	return Msg{kind: MsgActionDone, data: actionData{action, err}}
}
