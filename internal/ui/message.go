package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/waslerr/internal/auth"
	"github.com/desertthunder/waslerr/internal/models"
	"github.com/desertthunder/waslerr/internal/session"
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
	MsgSessionLoaded MsgKind = iota
	MsgStorageChanged
	MsgAuthResult
	MsgProfileRefreshed
	MsgToastExpired
)

// authResult is the payload of [MsgAuthResult].
type authResult struct {
	form *authForm
	req  auth.Request
	resp *models.AuthResponse
	err  error
}

// refreshResult is the payload of [MsgProfileRefreshed].
type refreshResult struct {
	state session.State
	err   error
}

// sessionLoadedMsg is the constructor for [MsgSessionLoaded]
func sessionLoadedMsg(state session.State) Msg {
	return Msg{kind: MsgSessionLoaded, data: state}
}

// storageChangedMsg is the constructor for [MsgStorageChanged]
func storageChangedMsg(change session.Change) Msg {
	return Msg{kind: MsgStorageChanged, data: change}
}

// authResultMsg is the constructor for [MsgAuthResult]
func authResultMsg(form *authForm, req auth.Request, resp *models.AuthResponse, err error) Msg {
	return Msg{kind: MsgAuthResult, data: authResult{form: form, req: req, resp: resp, err: err}}
}

// profileRefreshedMsg is the constructor for [MsgProfileRefreshed]
func profileRefreshedMsg(state session.State, err error) Msg {
	return Msg{kind: MsgProfileRefreshed, data: refreshResult{state: state, err: err}}
}

// toastExpiredMsg is the constructor for [MsgToastExpired]
func toastExpiredMsg(id uint64) Msg {
	return Msg{kind: MsgToastExpired, data: id}
}
