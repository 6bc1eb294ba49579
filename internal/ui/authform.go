package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/waslerr/internal/auth"
)

// formAction is what the [Model] must do after the form handled a key.
type formAction int

const (
	formNone formAction = iota
	formSubmit
	formLeave
)

type fieldInput struct {
	field auth.Field
	label string
	input textinput.Model
}

// authForm binds text inputs to an [auth.Controller]. One is created per visit
// to the auth route.
type authForm struct {
	ctrl   *auth.Controller
	keys   formKeyMap
	inputs []fieldInput
	focus  int
}

func newAuthForm(opts auth.ControllerOpts) *authForm {
	f := &authForm{ctrl: auth.NewController(opts), keys: newFormKeyMap()}
	f.rebuild()
	return f
}

func formFields(mode auth.Mode) []auth.Field {
	if mode == auth.ModeRegister {
		return []auth.Field{auth.FieldName, auth.FieldEmail, auth.FieldPassword, auth.FieldConfirmPassword}
	}
	return []auth.Field{auth.FieldEmail, auth.FieldPassword}
}

func fieldLabel(mode auth.Mode, f auth.Field) (label, placeholder string) {
	switch f {
	case auth.FieldName:
		return "Full Name", "Enter your full name"
	case auth.FieldEmail:
		return "Email", "Enter your email"
	case auth.FieldPassword:
		if mode == auth.ModeRegister {
			return "Password", "Create a password"
		}
		return "Password", "Enter your password"
	default:
		return "Confirm Password", "Confirm your password"
	}
}

func fieldValue(s auth.FormState, f auth.Field) string {
	switch f {
	case auth.FieldName:
		return s.Name
	case auth.FieldEmail:
		return s.Email
	case auth.FieldPassword:
		return s.Password
	default:
		return s.ConfirmPassword
	}
}

// rebuild recreates the inputs for the controller's mode and values.
func (f *authForm) rebuild() {
	state := f.ctrl.State()
	fields := formFields(state.Mode)
	f.inputs = make([]fieldInput, len(fields))
	for i, field := range fields {
		label, placeholder := fieldLabel(state.Mode, field)
		in := textinput.New()
		in.Placeholder = placeholder
		in.Prompt = "› "
		in.CharLimit = 128
		in.Width = 36
		in.EchoCharacter = '•'
		in.SetValue(fieldValue(state, field))
		f.inputs[i] = fieldInput{field: field, label: label, input: in}
	}
	f.focus = 0
	f.refocus()
	f.applyEcho()
}

func (f *authForm) refocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].input.Focus()
		} else {
			f.inputs[i].input.Blur()
		}
	}
	return cmd
}

// applyEcho masks password inputs unless their visibility flag is set.
func (f *authForm) applyEcho() {
	state := f.ctrl.State()
	for i := range f.inputs {
		in := &f.inputs[i].input
		switch f.inputs[i].field {
		case auth.FieldPassword:
			in.EchoMode = echoMode(state.ShowPassword)
		case auth.FieldConfirmPassword:
			in.EchoMode = echoMode(state.ShowConfirmPassword)
		default:
			in.EchoMode = textinput.EchoNormal
		}
	}
}

func echoMode(visible bool) textinput.EchoMode {
	if visible {
		return textinput.EchoNormal
	}
	return textinput.EchoPassword
}

func (f *authForm) handleKey(msg tea.KeyMsg) (tea.Cmd, formAction) {
	switch {
	case key.Matches(msg, f.keys.back):
		return nil, formLeave
	case key.Matches(msg, f.keys.submit):
		return nil, formSubmit
	case key.Matches(msg, f.keys.next):
		f.focus = (f.focus + 1) % len(f.inputs)
		return f.refocus(), formNone
	case key.Matches(msg, f.keys.prev):
		f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
		return f.refocus(), formNone
	case key.Matches(msg, f.keys.showPassword):
		f.ctrl.TogglePassword()
		f.applyEcho()
		return nil, formNone
	case key.Matches(msg, f.keys.showConfirm):
		f.ctrl.ToggleConfirmPassword()
		f.applyEcho()
		return nil, formNone
	case key.Matches(msg, f.keys.switchPage):
		next := auth.ModeRegister
		if f.ctrl.State().Mode == auth.ModeRegister {
			next = auth.ModeLogin
		}
		f.ctrl.SwitchPage(next)
		f.rebuild()
		return textinput.Blink, formNone
	}
	return f.update(msg), formNone
}

// update forwards a message to the focused input and syncs its value.
func (f *authForm) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	cur := &f.inputs[f.focus]
	var cmd tea.Cmd
	cur.input, cmd = cur.input.Update(msg)
	if cur.input.Value() != fieldValue(f.ctrl.State(), cur.field) {
		f.ctrl.SetField(cur.field, cur.input.Value())
	}
	return cmd
}

// reset clears the inputs after the controller reset its form.
func (f *authForm) reset() {
	focus := f.focus
	f.rebuild()
	if focus < len(f.inputs) {
		f.focus = focus
		f.refocus()
	}
}

func (f *authForm) view(p *Palette) string {
	state := f.ctrl.State()

	var b strings.Builder
	if state.Mode == auth.ModeRegister {
		b.WriteString(p.title.Render("Join the Beat") + "\n")
		b.WriteString(p.muted.Render("Create your music account") + "\n\n")
	} else {
		b.WriteString(p.title.Render("Welcome Back") + "\n")
		b.WriteString(p.muted.Render("Sign in to your music world") + "\n\n")
	}

	for i, fi := range f.inputs {
		label := fi.label
		if i == f.focus {
			label = p.accent.Render(label)
		}
		b.WriteString(label + "\n")
		b.WriteString(fi.input.View() + "\n\n")
	}

	button := "Sign In"
	if state.Mode == auth.ModeRegister {
		button = "Create Account"
	}
	if state.Submitting {
		button = "Please wait…"
	}
	b.WriteString(lipgloss.NewStyle().Padding(0, 2).Background(p.accentColor).Bold(true).Render(button) + "\n\n")

	if state.Mode == auth.ModeRegister {
		b.WriteString(p.muted.Render("Already have an account? ") + p.accent.Render("ctrl+n") + p.muted.Render(" to sign in") + "\n")
	} else {
		b.WriteString(p.muted.Render("Don't have an account? ") + p.accent.Render("ctrl+n") + p.muted.Render(" to sign up") + "\n")
	}

	hints := []key.Binding{f.keys.next, f.keys.submit, f.keys.showPassword}
	if state.Mode == auth.ModeRegister {
		hints = append(hints, f.keys.showConfirm)
	}
	hints = append(hints, f.keys.back)
	return b.String() + "\n" + renderHints(p, hints)
}

func renderHints(p *Palette, bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return p.help.Render(strings.Join(parts, " • "))
}
