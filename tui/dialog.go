package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// prompt is a one-line path dialog used to choose a folder or a save file
type prompt struct {
	title  string
	input  textinput.Model
	active bool
}

func newPrompt() prompt {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Width = 60
	return prompt{input: ti}
}

func (p *prompt) open(title, value string) tea.Cmd {
	p.title = title
	p.input.SetValue(value)
	p.input.CursorEnd()
	p.active = true
	return p.input.Focus()
}

func (p *prompt) close() {
	p.active = false
	p.input.Blur()
}

// update feeds a key to the dialog. done is true once the dialog closed;
// value is empty when the user cancelled.
func (p *prompt) update(msg tea.KeyMsg) (value string, done bool, cmd tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value = strings.TrimSpace(p.input.Value())
		p.close()
		return value, true, nil
	case tea.KeyEsc, tea.KeyCtrlC:
		p.close()
		return "", true, nil
	}

	p.input, cmd = p.input.Update(msg)
	return "", false, cmd
}

func (p prompt) view() string {
	var b strings.Builder
	b.WriteString(dialogTitleStyle.Render(p.title) + "\n\n")
	b.WriteString(p.input.View() + "\n\n")
	b.WriteString(statusStyle.Render("Enter confirm  Esc cancel"))
	return dialogStyle.Render(b.String())
}

// messageBox is a blocking informational dialog; any confirm key dismisses it
type messageBox struct {
	title   string
	text    string
	warning bool
}

func (m *messageBox) show(title, text string, warning bool) {
	m.title = title
	m.text = text
	m.warning = warning
}

func (m *messageBox) dismiss() {
	*m = messageBox{}
}

func (m messageBox) visible() bool {
	return m.title != ""
}

func (m messageBox) view() string {
	icon := "ℹ "
	style := dialogStyle
	if m.warning {
		icon = "⚠ "
		style = warningDialogStyle
	}
	body := dialogTitleStyle.Render(icon+m.title) + "\n\n" + m.text + "\n\n" + statusStyle.Render("Enter OK")
	return style.Render(body)
}

// dismissKey reports whether msg closes a message box
func dismissKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
		return true
	}
	return false
}
