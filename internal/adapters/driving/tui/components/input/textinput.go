// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/recall/internal/adapters/driving/tui/styles"
)

// Placeholder is shown in an empty prompt.
const Placeholder = "Ask a question, or /note <text>, /url <url>, /help"

// Prompt wraps a bubbles textinput with the question prompt styling.
type Prompt struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewPrompt creates a focused question prompt.
func NewPrompt(s *styles.Styles) *Prompt {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = Placeholder
	ti.Prompt = "› "
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 54

	return &Prompt{
		textinput: ti,
		styles:    s,
		width:     60,
	}
}

// Init starts the cursor blinking.
func (p *Prompt) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (p *Prompt) Update(msg tea.Msg) (*Prompt, tea.Cmd) {
	var cmd tea.Cmd
	p.textinput, cmd = p.textinput.Update(msg)
	return p, cmd
}

// View renders the prompt.
func (p *Prompt) View() string {
	return p.styles.Prompt.Width(p.width).Render(p.textinput.View())
}

// Height returns the rendered height of the prompt.
func (p *Prompt) Height() int {
	return lipgloss.Height(p.View())
}

// Value returns the current input value.
func (p *Prompt) Value() string {
	return p.textinput.Value()
}

// SetValue sets the input value.
func (p *Prompt) SetValue(value string) {
	p.textinput.SetValue(value)
}

// SetWidth sets the outer width of the prompt.
func (p *Prompt) SetWidth(width int) {
	p.width = max(width-2, 20)
	// Account for border, padding and the prompt marker
	p.textinput.Width = max(p.width-6, 10)
}

// Width returns the current width.
func (p *Prompt) Width() int {
	return p.width
}

// Reset clears the input.
func (p *Prompt) Reset() {
	p.textinput.Reset()
}
