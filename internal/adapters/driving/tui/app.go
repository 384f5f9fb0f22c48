package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/recall/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/recall/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/recall/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	prompt     *input.Prompt
	viewport   viewport.Model
	status     *status.Bar
	transcript transcript

	// err holds the last request error.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	vp := viewport.New(80, 20)
	vp.KeyMap = viewport.KeyMap{
		PageUp:   km.ScrollUp,
		PageDown: km.ScrollDown,
	}

	a := &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   s,
		keymap:   km,
		prompt:   input.NewPrompt(s),
		viewport: vp,
		status:   status.NewBar(s, km),
	}
	a.transcript.add(entryInfo, helpText)
	a.refresh()

	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.prompt.Init(),
		tea.SetWindowTitle("recall"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.AnswerReceived:
		a.handleAnswer(msg)
		return a, nil

	case messages.IngestCompleted:
		a.handleIngest(msg)
		return a, nil

	case messages.ErrorOccurred:
		a.fail(msg.Err)
		return a, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(key, a.keymap.Clear):
		a.transcript.clear()
		a.refresh()
		return a, nil

	case keymap.Matches(key, a.keymap.ScrollUp), keymap.Matches(key, a.keymap.ScrollDown):
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	case keymap.Matches(key, a.keymap.Submit):
		if a.status.Busy() {
			return a, nil
		}
		line := a.prompt.Value()
		a.prompt.Reset()
		return a, a.submit(line)
	}

	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	return a, cmd
}

// submit runs one prompt line and returns the command that performs it.
func (a *App) submit(line string) tea.Cmd {
	cmd := parseCommand(line)

	switch cmd.kind {
	case commandNone:
		return nil

	case commandQuit:
		return tea.Quit

	case commandHelp:
		a.transcript.add(entryInfo, helpText)
		a.refresh()
		return nil

	case commandClear:
		a.transcript.clear()
		a.refresh()
		return nil

	case commandUnknown:
		a.transcript.add(entryWarning, fmt.Sprintf("Unknown command %s. Type /help for commands.", cmd.arg))
		a.refresh()
		return nil

	case commandNote:
		return a.startIngest("note", domain.Note{Text: cmd.arg})

	case commandURL:
		return a.startIngest(cmd.arg, domain.URLRef{URL: cmd.arg})
	}

	a.transcript.add(entryQuestion, cmd.arg)
	a.status.SetState(status.StateThinking)
	a.refresh()
	return a.askCmd(cmd.arg)
}

func (a *App) startIngest(label string, content domain.Content) tea.Cmd {
	a.status.SetState(status.StateIngesting)
	a.refresh()
	return a.ingestCmd(label, content)
}

func (a *App) askCmd(question string) tea.Cmd {
	query := a.ports.Query
	ctx := a.ctx
	return func() tea.Msg {
		answer, err := query.Query(ctx, question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

func (a *App) ingestCmd(label string, content domain.Content) tea.Cmd {
	ingest := a.ports.Ingest
	ctx := a.ctx
	return func() tea.Msg {
		result, err := ingest.Ingest(ctx, content)
		return messages.IngestCompleted{Label: label, Result: result, Err: err}
	}
}

func (a *App) handleAnswer(msg messages.AnswerReceived) {
	if msg.Err != nil {
		a.fail(msg.Err)
		return
	}

	a.err = nil
	a.transcript.addAnswer(msg.Answer)
	a.status.SetState(status.StateReady)
	a.status.SetMessage(fmt.Sprintf("%d sources", len(msg.Answer.Sources)))
	a.refresh()
}

func (a *App) handleIngest(msg messages.IngestCompleted) {
	if msg.Err != nil {
		a.fail(msg.Err)
		return
	}

	a.err = nil
	r := msg.Result
	a.transcript.add(entrySuccess, fmt.Sprintf("Stored %s as %s (%d chunks)", msg.Label, r.ItemID, r.Chunks))
	if r.Dropped > 0 {
		a.transcript.add(entryWarning, fmt.Sprintf("%d chunks beyond the per-item limit were dropped", r.Dropped))
	}
	a.status.SetState(status.StateReady)
	a.refresh()
}

func (a *App) fail(err error) {
	a.err = err
	a.transcript.add(entryError, err.Error())
	a.status.SetState(status.StateError)
	a.status.SetMessage(errorLabel(err))
	a.refresh()
}

// errorLabel is the short status bar text for err.
func errorLabel(err error) string {
	switch domain.KindOf(err) {
	case domain.ErrValidation:
		return "invalid input"
	case domain.ErrTransient:
		return "service unavailable, try again"
	case domain.ErrConfiguration:
		return "not configured"
	case domain.ErrStorage:
		return "storage failure"
	}
	return "request failed"
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (a *App) refresh() {
	a.viewport.SetContent(a.transcript.render(a.styles, a.viewport.Width))
	a.viewport.GotoBottom()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	header := a.styles.Title.Render("recall") + a.styles.Muted.Render("  ask your knowledge base")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		a.viewport.View(),
		a.prompt.View(),
		a.status.View(),
	)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// Transcript returns the rendered transcript without viewport clipping.
func (a *App) Transcript() string {
	return strings.TrimSpace(a.transcript.render(a.styles, max(a.width, 20)))
}

// SetDimensions sets the terminal dimensions and lays out the components.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.prompt.SetWidth(width)
	a.status.SetWidth(width)

	// header line, prompt box and status line
	used := 1 + a.prompt.Height() + 1
	a.viewport.Width = width
	a.viewport.Height = max(height-used, 1)
	a.refresh()
}
