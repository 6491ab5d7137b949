package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/livingcool/researchfirm/internal/core/domain"
)

// role tags a transcript entry for styling.
type role int

const (
	roleUser role = iota
	roleAssistant
	roleSystem
	roleError
)

// entry is one line group in the transcript.
type entry struct {
	role role
	text string
}

// App is the chat TUI following the Elm architecture. It implements
// tea.Model for use with Bubbletea.
//
// All service calls run synchronously inside Update: the session is owned
// by this model and one interaction completes before the next begins.
type App struct {
	ports   *Ports
	ctx     context.Context
	session *domain.Session
	styles  *Styles

	input    textinput.Model
	viewport viewport.Model

	transcript []entry

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the chat TUI over the given session.
func NewApp(ports *Ports, session *domain.Session) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if session == nil {
		session = domain.NewSession()
	}

	input := textinput.New()
	input.Placeholder = "Ask a question, or /research <topic>, /market <topic>, /ingest <file.pdf>"
	input.Focus()

	app := &App{
		ports:    ports,
		ctx:      context.Background(),
		session:  session,
		styles:   DefaultStyles(),
		input:    input,
		viewport: viewport.New(80, 20),
	}

	if session.HasIndex() {
		app.push(roleSystem, fmt.Sprintf("Active context: %s", session.Topic))
	} else {
		app.push(roleSystem, "No content ingested yet. Start with /research, /market or /ingest.")
	}

	return app, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("researchfirm"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 6
		if a.viewport.Height < 3 {
			a.viewport.Height = 3
		}
		a.input.Width = msg.Width - 6
		a.ready = true
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(a.input.Value())
			a.input.SetValue("")
			if line == "" {
				return a, nil
			}
			a.handleLine(line)
			return a, nil
		}
	}

	var inputCmd, vpCmd tea.Cmd
	a.input, inputCmd = a.input.Update(msg)
	a.viewport, vpCmd = a.viewport.Update(msg)
	return a, tea.Batch(inputCmd, vpCmd)
}

// handleLine dispatches one submitted input line.
func (a *App) handleLine(line string) {
	if strings.HasPrefix(line, "/") {
		a.handleCommand(line)
		return
	}

	a.push(roleUser, line)
	answer, err := a.ports.Chat.Ask(a.ctx, a.session, line)
	if err != nil {
		a.pushErr(err)
		return
	}
	a.push(roleAssistant, answer)
}

func (a *App) handleCommand(line string) {
	cmd, arg := splitCommand(line)

	switch cmd {
	case "/research":
		if arg == "" {
			a.push(roleSystem, "Usage: /research <topic>")
			return
		}
		a.push(roleUser, line)
		report, err := a.ports.Research.Research(a.ctx, a.session, arg)
		if err != nil {
			a.pushErr(err)
			return
		}
		a.push(roleAssistant, report.Content)
		a.push(roleSystem, fmt.Sprintf("Paper ingested. Report %s saved.", report.ID))

	case "/market":
		if arg == "" {
			a.push(roleSystem, "Usage: /market <topic>")
			return
		}
		a.push(roleUser, line)
		report, err := a.ports.Market.Report(a.ctx, a.session, arg)
		if err != nil {
			a.pushErr(err)
			return
		}
		a.push(roleAssistant, report.Content)
		a.push(roleSystem, fmt.Sprintf("Report %s saved.", report.ID))

	case "/ingest":
		if arg == "" {
			a.push(roleSystem, "Usage: /ingest <file.pdf>")
			return
		}
		a.push(roleUser, line)
		doc, err := a.ports.Research.IngestPDF(a.ctx, a.session, arg)
		if err != nil {
			a.pushErr(err)
			return
		}
		a.push(roleSystem, fmt.Sprintf("Ingested %q. Ask away.", doc.Title))

	case "/reset":
		a.session.Reset()
		a.push(roleSystem, "Session cleared.")

	case "/help":
		a.push(roleSystem, helpText)

	default:
		a.push(roleSystem, fmt.Sprintf("Unknown command %s. Try /help.", cmd))
	}
}

const helpText = `Commands:
  /research <topic>   research an academic topic and ingest the paper
  /market <topic>     generate a market report and ingest it
  /ingest <file.pdf>  ingest a local PDF
  /reset              clear the session
  /help               show this help

Anything else is a question answered from the ingested content.
Esc or Ctrl+C quits.`

// push appends a transcript entry and scrolls to the bottom.
func (a *App) push(r role, text string) {
	a.transcript = append(a.transcript, entry{role: r, text: text})
	a.refresh()
}

func (a *App) pushErr(err error) {
	switch {
	case errors.Is(err, domain.ErrNoSession):
		a.push(roleSystem, "Nothing ingested yet. Start with /research, /market or /ingest.")
	case errors.Is(err, domain.ErrNoPapers):
		a.push(roleSystem, "No papers found for that topic.")
	case errors.Is(err, domain.ErrNoArticles):
		a.push(roleSystem, "No usable news articles found for that topic.")
	default:
		a.push(roleError, err.Error())
	}
}

// refresh re-renders the transcript into the viewport.
func (a *App) refresh() {
	var b strings.Builder
	for i := range a.transcript {
		e := &a.transcript[i]
		switch e.role {
		case roleUser:
			b.WriteString(a.styles.User.Render("You: ") + e.text)
		case roleAssistant:
			b.WriteString(a.styles.Assistant.Render(e.text))
		case roleSystem:
			b.WriteString(a.styles.System.Render(e.text))
		case roleError:
			b.WriteString(a.styles.Error.Render("Error: " + e.text))
		}
		b.WriteString("\n\n")
	}
	a.viewport.SetContent(b.String())
	a.viewport.GotoBottom()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	title := a.styles.Title.Render("researchfirm")
	if a.session.Topic != "" {
		title += a.styles.Help.Render("  " + a.session.Topic)
	}

	help := a.styles.Help.Render("Enter to send, /help for commands, Esc to quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		a.viewport.View(),
		a.styles.InputField.Render(a.input.View()),
		help,
	)
}

func splitCommand(line string) (cmd, arg string) {
	parts := strings.SplitN(line, " ", 2)
	cmd = parts[0]
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return cmd, arg
}
