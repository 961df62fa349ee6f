// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/speedtype/internal/identity"
	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/session"
)

const saveTimeout = 5 * time.Second

const signInNotice = "Sign in to save your results (set --user or SPEEDTYPE_USER)"

// ResultSink persists finalized results.
type ResultSink interface {
	SaveResult(ctx context.Context, r model.Result) error
}

type tickMsg struct {
	sessionID string
}

type savedMsg struct {
	resultID string
}

type saveErrMsg struct {
	err error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	engine   *session.Engine
	sink     ResultSink
	identity identity.Provider
	keys     keyMap
	help     help.Model
	interval time.Duration

	session session.Session
	result  *model.Result

	notice    string
	noticeErr bool

	width  int
	height int
}

// NewModel constructs a typing TUI model for an initial duration. A nil sink
// disables persistence.
func NewModel(engine *session.Engine, sink ResultSink, ident identity.Provider, d model.Duration) (*Model, error) {
	if ident == nil {
		ident = identity.Static("")
	}
	m := &Model{
		engine:   engine,
		sink:     sink,
		identity: ident,
		keys:     defaultKeyMap(),
		help:     help.New(),
		interval: time.Second,
	}
	if err := m.resetSession(d); err != nil {
		return nil, err
	}
	return m, nil
}

// Session returns the current session.
func (m *Model) Session() session.Session {
	return m.session
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg)
	case savedMsg:
		m.setNotice("Test result saved!", false)
		return m, nil
	case saveErrMsg:
		logErrf("failed to save result: %v\n", msg.err)
		m.setNotice("Failed to save test result", true)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Duration):
		m.cycleDuration()
		return m, nil
	case key.Matches(msg, m.keys.Restart):
		if m.session.Status() == model.StatusCompleted {
			if err := m.resetSession(m.session.Duration()); err != nil {
				logErrf("failed to start new test: %v\n", err)
			}
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		typed := []rune(m.session.TypedText())
		if len(typed) == 0 {
			return m, nil
		}
		return m, m.applyInput(string(typed[:len(typed)-1]))
	case tea.KeySpace:
		return m, m.applyInput(m.session.TypedText() + " ")
	case tea.KeyRunes:
		var cmds []tea.Cmd
		for _, r := range msg.Runes {
			if m.session.Status() == model.StatusCompleted {
				break
			}
			cmds = append(cmds, m.applyInput(m.session.TypedText()+string(r)))
		}
		return m, tea.Batch(cmds...)
	default:
		return m, nil
	}
}

// applyInput feeds the full buffer value to the engine and returns the
// commands the transition requires: starting the countdown on the first
// keystroke and persisting a result on completion.
func (m *Model) applyInput(value string) tea.Cmd {
	prev := m.session.Status()
	next, res := m.engine.ApplyInput(m.session, value)
	m.setSession(next)
	if res != nil {
		return m.handleResult(res)
	}
	if prev == model.StatusIdle && next.Status() == model.StatusActive {
		return m.scheduleTick()
	}
	return nil
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	if msg.sessionID != m.session.ID() || m.session.Status() != model.StatusActive {
		return nil
	}
	next, res := m.engine.Tick(m.session)
	m.setSession(next)
	if res != nil {
		return m.handleResult(res)
	}
	return m.scheduleTick()
}

func (m *Model) scheduleTick() tea.Cmd {
	id := m.session.ID()
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{sessionID: id}
	})
}

func (m *Model) handleResult(res *model.Result) tea.Cmd {
	m.result = res
	if m.sink == nil {
		m.setNotice("Results are not saved in this mode", false)
		return nil
	}
	userID, ok := m.identity.UserID(context.Background())
	if !ok {
		m.setNotice(signInNotice, false)
		return nil
	}
	m.setNotice("Saving result...", false)
	return saveResultCmd(m.sink, res.WithUser(userID))
}

func saveResultCmd(sink ResultSink, r model.Result) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := sink.SaveResult(ctx, r); err != nil {
			return saveErrMsg{err: err}
		}
		return savedMsg{resultID: r.ID}
	}
}

// cycleDuration switches to the next duration. The selector is inert once
// typing has started.
func (m *Model) cycleDuration() {
	if m.session.Status() != model.StatusIdle {
		return
	}
	if err := m.resetSession(m.session.Duration().Next()); err != nil {
		logErrf("failed to change duration: %v\n", err)
	}
}

func (m *Model) resetSession(d model.Duration) error {
	s, err := m.engine.Create(d)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	m.setSession(s)
	m.result = nil
	m.notice = ""
	m.noticeErr = false
	return nil
}

func (m *Model) setSession(s session.Session) {
	m.session = s
	m.keys.Duration.SetEnabled(s.Status() == model.StatusIdle)
	m.keys.Restart.SetEnabled(s.Status() == model.StatusCompleted)
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
