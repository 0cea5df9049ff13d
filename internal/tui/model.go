// Package tui renders the diplomacy and event overlays as a terminal
// dashboard. The model owns the tick loop: each refresh advances the
// simulation one tick, runs both overlays, then drains the intent bus so
// the player's actions reach the engine before the next tick.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/veldtgame/veldt/internal/config"
	"github.com/veldtgame/veldt/internal/game"
	"github.com/veldtgame/veldt/internal/overlay"
)

type PanelFocus int

const (
	FocusDiplomacy PanelFocus = iota
	FocusEvents
	FocusAttacks
)

type tickMsg time.Time

// Engine is the authoritative game the dashboard drives forward.
type Engine interface {
	Advance()
	Tick() int64
	InSpawnPhase() bool
	Focus() string
	MyPlayer() *game.Player
}

// DiplomacyProvider is the alliance overlay surface the dashboard reads.
type DiplomacyProvider interface {
	Tick()
	Visible() bool
	Requests() []*overlay.AllianceRequest
	Notices() []*overlay.DisplayEvent
	Allies() []overlay.AllyEntry
	Dismiss(*overlay.DisplayEvent)
}

// EventsProvider is the notification overlay surface the dashboard reads.
type EventsProvider interface {
	Tick()
	Sorted() []*overlay.DisplayEvent
	Incoming() []overlay.AttackEntry
	Outgoing() []overlay.AttackEntry
	Boats() []overlay.BoatEntry
	Dismiss(*overlay.DisplayEvent)
	ClickButton(*overlay.DisplayEvent, int)
}

// IntentDrainer delivers queued intents to their subscribers.
type IntentDrainer interface {
	Drain()
}

type Model struct {
	width    int
	height   int
	keys     KeyMap
	quitting bool

	cfg config.Config

	engine    Engine
	diplomacy DiplomacyProvider
	events    EventsProvider
	intents   IntentDrainer

	panelFocus      PanelFocus
	diplomacyCursor int
	eventCursor     int
	attackCursor    int

	refreshRate time.Duration

	onShutdown func()
}

func NewModel(cfg config.Config, opts ...ModelOption) Model {
	m := Model{
		keys:        DefaultKeyMap(),
		cfg:         cfg,
		refreshRate: time.Duration(cfg.Display.RefreshRateMS) * time.Millisecond,
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

type ModelOption func(*Model)

func WithEngine(e Engine) ModelOption {
	return func(m *Model) { m.engine = e }
}

func WithDiplomacyProvider(d DiplomacyProvider) ModelOption {
	return func(m *Model) { m.diplomacy = d }
}

func WithEventsProvider(e EventsProvider) ModelOption {
	return func(m *Model) { m.events = e }
}

func WithIntentDrainer(d IntentDrainer) ModelOption {
	return func(m *Model) { m.intents = d }
}

func WithOnShutdown(fn func()) ModelOption {
	return func(m *Model) { m.onShutdown = fn }
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.advance()
		return m, m.tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// advance runs one game tick: engine first, then the overlays read the
// fresh batch, then queued intents flow back into the engine.
func (m *Model) advance() {
	if m.engine != nil {
		m.engine.Advance()
	}
	if m.diplomacy != nil {
		m.diplomacy.Tick()
	}
	if m.events != nil {
		m.events.Tick()
	}
	if m.intents != nil {
		m.intents.Drain()
	}
	m.clampCursors()
}

func (m *Model) clampCursors() {
	m.diplomacyCursor = clamp(m.diplomacyCursor, m.diplomacyRows())
	m.eventCursor = clamp(m.eventCursor, m.eventRows())
	m.attackCursor = clamp(m.attackCursor, m.attackRows())
}

func clamp(cursor, rows int) int {
	if cursor >= rows {
		cursor = rows - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if m.onShutdown != nil {
			m.onShutdown()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tab):
		switch m.panelFocus {
		case FocusDiplomacy:
			m.panelFocus = FocusEvents
		case FocusEvents:
			m.panelFocus = FocusAttacks
		default:
			m.panelFocus = FocusDiplomacy
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.panelFocus = FocusDiplomacy
		return m, nil
	}

	switch m.panelFocus {
	case FocusEvents:
		return m.handleEventsKey(msg)
	case FocusAttacks:
		return m.handleAttacksKey(msg)
	default:
		return m.handleDiplomacyKey(msg)
	}
}

// Diplomacy panel rows are the pending requests followed by the notices;
// one cursor spans both.

func (m Model) diplomacyRows() int {
	if m.diplomacy == nil {
		return 0
	}
	return len(m.diplomacy.Requests()) + len(m.diplomacy.Notices())
}

func (m Model) selectedRequest() *overlay.AllianceRequest {
	reqs := m.diplomacy.Requests()
	if m.diplomacyCursor < len(reqs) {
		return reqs[m.diplomacyCursor]
	}
	return nil
}

func (m Model) selectedNotice() *overlay.DisplayEvent {
	reqs := m.diplomacy.Requests()
	idx := m.diplomacyCursor - len(reqs)
	notices := m.diplomacy.Notices()
	if idx >= 0 && idx < len(notices) {
		return notices[idx]
	}
	return nil
}

func (m Model) handleDiplomacyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.diplomacy == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.diplomacyCursor > 0 {
			m.diplomacyCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.diplomacyCursor < m.diplomacyRows()-1 {
			m.diplomacyCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Accept):
		if r := m.selectedRequest(); r != nil && r.OnAccept != nil {
			r.OnAccept()
			m.clampCursors()
		}
		return m, nil

	case key.Matches(msg, m.keys.Reject):
		if r := m.selectedRequest(); r != nil && r.OnReject != nil {
			r.OnReject()
			m.clampCursors()
		}
		return m, nil

	case key.Matches(msg, m.keys.Goto):
		if r := m.selectedRequest(); r != nil && r.OnFocus != nil {
			r.OnFocus()
		} else if n := m.selectedNotice(); n != nil && len(n.Buttons) > 0 && n.Buttons[0].Action != nil {
			n.Buttons[0].Action()
		}
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		if n := m.selectedNotice(); n != nil {
			m.diplomacy.Dismiss(n)
			m.clampCursors()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) eventRows() int {
	if m.events == nil {
		return 0
	}
	return len(m.events.Sorted())
}

func (m Model) selectedEvent() *overlay.DisplayEvent {
	sorted := m.events.Sorted()
	if m.eventCursor >= 0 && m.eventCursor < len(sorted) {
		return sorted[m.eventCursor]
	}
	return nil
}

func (m Model) handleEventsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.events == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.eventCursor > 0 {
			m.eventCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.eventCursor < m.eventRows()-1 {
			m.eventCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		if e := m.selectedEvent(); e != nil {
			m.events.Dismiss(e)
			m.clampCursors()
		}
		return m, nil

	case key.Matches(msg, m.keys.Goto), key.Matches(msg, m.keys.Enter):
		if e := m.selectedEvent(); e != nil && len(e.Buttons) > 0 {
			m.events.ClickButton(e, 0)
			m.clampCursors()
		}
		return m, nil
	}

	return m, nil
}

// Attack panel rows are incoming, then outgoing, then boats.

func (m Model) attackRows() int {
	if m.events == nil {
		return 0
	}
	return len(m.events.Incoming()) + len(m.events.Outgoing()) + len(m.events.Boats())
}

func (m Model) handleAttacksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.events == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.attackCursor > 0 {
			m.attackCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.attackCursor < m.attackRows()-1 {
			m.attackCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		incoming := m.events.Incoming()
		outgoing := m.events.Outgoing()
		idx := m.attackCursor - len(incoming)
		if idx >= 0 && idx < len(outgoing) && outgoing[idx].Cancel != nil {
			outgoing[idx].Cancel()
		}
		return m, nil

	case key.Matches(msg, m.keys.Goto):
		boats := m.events.Boats()
		idx := m.attackCursor - len(m.events.Incoming()) - len(m.events.Outgoing())
		if idx >= 0 && idx < len(boats) && boats[idx].Focus != nil {
			boats[idx].Focus()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return "Leaving the game...\n"
	}

	output := m.renderDashboard()

	if m.height > 0 {
		lines := strings.Split(output, "\n")
		if len(lines) > m.height {
			lines = lines[:m.height]
			output = strings.Join(lines, "\n")
		}
	}

	return output
}
