package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/veldtgame/veldt/internal/game"
)

type panelDimensions struct {
	diplomacyW, diplomacyH int
	eventsW, eventsH       int
	attacksW, attacksH     int
	headerH                int
}

const (
	minWidth  = 40
	minHeight = 10

	headerHeight = 1
)

func computeDimensions(totalW, totalH int) panelDimensions {
	if totalW < minWidth {
		totalW = minWidth
	}
	if totalH < minHeight {
		totalH = minHeight
	}

	d := panelDimensions{
		headerH: headerHeight,
	}

	usableH := totalH - headerHeight
	if usableH < 4 {
		usableH = 4
	}

	d.diplomacyW = totalW * 30 / 100
	if d.diplomacyW < 20 {
		d.diplomacyW = 20
	}
	d.attacksW = totalW * 30 / 100
	if d.attacksW < 20 {
		d.attacksW = 20
	}
	d.eventsW = totalW - d.diplomacyW - d.attacksW
	if d.eventsW < 20 {
		d.eventsW = 20
	}

	d.diplomacyH = usableH
	d.eventsH = usableH
	d.attacksH = usableH

	return d
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	focusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63"))

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("69"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183"))

	diplomacyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))
)

// categoryStyles maps message categories to their display styles.
var categoryStyles = map[game.MessageCategory]lipgloss.Style{
	game.CategoryInfo:      infoStyle,
	game.CategorySuccess:   successStyle,
	game.CategoryWarn:      warnStyle,
	game.CategoryError:     errorStyle,
	game.CategoryChat:      chatStyle,
	game.CategoryDiplomacy: diplomacyStyle,
	game.CategoryAttack:    errorStyle,
}

func styleFor(c game.MessageCategory) lipgloss.Style {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	return dimStyle
}

func (m Model) panelStyle(focus PanelFocus) lipgloss.Style {
	if m.panelFocus == focus {
		return focusedBorderStyle
	}
	return panelBorderStyle
}

func (m Model) renderDashboard() string {
	dims := computeDimensions(m.width, m.height)

	header := m.renderHeader()

	diplomacy := m.renderDiplomacyPanel(dims.diplomacyW, dims.diplomacyH)
	events := m.renderEventsPanel(dims.eventsW, dims.eventsH)
	attacks := m.renderAttacksPanel(dims.attacksW, dims.attacksH)

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, diplomacy, events, attacks)

	return lipgloss.JoinVertical(lipgloss.Left, header, mainContent)
}

func (m Model) renderHeader() string {
	title := " veldt"

	var status string
	if m.engine != nil {
		status = fmt.Sprintf(" tick %d", m.engine.Tick())
		if m.engine.InSpawnPhase() {
			status += " [spawning]"
		}
		if f := m.engine.Focus(); f != "" {
			status += " view: " + f
		}
	}

	help := m.headerHelp()

	padding := m.width - lipgloss.Width(title) - lipgloss.Width(status) - lipgloss.Width(help)
	if padding < 0 {
		padding = 0
	}

	return headerStyle.Width(m.width).Render(title + status + strings.Repeat(" ", padding) + help)
}

func (m Model) headerHelp() string {
	switch m.panelFocus {
	case FocusEvents:
		return "d:Dismiss  g:Action  Tab:Next  q:Quit "
	case FocusAttacks:
		return "c:Cancel  g:Go to  Tab:Next  q:Quit "
	default:
		return "a:Accept  r:Reject  g:Go to  d:Dismiss  Tab:Next  q:Quit "
	}
}

// truncate cuts a plain string to at most maxW characters, marking the cut
// with an ellipsis.
func truncate(s string, maxW int) string {
	if len(s) <= maxW {
		return s
	}
	if maxW <= 3 {
		return s[:maxW]
	}
	return s[:maxW-3] + "..."
}
