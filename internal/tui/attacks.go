package tui

import (
	"fmt"
	"strings"
)

// renderAttacksPanel renders the live attack and boat projections:
// incoming first, then outgoing, then transport boats.
func (m Model) renderAttacksPanel(w, h int) string {
	contentW := w - 4
	if contentW < 10 {
		contentW = 10
	}

	var lines []string
	lines = append(lines, panelTitleStyle.Render("Attacks"))

	if m.events == nil {
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render("No activity"))
		return m.panelStyle(FocusAttacks).
			Width(w - 2).
			Height(h - 2).
			Render(strings.Join(lines, "\n"))
	}

	incoming := m.events.Incoming()
	outgoing := m.events.Outgoing()
	boats := m.events.Boats()

	row := 0
	focused := m.panelFocus == FocusAttacks

	if len(incoming) > 0 {
		lines = append(lines, dimStyle.Render("Incoming"))
		for _, a := range incoming {
			line := truncate(fmt.Sprintf("%s  %d troops", a.Name, a.Attack.Troops), contentW)
			if focused && row == m.attackCursor {
				line = cursorStyle.Render(line)
			} else {
				line = errorStyle.Render(line)
			}
			lines = append(lines, line)
			row++
		}
	}

	if len(outgoing) > 0 {
		lines = append(lines, dimStyle.Render("Outgoing"))
		for _, a := range outgoing {
			line := truncate(fmt.Sprintf("-> %s  %d troops", a.Name, a.Attack.Troops), contentW)
			if focused && row == m.attackCursor {
				line = cursorStyle.Render(line)
			} else {
				line = warnStyle.Render(line)
			}
			lines = append(lines, line)
			row++
		}
	}

	if len(boats) > 0 {
		lines = append(lines, dimStyle.Render("Boats"))
		for _, b := range boats {
			line := truncate(fmt.Sprintf("boat #%d  %d troops", b.Unit.ID, b.Unit.Troops), contentW)
			if focused && row == m.attackCursor {
				line = cursorStyle.Render(line)
			} else {
				line = infoStyle.Render(line)
			}
			lines = append(lines, line)
			row++
		}
	}

	if row == 0 {
		lines = append(lines, dimStyle.Render("No activity"))
	}

	return m.panelStyle(FocusAttacks).
		Width(w - 2).
		Height(h - 2).
		Render(strings.Join(lines, "\n"))
}
