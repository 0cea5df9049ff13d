package tui

import (
	"fmt"
	"strings"
)

// renderDiplomacyPanel renders pending alliance requests, diplomatic
// notices, and the ally roster. Hidden content is replaced by a spawn
// placeholder until the overlay reveals itself.
func (m Model) renderDiplomacyPanel(w, h int) string {
	contentW := w - 4
	if contentW < 10 {
		contentW = 10
	}

	var lines []string
	lines = append(lines, panelTitleStyle.Render("Diplomacy"))

	if m.diplomacy == nil || !m.diplomacy.Visible() {
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render("Waiting for spawn..."))
		return m.panelStyle(FocusDiplomacy).
			Width(w - 2).
			Height(h - 2).
			Render(strings.Join(lines, "\n"))
	}

	row := 0
	focused := m.panelFocus == FocusDiplomacy

	reqs := m.diplomacy.Requests()
	if len(reqs) > 0 {
		lines = append(lines, dimStyle.Render("Requests"))
		for _, r := range reqs {
			line := truncate(fmt.Sprintf("%s wants an alliance", r.Requestor.Name), contentW)
			if focused && row == m.diplomacyCursor {
				line = cursorStyle.Render(line)
			} else {
				line = diplomacyStyle.Render(line)
			}
			lines = append(lines, line)
			row++
		}
	}

	notices := m.diplomacy.Notices()
	if len(notices) > 0 {
		lines = append(lines, dimStyle.Render("Notices"))
		for _, n := range notices {
			line := truncate(n.Description, contentW)
			if focused && row == m.diplomacyCursor {
				line = cursorStyle.Render(line)
			} else {
				line = styleFor(n.Category).Render(line)
			}
			lines = append(lines, line)
			row++
		}
	}

	allies := m.diplomacy.Allies()
	lines = append(lines, dimStyle.Render(fmt.Sprintf("Allies (%d)", len(allies))))
	for _, a := range allies {
		marker := "  "
		if a.Player != nil && !a.Player.Alive {
			marker = "x "
		}
		lines = append(lines, truncate(marker+a.Name, contentW))
	}

	if len(reqs) == 0 && len(notices) == 0 && len(allies) == 0 {
		lines = append(lines, dimStyle.Render("All quiet"))
	}

	return m.panelStyle(FocusDiplomacy).
		Width(w - 2).
		Height(h - 2).
		Render(strings.Join(lines, "\n"))
}
