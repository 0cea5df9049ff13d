package tui

import (
	"fmt"
	"strings"
)

// renderEventsPanel renders the capped notification list, highest priority
// first.
func (m Model) renderEventsPanel(w, h int) string {
	contentW := w - 4
	if contentW < 10 {
		contentW = 10
	}
	contentH := h - 4 // borders + title
	if contentH < 1 {
		contentH = 1
	}

	var lines []string
	lines = append(lines, panelTitleStyle.Render("Events"))

	if m.events == nil {
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render("No events"))
		return m.panelStyle(FocusEvents).
			Width(w - 2).
			Height(h - 2).
			Render(strings.Join(lines, "\n"))
	}

	sorted := m.events.Sorted()
	if len(sorted) == 0 {
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render("No events"))
		return m.panelStyle(FocusEvents).
			Width(w - 2).
			Height(h - 2).
			Render(strings.Join(lines, "\n"))
	}

	focused := m.panelFocus == FocusEvents

	visible := contentH - 1
	if visible < 1 {
		visible = 1
	}
	start := 0
	if focused && m.eventCursor >= visible {
		start = m.eventCursor - visible + 1
	}
	end := start + visible
	if end > len(sorted) {
		end = len(sorted)
	}

	for i := start; i < end; i++ {
		e := sorted[i]
		text := e.Description
		if len(e.Buttons) > 0 {
			text += " [" + e.Buttons[0].Label + "]"
		}
		line := truncate(text, contentW)
		if focused && i == m.eventCursor {
			line = cursorStyle.Render(line)
		} else {
			line = styleFor(e.Category).Render(line)
		}
		lines = append(lines, line)
	}

	if len(sorted) > visible {
		lines = append(lines, dimStyle.Render(scrollPos(start+1, end, len(sorted))))
	}

	return m.panelStyle(FocusEvents).
		Width(w - 2).
		Height(h - 2).
		Render(strings.Join(lines, "\n"))
}

// scrollPos returns a string like "[3-12/30]".
func scrollPos(start, end, total int) string {
	return fmt.Sprintf("[%d-%d/%d]", start, end, total)
}
