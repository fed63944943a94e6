package ui

import (
	"fmt"
	"strings"

	"munch/internal/filter"

	tea "github.com/charmbracelet/bubbletea"
)

// MultiSelect is a controlled multi-value dropdown. It never changes its own
// selection: toggles are reported through OnChange and the owner pushes the
// accepted selection back with SetSelected.
type MultiSelect struct {
	Title    string
	Options  []filter.Option
	Selected []string
	OnChange func([]string)

	disabled bool
	open     bool
	focused  bool
	// cursor 0 is the toggle-all row; options start at 1.
	cursor int
}

// NewMultiSelect creates a closed, enabled selector.
func NewMultiSelect(title string, options []filter.Option, onChange func([]string)) MultiSelect {
	return MultiSelect{Title: title, Options: options, OnChange: onChange}
}

// SetOptions replaces the option list, keeping the cursor in range.
func (m *MultiSelect) SetOptions(options []filter.Option) {
	m.Options = options
	if m.cursor > len(options) {
		m.cursor = len(options)
	}
}

// SetSelected replaces the displayed selection.
func (m *MultiSelect) SetSelected(sel []string) {
	m.Selected = sel
}

// SetDisabled makes every interaction inert. A disabled selector is closed.
func (m *MultiSelect) SetDisabled(v bool) {
	m.disabled = v
	if v {
		m.open = false
	}
}

// Disabled reports whether the selector is inert.
func (m MultiSelect) Disabled() bool { return m.disabled }

// IsOpen reports whether the option list is expanded.
func (m MultiSelect) IsOpen() bool { return m.open }

// Focus gives the selector keyboard focus.
func (m *MultiSelect) Focus() { m.focused = true }

// Blur removes focus and closes the list.
func (m *MultiSelect) Blur() {
	m.focused = false
	m.open = false
}

// Focused reports whether the selector has focus.
func (m MultiSelect) Focused() bool { return m.focused }

// Count is the badge value.
func (m MultiSelect) Count() int { return filter.Count(m.Selected) }

// Update handles key presses while focused.
func (m MultiSelect) Update(msg tea.Msg) (MultiSelect, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused || m.disabled {
		return m, nil
	}

	if !m.open {
		switch key.String() {
		case "enter", " ", "down":
			m.open = true
			m.cursor = 0
		}
		return m, nil
	}

	switch key.String() {
	case "esc":
		m.open = false
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.Options) {
			m.cursor++
		}
	case " ", "enter", "x":
		m.toggleAtCursor()
	case "a":
		m.emit(filter.ToggleAll(m.Options, m.Selected))
	}
	return m, nil
}

func (m *MultiSelect) toggleAtCursor() {
	if m.cursor == 0 {
		m.emit(filter.ToggleAll(m.Options, m.Selected))
		return
	}
	idx := m.cursor - 1
	if idx < 0 || idx >= len(m.Options) {
		return
	}
	m.emit(filter.Toggle(m.Selected, m.Options[idx].Value))
}

func (m *MultiSelect) emit(next []string) {
	if m.OnChange != nil {
		m.OnChange(next)
	}
}

// View renders the closed control and, when open, the option list.
func (m MultiSelect) View(s Styles) string {
	label := m.Title
	if n := m.Count(); n > 0 {
		label += " " + s.Badge.Render(fmt.Sprintf("%d", n))
	}

	frame := s.Input
	switch {
	case m.disabled:
		label = s.Disabled.Render(m.Title) + m.badgeSuffix(s)
	case m.focused:
		frame = s.Focused
	}

	arrow := "▾"
	if m.open {
		arrow = "▴"
	}
	head := frame.Render(label + " " + arrow)
	if !m.open {
		return head
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteString("\n")

	allLabel := "Select all"
	if filter.AllSelected(m.Options, m.Selected) {
		allLabel = "Clear all"
	}
	b.WriteString(m.row(s, 0, "", allLabel))
	for i, opt := range m.Options {
		b.WriteString("\n")
		mark := "[ ]"
		if filter.Contains(m.Selected, opt.Value) {
			mark = s.Check.Render("[x]")
		}
		b.WriteString(m.row(s, i+1, mark, opt.Label))
	}
	return b.String()
}

func (m MultiSelect) badgeSuffix(s Styles) string {
	if n := m.Count(); n > 0 {
		return " " + s.Disabled.Render(fmt.Sprintf("(%d)", n))
	}
	return ""
}

func (m MultiSelect) row(s Styles, idx int, mark, label string) string {
	cursor := "  "
	if idx == m.cursor {
		cursor = s.Cursor.Render("> ")
	}
	if mark == "" {
		return cursor + s.Muted.Render(label)
	}
	return cursor + mark + " " + label
}
