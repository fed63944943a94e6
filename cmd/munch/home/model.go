// Package home is the interactive search screen: the search bar with its three
// filters on top and the three result lanes below.
//
// All state changes happen in Update. Lane fetches and city detection run as
// tea.Cmds and report back as messages.
package home

import (
	"context"
	"fmt"
	"strings"

	"munch/cmd/munch/ui"
	"munch/internal/composer"
	"munch/internal/geo"
	"munch/internal/logging"
	"munch/internal/nav"
	"munch/internal/results"
	"munch/internal/search"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusCuisine
	focusPrice
	focusCity
	focusExamples
	focusResults
)

// laneResultMsg carries a finished lane fetch back into the loop.
type laneResultMsg results.Result

// cityDetectedMsg is the outcome of the one-shot city detection.
type cityDetectedMsg struct {
	place string
	err   error
}

// Deps are the collaborators the screen drives.
type Deps struct {
	Ctx      context.Context
	History  *nav.History
	Composer *composer.Composer
	Board    *results.Board
	// Enricher may be nil when city detection is turned off.
	Enricher *geo.Enricher
	Styles   ui.Styles
}

// Model is the home screen.
type Model struct {
	deps Deps

	input    textarea.Model
	cuisine  ui.MultiSelect
	price    ui.MultiSelect
	city     ui.MultiSelect
	spinner  spinner.Model
	viewport viewport.Model
	md       *glamour.TermRenderer

	focus         focusArea
	exampleCursor int
	width         int
	height        int

	// lastSearch is the search string the board was last planned for.
	lastSearch string
	pending    []tea.Cmd

	// exec turns a lane task into a command. Tests replace it.
	exec func(results.Task) tea.Cmd
}

// New builds the screen for the history's current location and plans the
// first fetch cycle.
func New(d Deps) Model {
	return newModel(d, nil)
}

func newModel(d Deps, exec func(results.Task) tea.Cmd) Model {
	if d.Ctx == nil {
		d.Ctx = context.Background()
	}
	s := d.Styles
	comp := d.Composer

	loc := d.History.Current()
	comp.Hydrate(search.Parse(loc.RawQuery))

	ta := textarea.New()
	ta.Placeholder = "Describe the occasion... (Enter to search)"
	ta.ShowLineNumbers = false
	ta.Prompt = "│ "
	ta.CharLimit = 500
	ta.SetHeight(1)
	ta.SetWidth(80)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.SetValue(comp.Term())
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Spinner

	m := Model{
		deps:     d,
		input:    ta,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		md:       ui.NewMarkdownRenderer(s.Theme, 76),
		cuisine:  ui.NewMultiSelect("Cuisine", composer.CuisineOptions, func(sel []string) { comp.SetCuisines(sel) }),
		price:    ui.NewMultiSelect("Price", composer.PriceOptions, func(sel []string) { comp.SetPrices(sel) }),
		city:     ui.NewMultiSelect("City", comp.CityOptions(), func(sel []string) { comp.SetCities(sel) }),
	}
	m.exec = exec
	if m.exec == nil {
		m.exec = runTask
	}

	m.pending = append(m.pending, m.plan(loc)...)
	if d.Enricher != nil && comp.NeedsEnrichment(loc) {
		m.pending = append(m.pending, detectCity(d.Ctx, d.Enricher))
	}
	m.syncWidgets()
	m.layout()
	return m
}

// Init starts the first cycle, city detection and the animations.
func (m Model) Init() tea.Cmd {
	cmds := append([]tea.Cmd{textarea.Blink, m.spinner.Tick}, m.pending...)
	return tea.Batch(cmds...)
}

func detectCity(ctx context.Context, e *geo.Enricher) tea.Cmd {
	return func() tea.Msg {
		place, err := e.Detect(ctx)
		return cityDetectedMsg{place: place, err: err}
	}
}

func runTask(t results.Task) tea.Cmd {
	return func() tea.Msg {
		return laneResultMsg(t.Run())
	}
}

// plan starts a fetch cycle for loc and returns the lane commands.
func (m *Model) plan(loc nav.Location) []tea.Cmd {
	cycle := m.deps.Board.Plan(m.deps.Ctx, loc)
	m.lastSearch = loc.RawQuery
	logging.Results("cycle %s for %s: %d lanes", cycle.ID, loc.String(), len(cycle.Tasks))

	cmds := make([]tea.Cmd, 0, len(cycle.Tasks))
	for _, t := range cycle.Tasks {
		cmds = append(cmds, m.exec(t))
	}
	return cmds
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(max(20, msg.Width-6))
		m.viewport.Width = msg.Width
		m.md = ui.NewMarkdownRenderer(m.deps.Styles.Theme, max(20, msg.Width-8))

	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			m.deps.Board.Stop()
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)

	case laneResultMsg:
		m.deps.Board.Complete(results.Result(msg))

	case cityDetectedMsg:
		if msg.err == nil && msg.place != "" {
			m.deps.Composer.ApplyDetectedCity(msg.place)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.followLocation()...)
	m.syncWidgets()
	m.layout()
	return m, tea.Batch(cmds...)
}

// followLocation refetches when the search string moved since the last plan.
func (m *Model) followLocation() []tea.Cmd {
	loc := m.deps.History.Current()
	if loc.RawQuery == m.lastSearch {
		return nil
	}
	return m.plan(loc)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return nil, true
	case "tab":
		m.moveFocus(1)
		return nil, false
	case "shift+tab":
		m.moveFocus(-1)
		return nil, false
	case "ctrl+b":
		m.back()
		return nil, false
	}

	switch m.focus {
	case focusInput:
		return m.handleInputKey(msg), false
	case focusCuisine:
		m.cuisine, _ = m.cuisine.Update(msg)
	case focusPrice:
		m.price, _ = m.price.Update(msg)
	case focusCity:
		m.city, _ = m.city.Update(msg)
	case focusExamples:
		m.handleExampleKey(msg)
	case focusResults:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd, false
	}
	return nil, false
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "enter" {
		m.deps.Composer.Submit()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if !m.deps.Composer.EditTerm(m.input.Value()) {
		m.input.SetValue(m.deps.Composer.Term())
	}
	return cmd
}

func (m *Model) handleExampleKey(msg tea.KeyMsg) {
	examples := m.deps.Composer.Examples()
	switch msg.String() {
	case "up", "k":
		if m.exampleCursor > 0 {
			m.exampleCursor--
		}
	case "down", "j":
		if m.exampleCursor < len(examples)-1 {
			m.exampleCursor++
		}
	case "enter", " ":
		if m.deps.Composer.ChooseExample(examples[m.exampleCursor]) {
			m.input.SetValue(m.deps.Composer.Term())
		}
	}
}

// back pops the location history and reloads the draft from it.
func (m *Model) back() {
	loc, ok := m.deps.History.Back()
	if !ok {
		return
	}
	logging.Nav("back to %s", loc.String())
	m.deps.Composer.Hydrate(search.Parse(loc.RawQuery))
	m.input.SetValue(m.deps.Composer.Term())
}

func (m *Model) focusOrder() []focusArea {
	order := []focusArea{focusInput, focusCuisine, focusPrice, focusCity}
	if composer.ShowExamples(m.deps.History.Current()) {
		order = append(order, focusExamples)
	}
	return append(order, focusResults)
}

func (m *Model) moveFocus(delta int) {
	order := m.focusOrder()
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	m.setFocus(order[idx])
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	m.input.Blur()
	m.cuisine.Blur()
	m.price.Blur()
	m.city.Blur()

	switch f {
	case focusInput:
		m.input.Focus()
	case focusCuisine:
		m.cuisine.Focus()
	case focusPrice:
		m.price.Focus()
	case focusCity:
		m.city.Focus()
	}
}

// syncWidgets pushes composer and status state into the controlled widgets.
func (m *Model) syncWidgets() {
	comp := m.deps.Composer
	busy := comp.Busy()

	m.cuisine.SetSelected(comp.Cuisines())
	m.price.SetSelected(comp.Prices())
	m.city.SetOptions(comp.CityOptions())
	m.city.SetSelected(comp.Cities())

	m.cuisine.SetDisabled(busy)
	m.price.SetDisabled(busy)
	m.city.SetDisabled(busy)

	if m.focus == focusExamples && !composer.ShowExamples(m.deps.History.Current()) {
		m.setFocus(focusInput)
	}
}

func (m *Model) layout() {
	top := m.topView()
	h := m.height - lipgloss.Height(top) - 2
	if h < 3 {
		h = 3
	}
	m.viewport.Height = h
	m.viewport.SetContent(m.lanesView())
}

// View implements tea.Model.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.topView(),
		m.viewport.View(),
		m.footerView(),
	)
}

func (m Model) topView() string {
	s := m.deps.Styles
	loc := m.deps.History.Current()

	var b strings.Builder
	b.WriteString(s.Header.Render("munch"))
	b.WriteString(" ")
	b.WriteString(s.Muted.Render(loc.String()))
	b.WriteString("\n")

	frame := s.Input
	if m.focus == focusInput {
		frame = s.Focused
	}
	b.WriteString(frame.Render(m.input.View()))
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.cuisine.View(s), " ", m.price.View(s), " ", m.city.View(s), " ", m.submitView(),
	))

	if composer.ShowExamples(loc) {
		b.WriteString("\n")
		b.WriteString(s.Subtitle.Render("Try one of these:"))
		for i, ex := range m.deps.Composer.Examples() {
			b.WriteString("\n")
			line := s.Example.Render(ex)
			if m.focus == focusExamples && i == m.exampleCursor {
				line = s.Cursor.Render("> ") + line
			} else {
				line = "  " + line
			}
			b.WriteString(line)
		}
	}
	return b.String()
}

func (m Model) submitView() string {
	s := m.deps.Styles
	switch {
	case m.deps.Composer.Busy():
		return m.spinner.View() + " " + s.Disabled.Render("Thinking...")
	case m.deps.Composer.CanSubmit():
		return s.Prompt.Render("⏎ Search")
	default:
		return s.Disabled.Render("⏎ Search")
	}
}

func (m Model) lanesView() string {
	s := m.deps.Styles
	board := m.deps.Board
	width := m.width
	if width == 0 {
		width = 80
	}

	titles := map[results.Lane]string{
		results.PartnerApproved: "Partner approved",
		results.NearYou:         fmt.Sprintf("Near you in %s", board.City()),
		results.Recommended:     "Recommended for you",
	}

	var parts []string
	for _, lane := range results.Lanes {
		st := board.Lane(lane)
		if lane == results.Recommended && !st.Loading && !board.Query().HasTerm() {
			continue
		}
		parts = append(parts, ui.RenderLane(s, titles[lane], st.Items, st.Loading, m.spinner.View(), m.md, width))
	}
	return ui.JoinLanes(s, parts, width)
}

func (m Model) footerView() string {
	return m.deps.Styles.Footer.Render("tab focus • enter search/select • a toggle all • ctrl+b back • ctrl+c quit")
}
