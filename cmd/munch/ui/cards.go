package ui

import (
	"strings"

	"munch/internal/api"

	"github.com/charmbracelet/glamour"
)

// NewMarkdownRenderer builds the renderer used for recommendation rationales.
// Failure is not fatal; cards fall back to plain text.
func NewMarkdownRenderer(theme Theme, width int) *glamour.TermRenderer {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// RenderCard renders one restaurant.
func RenderCard(s Styles, r api.Restaurant, md *glamour.TermRenderer, width int) string {
	var lines []string

	title := s.CardTitle.Render(r.Name)
	if r.Price != "" {
		title += " " + s.Muted.Render(r.Price)
	}
	lines = append(lines, title)
	lines = append(lines, s.Rating.Render(r.RatingLine()))

	if addr := r.Address(); addr != "" {
		lines = append(lines, s.Muted.Render(addr))
	}
	if len(r.Categories) > 0 {
		tags := make([]string, 0, len(r.Categories))
		for _, c := range r.Categories {
			tags = append(tags, c.Title)
		}
		lines = append(lines, s.Subtitle.Render(strings.Join(tags, " · ")))
	}
	if r.Phone != "" {
		lines = append(lines, s.Muted.Render(r.Phone))
	}
	if r.Rationale != "" {
		lines = append(lines, renderRationale(r.Rationale, md))
	}
	if r.URL != "" {
		lines = append(lines, s.Link.Render(r.URL))
	}

	card := s.Card
	if width > 4 {
		card = card.Width(width - 2)
	}
	return card.Render(strings.Join(lines, "\n"))
}

func renderRationale(text string, md *glamour.TermRenderer) string {
	if md == nil {
		return text
	}
	out, err := md.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// RenderLane renders a lane heading followed by its cards, a loading line, or
// the empty notice.
func RenderLane(s Styles, title string, items []api.Restaurant, loading bool, spinner string, md *glamour.TermRenderer, width int) string {
	var b strings.Builder
	b.WriteString(s.LaneTitle.Render(title))
	b.WriteString("\n")

	switch {
	case loading:
		b.WriteString(spinner + " " + s.Muted.Render("Loading..."))
	case len(items) == 0:
		b.WriteString(s.Muted.Render("Nothing to show yet."))
	default:
		for i, r := range items {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(RenderCard(s, r, md, width))
		}
	}
	return s.Lane.Render(b.String())
}

// JoinLanes stacks rendered lanes with a divider between them.
func JoinLanes(s Styles, lanes []string, width int) string {
	return strings.Join(lanes, "\n"+s.RenderDivider(width)+"\n")
}
