package home

import (
	"context"
	"net/http"
	"testing"

	"munch/cmd/munch/ui"
	"munch/internal/api"
	"munch/internal/composer"
	"munch/internal/nav"
	"munch/internal/results"
	"munch/internal/status"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	nearErr error
}

func (f stubFetcher) PartnerApproved(context.Context) ([]api.Restaurant, error) {
	return []api.Restaurant{{ID: "p", Name: "Partner Place"}}, nil
}

func (f stubFetcher) NearYou(_ context.Context, city string) ([]api.Restaurant, error) {
	if f.nearErr != nil {
		return nil, f.nearErr
	}
	return []api.Restaurant{{ID: "n", Name: "Local in " + city}}, nil
}

func (f stubFetcher) Recommended(_ context.Context, p api.RecommendParams) ([]api.Restaurant, error) {
	return []api.Restaurant{{ID: "r", Name: "Pick for " + p.Query, Rationale: "Fits."}}, nil
}

type harness struct {
	m       Model
	history *nav.History
	status  *status.Channel
	tasks   []results.Task
}

func newHarness(t *testing.T, start string, f results.Fetcher) *harness {
	t.Helper()
	ctx, ch := status.NewScope(context.Background())
	h := &harness{history: nav.NewHistory(nav.ParseLocation(start)), status: ch}

	deps := Deps{
		Ctx:      ctx,
		History:  h.history,
		Composer: composer.New(h.history, ch),
		Board:    results.NewBoard(f, ch, ""),
		Styles:   ui.NewStyles(ui.LightTheme()),
	}
	h.m = newModel(deps, h.record)
	return h
}

func (h *harness) record(t results.Task) tea.Cmd {
	h.tasks = append(h.tasks, t)
	return nil
}

func (h *harness) send(msg tea.Msg) {
	next, _ := h.m.Update(msg)
	h.m = next.(Model)
}

func (h *harness) typeText(s string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// finish runs every recorded task and feeds its result back in.
func (h *harness) finish() {
	tasks := h.tasks
	h.tasks = nil
	for _, t := range tasks {
		h.send(laneResultMsg(t.Run()))
	}
}

func TestNew_HydratesFromLocation(t *testing.T) {
	h := newHarness(t, "/?query=sushi&cuisines=japanese&city=Tokyo", stubFetcher{})

	assert.Equal(t, "sushi", h.m.input.Value())
	assert.Equal(t, []string{"japanese"}, h.m.cuisine.Selected)
	assert.Equal(t, []string{"Tokyo"}, h.m.city.Selected)
	require.Len(t, h.tasks, 3)

	assert.True(t, h.status.LoadingRecommendations())
	assert.True(t, h.m.cuisine.Disabled())

	h.finish()
	assert.False(t, h.status.LoadingRecommendations())
	assert.False(t, h.m.cuisine.Disabled())
	assert.Contains(t, h.m.lanesView(), "Pick for sushi")
	assert.Contains(t, h.m.lanesView(), "Local in Tokyo")
}

func TestTypeAndSubmit(t *testing.T) {
	h := newHarness(t, "/", stubFetcher{})
	h.finish()

	h.typeText("ramen")
	assert.Equal(t, "ramen", h.m.deps.Composer.Term())

	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "/?query=ramen", h.history.Current().String())
	require.Len(t, h.tasks, 3, "navigation must start a full cycle")
	assert.True(t, h.m.price.Disabled())

	// Submitting again while the recommendation is in flight does nothing.
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 2, h.history.Len())

	h.finish()
	assert.Contains(t, h.m.lanesView(), "Pick for ramen")
}

func TestWhitespaceOnlyInputRejected(t *testing.T) {
	h := newHarness(t, "/", stubFetcher{})
	h.typeText("   ")
	assert.Equal(t, "", h.m.input.Value())
	assert.Equal(t, "", h.m.deps.Composer.Term())
}

func TestFilterSelectionThroughWidget(t *testing.T) {
	h := newHarness(t, "/", stubFetcher{})
	h.finish()

	h.send(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusCuisine, h.m.focus)
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.send(tea.KeyMsg{Type: tea.KeyDown})
	h.send(tea.KeyMsg{Type: tea.KeyDown})
	h.send(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"japanese"}, h.m.deps.Composer.Cuisines())
	assert.Equal(t, []string{"japanese"}, h.m.cuisine.Selected)
	assert.Empty(t, h.tasks, "selecting a filter must not navigate")
}

func TestExampleClickSubmits(t *testing.T) {
	h := newHarness(t, "/", stubFetcher{})
	h.finish()

	for h.m.focus != focusExamples {
		h.send(tea.KeyMsg{Type: tea.KeyTab})
	}
	h.send(tea.KeyMsg{Type: tea.KeyDown})
	h.send(tea.KeyMsg{Type: tea.KeyEnter})

	want := h.m.deps.Composer.Examples()[1]
	assert.Equal(t, want, h.m.input.Value())
	assert.Contains(t, h.history.Current().RawQuery, "query=")
	assert.NotEqual(t, focusExamples, h.m.focus, "examples hide once a query is present")
}

func TestCityDetected(t *testing.T) {
	h := newHarness(t, "/", stubFetcher{})
	h.finish()

	h.send(cityDetectedMsg{place: "Kyoto"})
	assert.Equal(t, "/?city=Kyoto", h.history.Current().String())
	assert.Equal(t, []string{"Kyoto"}, h.m.city.Selected)
	assert.Equal(t, "Kyoto", h.m.city.Options[len(h.m.city.Options)-1].Value)
	require.Len(t, h.tasks, 2)

	h.finish()
	assert.Contains(t, h.m.lanesView(), "Near you in Kyoto")
}

func TestCityDetectionFailureIsSilent(t *testing.T) {
	h := newHarness(t, "/", stubFetcher{})
	h.finish()

	h.send(cityDetectedMsg{err: context.DeadlineExceeded})
	assert.Equal(t, "/", h.history.Current().String())
	assert.Empty(t, h.tasks)
}

func TestNearYouFailureRendersEmpty(t *testing.T) {
	h := newHarness(t, "/?city=Tokyo", stubFetcher{nearErr: &api.StatusError{Code: http.StatusInternalServerError}})
	h.finish()

	st := h.m.deps.Board.Lane(results.NearYou)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Items)
	assert.Contains(t, h.m.lanesView(), "Nothing to show")
}

func TestBackRestoresPreviousSearch(t *testing.T) {
	h := newHarness(t, "/?query=tacos", stubFetcher{})
	h.finish()

	h.m.input.SetValue("")
	h.typeText("pho")
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.finish()
	require.Equal(t, "query=pho", h.history.Current().RawQuery)

	h.send(tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.Equal(t, "query=tacos", h.history.Current().RawQuery)
	assert.Equal(t, "tacos", h.m.input.Value())
	require.Len(t, h.tasks, 3)
}

func TestQuit(t *testing.T) {
	h := newHarness(t, "/", stubFetcher{})
	_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
