// Package results drives the three result lanes from the current location.
//
// Every search-string change starts a new cycle: the location is parsed, lane
// loading flags are set, and one Task per lane is handed back to the caller to
// run wherever it likes (a tea.Cmd, an errgroup). Finished tasks come back
// through Complete. Only the newest cycle may write to the board.
package results

import (
	"context"
	"fmt"
	"sync"

	"munch/internal/api"
	"munch/internal/logging"
	"munch/internal/nav"
	"munch/internal/search"
	"munch/internal/status"

	"github.com/google/uuid"
)

// DefaultCity is used when the location names no city.
const DefaultCity = "San Francisco"

// Lane identifies one of the three result lists.
type Lane int

const (
	PartnerApproved Lane = iota
	NearYou
	Recommended
)

// Lanes lists every lane in display order.
var Lanes = []Lane{PartnerApproved, NearYou, Recommended}

func (l Lane) String() string {
	switch l {
	case PartnerApproved:
		return "partner-approved"
	case NearYou:
		return "near-you"
	case Recommended:
		return "recommended"
	default:
		return fmt.Sprintf("lane(%d)", int(l))
	}
}

// LaneState is what a lane renders.
type LaneState struct {
	Items   []api.Restaurant
	Loading bool
}

// Fetcher is the subset of the API client the board needs.
type Fetcher interface {
	PartnerApproved(ctx context.Context) ([]api.Restaurant, error)
	NearYou(ctx context.Context, city string) ([]api.Restaurant, error)
	Recommended(ctx context.Context, p api.RecommendParams) ([]api.Restaurant, error)
}

// Task is one lane fetch belonging to a cycle.
type Task struct {
	Lane       Lane
	Generation uint64
	run        func() ([]api.Restaurant, error)
}

// Run performs the fetch. It blocks and is meant to run off the event loop.
func (t Task) Run() Result {
	items, err := t.run()
	return Result{Lane: t.Lane, Generation: t.Generation, Items: items, Err: err}
}

// Result is a finished Task.
type Result struct {
	Lane       Lane
	Generation uint64
	Items      []api.Restaurant
	Err        error
}

// Cycle is the plan for one location.
type Cycle struct {
	ID         string
	Generation uint64
	Query      search.Query
	// City is the city sent to the API and shown to the user. It falls back
	// to the board's default and is never written back to the location.
	City  string
	Tasks []Task
}

// Board holds the lane states for the current location.
type Board struct {
	fetcher     Fetcher
	status      *status.Channel
	defaultCity string

	pubMu sync.Mutex

	mu         sync.Mutex
	lanes      [3]LaneState
	generation uint64
	cycleID    string
	cancel     context.CancelFunc
	query      search.Query
	city       string
}

// NewBoard creates a board publishing recommendation activity to ch.
func NewBoard(f Fetcher, ch *status.Channel, defaultCity string) *Board {
	if defaultCity == "" {
		defaultCity = DefaultCity
	}
	return &Board{
		fetcher:     f,
		status:      ch,
		defaultCity: defaultCity,
		city:        defaultCity,
	}
}

// Plan starts a new cycle for loc. The previous cycle's requests are
// cancelled and its results will be ignored by Complete.
func (b *Board) Plan(ctx context.Context, loc nav.Location) Cycle {
	b.mu.Lock()
	cycle, loading := b.plan(ctx, loc)
	b.mu.Unlock()

	b.publish(cycle.Generation, loading)
	return cycle
}

// plan resets the lanes for loc and reports whether recommendations are loading. Callers hold b.mu.
func (b *Board) plan(ctx context.Context, loc nav.Location) (Cycle, bool) {
	q := search.Parse(loc.RawQuery)
	city := q.CityParam()
	if city == "" {
		city = b.defaultCity
	}

	if b.cancel != nil {
		b.cancel()
	}
	cycleCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.generation++
	b.cycleID = uuid.NewString()
	b.query = q
	b.city = city
	gen := b.generation

	log := logging.Get(logging.CategoryResults).With("cycle", b.cycleID, "gen", gen)
	log.Debug("planning cycle for %q", loc.String())

	cycle := Cycle{ID: b.cycleID, Generation: gen, Query: q, City: city}

	b.lanes[PartnerApproved].Loading = true
	cycle.Tasks = append(cycle.Tasks, Task{
		Lane:       PartnerApproved,
		Generation: gen,
		run:        func() ([]api.Restaurant, error) { return b.fetcher.PartnerApproved(cycleCtx) },
	})

	b.lanes[NearYou].Loading = true
	cycle.Tasks = append(cycle.Tasks, Task{
		Lane:       NearYou,
		Generation: gen,
		run:        func() ([]api.Restaurant, error) { return b.fetcher.NearYou(cycleCtx, city) },
	})

	if !q.HasTerm() {
		b.lanes[Recommended] = LaneState{}
		log.Debug("no query term, recommended lane cleared")
		return cycle, false
	}

	params := api.RecommendParams{
		Query:    q.Term,
		City:     city,
		Cuisines: q.Cuisines,
		Prices:   q.Prices,
	}
	b.lanes[Recommended] = LaneState{Items: b.lanes[Recommended].Items, Loading: true}
	cycle.Tasks = append(cycle.Tasks, Task{
		Lane:       Recommended,
		Generation: gen,
		run:        func() ([]api.Restaurant, error) { return b.fetcher.Recommended(cycleCtx, params) },
	})
	return cycle, true
}

// Complete applies a finished task. It reports false when the result belongs
// to a superseded cycle and was dropped.
func (b *Board) Complete(r Result) bool {
	b.mu.Lock()
	if r.Generation != b.generation {
		logging.ResultsDebug("dropping %s result from generation %d (current %d)", r.Lane, r.Generation, b.generation)
		b.mu.Unlock()
		return false
	}

	items := r.Items
	if r.Err != nil {
		logging.Get(logging.CategoryResults).With("cycle", b.cycleID).Warn("%s lane failed: %v", r.Lane, r.Err)
		items = nil
	}
	if items == nil {
		items = []api.Restaurant{}
	}

	b.lanes[r.Lane] = LaneState{Items: items, Loading: false}
	b.mu.Unlock()

	if r.Lane == Recommended {
		b.publish(r.Generation, false)
	}
	return true
}

// publish mirrors the recommended lane's loading flag to the status channel
// before Plan or Complete returns. It runs with b.mu released so subscribers
// may read the board, and skips the write once gen has been superseded.
// Subscribers must not call Plan or Complete.
func (b *Board) publish(gen uint64, loading bool) {
	if b.status == nil {
		return
	}
	b.pubMu.Lock()
	defer b.pubMu.Unlock()
	if b.Generation() != gen {
		return
	}
	b.status.Set(loading)
}

// Lane returns a copy of one lane's state.
func (b *Board) Lane(l Lane) LaneState {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.lanes[l]
	s.Items = append([]api.Restaurant(nil), s.Items...)
	return s
}

// Snapshot returns all three lanes in display order.
func (b *Board) Snapshot() []LaneState {
	out := make([]LaneState, 0, len(Lanes))
	for _, l := range Lanes {
		out = append(out, b.Lane(l))
	}
	return out
}

// City is the city the current cycle is showing results for.
func (b *Board) City() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.city
}

// Query is the query parsed for the current cycle.
func (b *Board) Query() search.Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query
}

// Generation is the current cycle's generation.
func (b *Board) Generation() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation
}

// Stop cancels the current cycle's requests.
func (b *Board) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}
