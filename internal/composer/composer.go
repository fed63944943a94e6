// Package composer owns the search draft: the free-text term, the three filter
// selections and the city catalogue. Submitting turns the draft into a
// navigation; the composer never fetches anything itself.
package composer

import (
	"strings"

	"munch/internal/filter"
	"munch/internal/logging"
	"munch/internal/nav"
	"munch/internal/search"
	"munch/internal/status"
)

var examples = []string{
	"I need a quiet, high-end spot for a client lunch with a fintech CEO",
	"What are some vibrant downtown restaurants that can host a team dinner with strong vegetarian options?",
	"Best private-room sushi venues for a big group of 18 consultants next Tuesday",
	"I need a lakefront restaurant for a post-project celebration tonight",
}

// Composer is the draft behind the search bar. It is not safe for concurrent
// use; the TUI touches it only from its update loop.
type Composer struct {
	nav       nav.Navigator
	status    *status.Channel
	catalogue *Catalogue

	term     string
	cuisines []string
	prices   []string
	cities   []string
}

// New creates an empty composer. The status channel gates submission and
// filter edits while a recommendation is being computed.
func New(n nav.Navigator, ch *status.Channel) *Composer {
	return &Composer{
		nav:       n,
		status:    ch,
		catalogue: NewCatalogue(),
	}
}

// Term returns the draft term as typed.
func (c *Composer) Term() string { return c.term }

// Cuisines returns the selected cuisine values.
func (c *Composer) Cuisines() []string { return c.cuisines }

// Prices returns the selected price tiers.
func (c *Composer) Prices() []string { return c.prices }

// Cities returns the selected cities.
func (c *Composer) Cities() []string { return c.cities }

// Catalogue returns the session's city catalogue.
func (c *Composer) Catalogue() *Catalogue { return c.catalogue }

// Busy reports whether a recommendation computation is in flight. Filters and
// submit are disabled while it is.
func (c *Composer) Busy() bool {
	return c.status != nil && c.status.LoadingRecommendations()
}

// Draft is the query the composer would submit right now.
func (c *Composer) Draft() search.Query {
	return search.Query{
		Term:     c.term,
		Cuisines: c.cuisines,
		Prices:   c.prices,
		Cities:   c.cities,
	}
}

// CanSubmit reports whether Submit would navigate.
func (c *Composer) CanSubmit() bool {
	return strings.TrimSpace(c.term) != "" && !c.Busy()
}

// Hydrate loads the draft from a submitted query, so a restored or shared
// location shows the filters it encodes.
func (c *Composer) Hydrate(q search.Query) {
	c.term = q.Term
	c.cuisines = q.Cuisines
	c.prices = q.Prices
	c.cities = q.Cities
	for _, city := range q.Cities {
		c.catalogue.Add(city)
	}
}

// EditTerm replaces the draft term. A non-empty value that is only whitespace
// is rejected and leaves the draft untouched.
func (c *Composer) EditTerm(v string) bool {
	if v != "" && strings.TrimSpace(v) == "" {
		return false
	}
	c.term = v
	return true
}

// SetCuisines replaces the cuisine selection unless the filters are disabled.
func (c *Composer) SetCuisines(sel []string) bool {
	return c.setSelection(&c.cuisines, sel)
}

// SetPrices replaces the price selection unless the filters are disabled.
func (c *Composer) SetPrices(sel []string) bool {
	return c.setSelection(&c.prices, sel)
}

// SetCities replaces the city selection unless the filters are disabled.
func (c *Composer) SetCities(sel []string) bool {
	return c.setSelection(&c.cities, sel)
}

func (c *Composer) setSelection(dst *[]string, sel []string) bool {
	if c.Busy() {
		return false
	}
	*dst = append([]string(nil), sel...)
	return true
}

// Submit navigates to the home location with the draft encoded as its query
// and reports whether it did. Nothing happens while the term is blank or a
// recommendation is in flight.
func (c *Composer) Submit() bool {
	if strings.TrimSpace(c.term) == "" {
		return false
	}
	if c.Busy() {
		logging.ComposerDebug("submit ignored: recommendations loading")
		return false
	}
	c.navigate(c.Draft())
	return true
}

// ChooseExample submits one of the example queries as if it had been typed.
// Only the loading guard applies.
func (c *Composer) ChooseExample(text string) bool {
	if c.Busy() {
		return false
	}
	c.term = text
	c.navigate(c.Draft())
	return true
}

// Examples returns the example queries offered on an empty search.
func (c *Composer) Examples() []string {
	return append([]string(nil), examples...)
}

// ShowExamples reports whether loc carries no submitted query.
func ShowExamples(loc nav.Location) bool {
	return !search.Parse(loc.RawQuery).HasTerm()
}

// NeedsEnrichment reports whether detecting the user's city could still add
// anything: neither the location nor the draft names a city.
func (c *Composer) NeedsEnrichment(loc nav.Location) bool {
	if search.Parse(loc.RawQuery).HasCity() {
		return false
	}
	return len(c.cities) == 0
}

// ApplyDetectedCity folds a detected city into the draft and navigates with it.
// The precondition is checked again against the location as it is now, since
// the user may have picked a city while detection was running.
func (c *Composer) ApplyDetectedCity(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if !c.NeedsEnrichment(c.nav.Current()) {
		logging.ComposerDebug("detected city %q ignored: city already chosen", name)
		return false
	}

	if c.catalogue.Add(name) {
		logging.Composer("added detected city %q to catalogue", name)
	}
	c.cities = []string{name}
	c.navigate(c.Draft())
	return true
}

// CityOptions returns the catalogue as filter options.
func (c *Composer) CityOptions() []filter.Option {
	return c.catalogue.Options()
}

func (c *Composer) navigate(q search.Query) {
	raw := q.Encode()
	changed := c.nav.Navigate("/", raw)
	logging.Nav("navigate /?%s (search changed=%v)", raw, changed)
}
