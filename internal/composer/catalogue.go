package composer

import (
	"sync"

	"munch/internal/filter"
)

// SeedCities is the city catalogue every session starts with.
var SeedCities = []string{"San Francisco", "New York", "Chicago", "Tokyo"}

// CuisineOptions are the selectable cuisines. Values are lowercase tokens.
var CuisineOptions = filter.Options([]string{"Italian", "Japanese", "Indian", "French", "Mexican"}, true)

// PriceOptions are the selectable price tiers.
var PriceOptions = filter.Options([]string{"$", "$$", "$$$", "$$$$"}, false)

// Catalogue is the session's city list. Entries are only ever appended.
type Catalogue struct {
	mu     sync.RWMutex
	cities []string
}

// NewCatalogue returns a catalogue holding the seed cities.
func NewCatalogue() *Catalogue {
	return &Catalogue{cities: append([]string(nil), SeedCities...)}
}

// Add appends name unless it is already present. It reports whether it was added.
func (c *Catalogue) Add(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.cities {
		if existing == name {
			return false
		}
	}
	c.cities = append(c.cities, name)
	return true
}

// Names returns the cities in catalogue order.
func (c *Catalogue) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.cities...)
}

// Options returns the cities as filter options. Labels and values are the
// place names themselves.
func (c *Catalogue) Options() []filter.Option {
	return filter.Options(c.Names(), false)
}
