// Package nav models the client's navigable location: the path plus the search
// string that encodes the submitted query. It is the only durable, shareable
// representation of search state.
package nav

import (
	"net/url"
	"strings"
	"sync"
)

// Location is a path and a raw query string without the leading '?'.
type Location struct {
	Path     string
	RawQuery string
}

// Root is the home location.
var Root = Location{Path: "/"}

// ParseLocation accepts "/", "/?query=x", "?query=x" or a full URL.
func ParseLocation(s string) Location {
	s = strings.TrimSpace(s)
	if s == "" {
		return Root
	}
	if strings.HasPrefix(s, "?") {
		return Location{Path: "/", RawQuery: s[1:]}
	}
	u, err := url.Parse(s)
	if err != nil {
		return Root
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return Location{Path: path, RawQuery: u.RawQuery}
}

// Search is the raw query with a leading '?', or "" when empty.
func (l Location) Search() string {
	if l.RawQuery == "" {
		return ""
	}
	return "?" + l.RawQuery
}

func (l Location) String() string {
	path := l.Path
	if path == "" {
		path = "/"
	}
	return path + l.Search()
}

// Navigator is what the composer needs: where we are and a way to go somewhere.
type Navigator interface {
	Current() Location
	Navigate(path, rawQuery string) bool
}

// History is a back/forward-free stack of visited locations.
type History struct {
	mu      sync.Mutex
	entries []Location
}

// NewHistory starts at initial.
func NewHistory(initial Location) *History {
	if initial.Path == "" {
		initial.Path = "/"
	}
	return &History{entries: []Location{initial}}
}

// Current returns the location on top of the stack.
func (h *History) Current() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Navigate pushes a new entry and reports whether the search string changed,
// which is the only thing that triggers a results refetch.
func (h *History) Navigate(path, rawQuery string) bool {
	if path == "" {
		path = "/"
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.entries[len(h.entries)-1]
	h.entries = append(h.entries, Location{Path: path, RawQuery: rawQuery})
	return prev.RawQuery != rawQuery
}

// Replace swaps the current entry without growing the stack.
func (h *History) Replace(loc Location) bool {
	if loc.Path == "" {
		loc.Path = "/"
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.entries[len(h.entries)-1]
	h.entries[len(h.entries)-1] = loc
	return prev.RawQuery != loc.RawQuery
}

// Back pops one entry. It reports false when already at the first entry.
func (h *History) Back() (Location, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) < 2 {
		return h.entries[0], false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return h.entries[len(h.entries)-1], true
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// ClearQueryOnRestore drops the query of a restored location so a relaunch starts
// from a clean home screen. It reports whether anything was cleared.
func ClearQueryOnRestore(h *History) bool {
	cur := h.Current()
	if cur.RawQuery == "" {
		return false
	}
	h.Replace(Location{Path: cur.Path})
	return true
}
