// Package search defines the submitted search query and its canonical
// location-string codec.
//
// A Query is never stored; it is rebuilt from the location string every time it
// is needed. Empty dimensions are omitted from the encoded form entirely.
package search

import (
	"net/url"
	"strings"
)

// Parameter names in canonical order.
const (
	ParamQuery    = "query"
	ParamCuisines = "cuisines"
	ParamPrices   = "prices"
	ParamCity     = "city"
)

// Query is the submitted state: a free-text term and three filter dimensions.
type Query struct {
	Term     string
	Cuisines []string
	Prices   []string
	Cities   []string
}

// HasTerm reports whether the trimmed term is non-empty.
func (q Query) HasTerm() bool {
	return strings.TrimSpace(q.Term) != ""
}

// HasCity reports whether a city filter is present.
func (q Query) HasCity() bool {
	return len(q.Cities) > 0
}

// CityParam is the comma-joined city list as it travels on the wire.
func (q Query) CityParam() string {
	return strings.Join(q.Cities, ",")
}

// Encode returns the canonical query string (no leading '?'). Keys appear in the
// order query, cuisines, prices, city and values are escaped the way a browser's
// URLSearchParams would.
func (q Query) Encode() string {
	var b strings.Builder
	add := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	if term := strings.TrimSpace(q.Term); term != "" {
		add(ParamQuery, term)
	}
	if len(q.Cuisines) > 0 {
		add(ParamCuisines, strings.Join(q.Cuisines, ","))
	}
	if len(q.Prices) > 0 {
		add(ParamPrices, strings.Join(q.Prices, ","))
	}
	if len(q.Cities) > 0 {
		add(ParamCity, strings.Join(q.Cities, ","))
	}
	return b.String()
}

// Parse rebuilds a Query from a raw query string. A leading '?' is accepted.
// Malformed pairs are skipped rather than rejected, matching how a browser
// location tolerates junk.
func Parse(raw string) Query {
	raw = strings.TrimPrefix(raw, "?")
	values, _ := url.ParseQuery(raw)

	return Query{
		Term:     strings.TrimSpace(values.Get(ParamQuery)),
		Cuisines: splitList(values.Get(ParamCuisines)),
		Prices:   splitList(values.Get(ParamPrices)),
		Cities:   splitList(values.Get(ParamCity)),
	}
}

// splitList reads a comma-separated set. Blank and repeated values are
// dropped; the first occurrence keeps its position.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
