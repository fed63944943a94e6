// Package filter implements the multi-valued selector semantics used by the
// cuisine, price and city filters. Everything here is synchronous and pure.
package filter

import "strings"

// Option is one selectable entry. Value is the canonical form used for comparison
// and serialization; Label is for display only.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Options builds an option list whose labels are the given names. When lower is set
// the value is the lowercased name (cuisines), otherwise the name itself.
func Options(names []string, lower bool) []Option {
	out := make([]Option, 0, len(names))
	for _, n := range names {
		v := n
		if lower {
			v = strings.ToLower(n)
		}
		out = append(out, Option{Label: n, Value: v})
	}
	return out
}

// Values returns the option values in catalogue order.
func Values(options []Option) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		out = append(out, o.Value)
	}
	return out
}

// IndexOf returns the position of value in options, or -1.
func IndexOf(options []Option, value string) int {
	for i, o := range options {
		if o.Value == value {
			return i
		}
	}
	return -1
}

// Contains reports whether v is selected.
func Contains(sel []string, v string) bool {
	for _, s := range sel {
		if s == v {
			return true
		}
	}
	return false
}

// Toggle removes v from sel when present, otherwise appends it. The input slice
// is never modified.
func Toggle(sel []string, v string) []string {
	out := make([]string, 0, len(sel)+1)
	found := false
	for _, s := range sel {
		if s == v {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, v)
	}
	return out
}

// ToggleAll clears the selection when every option is selected, otherwise selects
// all options in catalogue order.
func ToggleAll(options []Option, sel []string) []string {
	if AllSelected(options, sel) {
		return []string{}
	}
	return Values(options)
}

// AllSelected mirrors the toggle-all condition: sizes are compared, not members.
func AllSelected(options []Option, sel []string) bool {
	return len(sel) == len(options)
}

// Count is the badge number. It is always derived from the selection.
func Count(sel []string) int {
	return len(sel)
}
