package domain

import "strings"

// Contains reports whether any field contains query, ignoring case. An empty
// query matches everything.
func Contains(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Filter returns the elements of list for which keep is true. The result is
// never nil.
func Filter[T any](list []T, keep func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Search keeps the elements whose Matches method accepts query.
func Search[T interface{ Matches(string) bool }](list []T, query string) []T {
	return Filter(list, func(v T) bool { return v.Matches(query) })
}
