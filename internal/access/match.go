package access

import "strings"

// MatchPath reports whether currentPath lies at or below nodePath.
//
// Matching is done on whole "/"-delimited segments, so "/payment" matches
// "/payment" and "/payment/42" but not "/payment-types". Query strings and
// fragments are ignored and empty segments collapse. The root path "/" only
// matches itself, and an empty nodePath never matches.
func MatchPath(nodePath, currentPath string) bool {
	if strings.TrimSpace(nodePath) == "" {
		return false
	}

	want := Segments(nodePath)
	got := Segments(currentPath)
	if len(want) == 0 {
		return len(got) == 0
	}
	if len(got) < len(want) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

// Segments splits a path into its non-empty segments.
func Segments(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	raw := strings.Split(path, "/")
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// SamePath reports whether two paths name the same route once normalised.
func SamePath(a, b string) bool {
	sa, sb := Segments(a), Segments(b)
	if len(sa) != len(sb) {
		return false
	}
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}
