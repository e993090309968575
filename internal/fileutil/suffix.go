package fileutil

import "strings"

// MatchSuffix reports whether name ends with one of suffixes and returns the
// longest suffix that matched. Matching is case-sensitive and compares the
// whole compound suffix, so ".xaml.cs" matches "App.xaml.cs" even though the
// last dot segment alone is ".cs". A name that is nothing but the suffix
// (".cs") has no stem and never matches.
func MatchSuffix(name string, suffixes []string) (string, bool) {
	matched := ""
	for _, s := range suffixes {
		if s == "" || len(name) <= len(s) {
			continue
		}
		if strings.HasSuffix(name, s) && len(s) > len(matched) {
			matched = s
		}
	}
	return matched, matched != ""
}

// SplitSuffix returns name with suffix removed. If name does not end with
// suffix it is returned unchanged.
func SplitSuffix(name, suffix string) string {
	return strings.TrimSuffix(name, suffix)
}
