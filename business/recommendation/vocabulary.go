package recommendation

import (
	"sort"
	"strings"
)

// NormalizeVocabulary lower-cases, deduplicates and sorts accord names.
// Lexicographic order keeps vector positions comparable across runs and
// cache refreshes. Blank names are dropped.
func NormalizeVocabulary(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		lower := normalizeAccordName(name)
		if lower == "" {
			continue
		}
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, lower)
	}

	sort.Strings(out)
	return out
}

func normalizeAccordName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
