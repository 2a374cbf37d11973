package parse

import "strings"

// SplitTags splits a comma-joined tag column, dropping blanks and duplicates.
func SplitTags(joined string) []string {
	return NormalizeTags(strings.Split(joined, ","))
}

// JoinTags normalizes tags and joins them for storage.
func JoinTags(tags []string) string {
	return strings.Join(NormalizeTags(tags), ",")
}

// NormalizeTags trims each tag and removes empties and repeats, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
