package models

// Candidate is the shape the weighted selector works on: a wheel prize or a
// media item that already passed eligibility filtering. BaseWeight is the
// relative likelihood before any booster multipliers apply; a candidate with
// BaseWeight <= 0 is never selected.
type Candidate struct {
	ID         string   `json:"id"`
	BaseWeight float64  `json:"base_weight"`
	Tags       []string `json:"tags"`
}

// CollapseTags drops duplicate tags, keeping first-seen order. The result is
// a fresh slice; the input is left untouched since callers keep serving it
// (media rows come out of the shared cache).
func CollapseTags(tags []string) []string {
	if len(tags) < 2 {
		return tags
	}

	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
