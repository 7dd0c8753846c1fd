package query

import (
	"slices"
	"strings"

	"github.com/mesh-intelligence/skilllog/pkg/types"
)

// FacetSet lists the values the category and tag pickers offer.
type FacetSet struct {
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

// Facets collects the distinct non-empty categories and tag tokens of
// records, each sorted.
func Facets(records []types.Skill) FacetSet {
	categories := make(map[string]struct{})
	tags := make(map[string]struct{})
	for _, s := range records {
		if s.Category != "" {
			categories[s.Category] = struct{}{}
		}
		for _, t := range s.TagList() {
			tags[t] = struct{}{}
		}
	}
	return FacetSet{Categories: sortedKeys(categories), Tags: sortedKeys(tags)}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// PinStars renders a pin level as five stars, filled up to level.
func PinStars(level int) string {
	level = types.CoercePinned(level)
	return strings.Repeat("★", level) + strings.Repeat("☆", types.MaxPinLevel-level)
}
