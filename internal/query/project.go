package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/mesh-intelligence/skilllog/pkg/types"
)

// MonthKeyLayout formats a month bucket key.
const MonthKeyLayout = "2006-01"

// MonthGroup is one bucket of the monthly tab.
type MonthGroup struct {
	Key    string        `json:"month"` // YYYY-MM in the projection's location.
	Skills []types.Skill `json:"skills"`
}

// Projection is the derived view of a record snapshot.
type Projection struct {
	View   View          `json:"view"`
	Skills []types.Skill `json:"skills"`           // Filtered and sorted.
	Months []MonthGroup  `json:"months,omitempty"` // Set only for TabMonthly.
}

// Project filters, sorts and (for the monthly tab) groups records. The
// input slice is not modified. A nil loc groups by UTC.
func Project(records []types.Skill, v View, loc *time.Location) Projection {
	skills := Filter(records, v)
	SortByCreated(skills, v.Sort)

	p := Projection{View: v, Skills: skills}
	if v.Tab == TabMonthly {
		p.Months = GroupByMonth(skills, v.Sort, loc)
	}
	return p
}

// Filter returns the records that pass the category, tag and tab filters,
// in input order.
func Filter(records []types.Skill, v View) []types.Skill {
	// Blank selectors select everything.
	category := strings.TrimSpace(v.Category)
	tag := types.NormalizeTag(v.Tag)

	out := make([]types.Skill, 0, len(records))
	for _, s := range records {
		if category != "" && s.Category != category {
			continue
		}
		if tag != "" && !s.HasTag(tag) {
			continue
		}
		if v.Tab == TabPinned {
			if s.Pinned <= types.PinNone {
				continue
			}
			if v.Pin != PinAny && s.Pinned != v.Pin {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// SortByCreated orders skills by CreatedAt in place. The sort is stable, so
// records created at the same instant keep their relative order. Any order
// other than SortDesc sorts ascending.
func SortByCreated(skills []types.Skill, order SortOrder) {
	slices.SortStableFunc(skills, func(a, b types.Skill) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if order == SortDesc {
			return -c
		}
		return c
	})
}

// GroupByMonth buckets skills by the calendar month of CreatedAt in loc.
// Buckets are ordered by key in the given direction and each keeps the
// order of skills.
func GroupByMonth(skills []types.Skill, order SortOrder, loc *time.Location) []MonthGroup {
	if loc == nil {
		loc = time.UTC
	}

	index := make(map[string]int)
	var groups []MonthGroup
	for _, s := range skills {
		key := s.CreatedAt.In(loc).Format(MonthKeyLayout)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, MonthGroup{Key: key})
		}
		groups[i].Skills = append(groups[i].Skills, s)
	}

	slices.SortStableFunc(groups, func(a, b MonthGroup) int {
		if order == SortDesc {
			return cmp.Compare(b.Key, a.Key)
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return groups
}
