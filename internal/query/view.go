package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/skilllog/pkg/types"
)

// Tab selects which records a view shows and how they are arranged.
type Tab string

// Tabs.
const (
	TabAll     Tab = "all"
	TabPinned  Tab = "pinned"
	TabMonthly Tab = "monthly"
)

// SortOrder orders records by creation time.
type SortOrder string

// Sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// PinAny disables the exact pin-level filter of the pinned tab.
const PinAny = 0

// View is an immutable snapshot of the selectors that drive a projection.
type View struct {
	Tab      Tab       `json:"tab"`
	Category string    `json:"category"` // Exact match; empty shows every category.
	Tag      string    `json:"tag"`      // Whole-token match; empty shows every tag.
	Sort     SortOrder `json:"sort"`
	Pin      int       `json:"pin"` // PinAny or 1..MaxPinLevel; only the pinned tab reads it.
}

// DefaultView shows every record, oldest first.
func DefaultView() View {
	return View{Tab: TabAll, Sort: SortAsc, Pin: PinAny}
}

// ParseTab reads a tab name. Matching ignores case and surrounding space.
func ParseTab(s string) (Tab, error) {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabAll:
		return TabAll, nil
	case TabPinned:
		return TabPinned, nil
	case TabMonthly:
		return TabMonthly, nil
	}
	return "", fmt.Errorf("%w: unknown tab %q (want all, pinned or monthly)", types.ErrValidation, s)
}

// ParseSort reads a sort order.
func ParseSort(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	}
	return "", fmt.Errorf("%w: unknown sort order %q (want asc or desc)", types.ErrValidation, s)
}

// ParsePinFilter reads a pin-level filter: "any" (or empty) or a level
// between 1 and MaxPinLevel.
func ParsePinFilter(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "any" {
		return PinAny, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n == PinAny {
		return 0, fmt.Errorf("%w: pin filter %q is not a level (want any or 1..%d)", types.ErrValidation, s, types.MaxPinLevel)
	}
	if err := validPinFilter(n); err != nil {
		return 0, err
	}
	return n, nil
}

func validPinFilter(n int) error {
	if n != PinAny && (n < 1 || n > types.MaxPinLevel) {
		return fmt.Errorf("%w: pin filter %d out of range 1..%d", types.ErrValidation, n, types.MaxPinLevel)
	}
	return nil
}
