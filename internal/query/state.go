package query

import (
	"strings"
	"sync"
)

// State holds the view selectors of one browsing session. Every setter that
// changes the view notifies the registered observers with the new snapshot;
// setting a selector to its current value notifies nobody.
type State struct {
	mu        sync.Mutex
	view      View
	observers []func(View)
}

// NewState returns a session state at DefaultView.
func NewState() *State {
	return &State{view: DefaultView()}
}

// OnChange registers fn to run after each change.
func (s *State) OnChange(fn func(View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Snapshot returns the current view.
func (s *State) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SetTab selects the tab.
func (s *State) SetTab(tab Tab) error {
	tab, err := ParseTab(string(tab))
	if err != nil {
		return err
	}
	s.update(func(v *View) { v.Tab = tab })
	return nil
}

// SetCategory selects a category; empty or blank clears the filter.
func (s *State) SetCategory(category string) {
	category = strings.TrimSpace(category)
	s.update(func(v *View) { v.Category = category })
}

// SetTag selects a tag; empty or blank clears the filter.
func (s *State) SetTag(tag string) {
	tag = strings.TrimSpace(tag)
	s.update(func(v *View) { v.Tag = tag })
}

// SetSort selects the sort order.
func (s *State) SetSort(order SortOrder) error {
	order, err := ParseSort(string(order))
	if err != nil {
		return err
	}
	s.update(func(v *View) { v.Sort = order })
	return nil
}

// SetPin selects the exact pin level shown by the pinned tab, or PinAny.
func (s *State) SetPin(level int) error {
	if err := validPinFilter(level); err != nil {
		return err
	}
	s.update(func(v *View) { v.Pin = level })
	return nil
}

// ClearFilters resets the category and tag filters.
func (s *State) ClearFilters() {
	s.update(func(v *View) {
		v.Category = ""
		v.Tag = ""
	})
}

// update applies fn and, if the view changed, notifies observers outside
// the lock so they may read the state again.
func (s *State) update(fn func(v *View)) {
	s.mu.Lock()
	before := s.view
	fn(&s.view)
	after := s.view
	observers := append(([]func(View))(nil), s.observers...)
	s.mu.Unlock()

	if after == before {
		return
	}
	for _, o := range observers {
		o(after)
	}
}
