// Package service is the contract between a skill store and whatever
// renders it. It validates input, implements the pin and completion
// toggles, keeps the quick-memo draft, and hands out sessions that
// re-derive their projection only when something changed.
package service

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mesh-intelligence/skilllog/internal/codec"
	"github.com/mesh-intelligence/skilllog/internal/query"
	"github.com/mesh-intelligence/skilllog/pkg/types"
)

// Service wraps a store. It is safe for use by one goroutine at a time per
// store, matching the store's single-writer model.
type Service struct {
	store  types.Store
	loc    *time.Location
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	listeners  []listener
	nextListen uint64 // Id of the most recent listener.
}

type listener struct {
	id uint64
	fn func()
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the time zone used for monthly grouping.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used to stamp imported records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Service over store.
func New(store types.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		loc:    time.Local,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the time zone used for monthly grouping.
func (s *Service) Location() *time.Location { return s.loc }

// Create validates and stores a new skill. Text fields are trimmed and the
// title must not be empty.
func (s *Service) Create(title, content, category, tags string, pinned any) (int64, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, fmt.Errorf("%w: title is required", types.ErrValidation)
	}
	id, err := s.store.Create(title, strings.TrimSpace(content),
		strings.TrimSpace(category), strings.TrimSpace(tags), pinned)
	if err != nil {
		return 0, err
	}
	s.changed()
	s.logger.Debug("created skill", "id", id)
	return id, nil
}

// Edit applies patch to the skill. Text fields in the patch are trimmed; a
// title, when present, must not be empty.
func (s *Service) Edit(id int64, patch types.SkillPatch) error {
	if patch.IsEmpty() {
		return fmt.Errorf("%w: nothing to change", types.ErrValidation)
	}
	patch.Title = trimmed(patch.Title)
	patch.Content = trimmed(patch.Content)
	patch.Category = trimmed(patch.Category)
	patch.Tags = trimmed(patch.Tags)
	if patch.Title != nil && *patch.Title == "" {
		return fmt.Errorf("%w: title is required", types.ErrValidation)
	}
	if err := s.store.Update(id, patch); err != nil {
		return err
	}
	s.changed()
	return nil
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

// Get returns one skill.
func (s *Service) Get(id int64) (types.Skill, error) {
	return s.store.GetByID(id)
}

// List returns every skill.
func (s *Service) List() ([]types.Skill, error) {
	return s.store.GetAll()
}

// Project reads a fresh snapshot and derives v from it.
func (s *Service) Project(v query.View) (query.Projection, error) {
	skills, err := s.store.GetAll()
	if err != nil {
		return query.Projection{}, err
	}
	return query.Project(skills, v, s.loc), nil
}

// CyclePin moves the skill to the next pin level, wrapping from the highest
// level back to unpinned, and returns the new level. Completed skills can
// be pinned this way too.
func (s *Service) CyclePin(id int64) (int, error) {
	sk, err := s.store.GetByID(id)
	if err != nil {
		return 0, err
	}
	next := types.NextPinLevel(sk.Pinned)
	if err := s.store.Update(id, types.SkillPatch{Pinned: next}); err != nil {
		return 0, err
	}
	s.changed()
	s.logger.Debug("cycled pin", "id", id, "from", sk.Pinned, "to", next)
	return next, nil
}

// ToggleCompletion flips the completion flag and returns the new value.
// Completing a skill unpins it; reopening keeps its pin level.
func (s *Service) ToggleCompletion(id int64) (bool, error) {
	sk, err := s.store.GetByID(id)
	if err != nil {
		return false, err
	}
	done := !sk.Completed
	if err := s.store.Update(id, types.SkillPatch{Completed: &done}); err != nil {
		return false, err
	}
	s.changed()
	return done, nil
}

// Delete removes a skill.
func (s *Service) Delete(id int64) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.changed()
	s.logger.Debug("deleted skill", "id", id)
	return nil
}

// Facets lists the categories and tags the pickers offer.
func (s *Service) Facets() (query.FacetSet, error) {
	skills, err := s.store.GetAll()
	if err != nil {
		return query.FacetSet{}, err
	}
	return query.Facets(skills), nil
}

// Export writes every skill to w.
func (s *Service) Export(w io.Writer) (int, error) {
	return codec.Export(s.store, w)
}

// ExportFile writes every skill to path atomically.
func (s *Service) ExportFile(path string) (int, error) {
	n, err := codec.ExportFile(s.store, path)
	if err != nil {
		return 0, err
	}
	s.logger.Info("exported skills", "path", path, "count", n)
	return n, nil
}

// Import upserts the skills of an export document read from r.
func (s *Service) Import(r io.Reader) (codec.ImportResult, error) {
	im := codec.Importer{Now: s.now, Logger: s.logger}
	res, err := im.Import(s.store, r)
	if err != nil {
		return res, err
	}
	s.changed()
	return res, nil
}

// OnChange registers fn to run after every successful mutation. The
// returned func removes it again and may be called more than once.
func (s *Service) OnChange(fn func()) (remove func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextListen++
	id := s.nextListen
	s.listeners = append(s.listeners, listener{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(l listener) bool { return l.id == id })
	}
}

func (s *Service) changed() {
	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()
	for _, l := range listeners {
		l.fn()
	}
}
