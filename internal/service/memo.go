package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/mesh-intelligence/skilllog/pkg/types"
)

// MemoTitle is the title every quick memo is saved under. Memos carry no
// category or tags.
const MemoTitle = "ChatMemo"

// draftKey is the scratch key holding the unsent memo.
const draftKey = "chatDraft"

// Draft is an unsent quick memo.
type Draft struct {
	Content string `json:"content"`
	Pinned  int    `json:"pinned"`
}

// UnmarshalJSON accepts drafts written with the pin level as text.
func (d *Draft) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("draft is not an object")
	}
	d.Content = cast.ToString(raw["content"])
	d.Pinned = types.CoercePinned(raw["pinned"])
	return nil
}

// QuickMemo stores content as a new memo and clears the saved draft.
// Content is trimmed and must not be empty.
func (s *Service) QuickMemo(content string, pinned any) (int64, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, fmt.Errorf("%w: memo is empty", types.ErrValidation)
	}
	id, err := s.store.Create(MemoTitle, content, "", "", pinned)
	if err != nil {
		return 0, err
	}
	s.changed()
	if err := s.ClearDraft(); err != nil {
		s.logger.Warn("memo saved but draft not cleared", "id", id, "error", err)
	}
	return id, nil
}

// SaveDraft stores d, replacing any earlier draft.
func (s *Service) SaveDraft(d Draft) error {
	d.Pinned = types.CoercePinned(d.Pinned)
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	return s.store.SetScratch(draftKey, string(data))
}

// LoadDraft returns the saved draft. The bool is false when there is none.
// A draft that cannot be decoded is logged and treated as absent.
func (s *Service) LoadDraft() (Draft, bool, error) {
	value, ok, err := s.store.GetScratch(draftKey)
	if err != nil || !ok {
		return Draft{}, false, err
	}
	var d Draft
	if !strings.HasPrefix(strings.TrimSpace(value), "{") {
		s.logger.Warn("ignoring unreadable draft", "error", "draft is not an object")
		return Draft{}, false, nil
	}
	if err := json.Unmarshal([]byte(value), &d); err != nil {
		s.logger.Warn("ignoring unreadable draft", "error", err)
		return Draft{}, false, nil
	}
	return d, true, nil
}

// ClearDraft removes the saved draft.
func (s *Service) ClearDraft() error {
	return s.store.DeleteScratch(draftKey)
}
