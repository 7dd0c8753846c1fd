package types

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/spf13/cast"
)

// Record field names as they appear in storage and in export files.
const (
	FieldID        = "id"
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldCategory  = "category"
	FieldTags      = "tags"
	FieldPinned    = "pinned"
	FieldCompleted = "completed"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Pin levels. Zero means not pinned; higher levels rank higher.
const (
	PinNone     = 0
	MaxPinLevel = 5
)

// TimeLayout is the textual timestamp form written to storage and exports:
// UTC ISO-8601 with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Skill is a single log entry.
type Skill struct {
	ID        int64     // Generated by the store; never reused.
	Title     string    // Required, non-empty.
	Content   string    // Free text.
	Category  string    // Empty means uncategorized.
	Tags      string    // Comma-separated tag list; see TagList.
	Pinned    int       // Pin level, 0..MaxPinLevel.
	Completed bool      // Completing a skill resets Pinned to PinNone.
	CreatedAt time.Time // Set once at creation.
	UpdatedAt time.Time // Refreshed on every mutation.

	// Extra holds top-level fields this build does not recognize. They are
	// written back verbatim.
	Extra map[string]json.RawMessage
}

// NewSkill builds an unsaved skill stamped with now. The pin level is
// coerced into range and the skill starts incomplete.
func NewSkill(title, content, category, tags string, pinned any, now time.Time) Skill {
	return Skill{
		Title:     title,
		Content:   content,
		Category:  category,
		Tags:      tags,
		Pinned:    CoercePinned(pinned),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NextPinLevel returns the level after level, wrapping MaxPinLevel back to
// PinNone.
func NextPinLevel(level int) int {
	return (CoercePinned(level) + 1) % (MaxPinLevel + 1)
}

// FormatTime renders t in TimeLayout. Times with sub-millisecond precision,
// which only legacy or imported records carry, keep every digit so a rewrite
// never moves them.
func FormatTime(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()%int(time.Millisecond) != 0 {
		return t.Format(time.RFC3339Nano)
	}
	return t.Format(TimeLayout)
}

// Document returns the record as a field map, unknown fields included. The
// id is omitted; callers that need it add it themselves.
func (s Skill) Document() map[string]any {
	doc := make(map[string]any, len(s.Extra)+8)
	for k, v := range s.Extra {
		doc[k] = v
	}
	doc[FieldTitle] = s.Title
	doc[FieldContent] = s.Content
	doc[FieldCategory] = s.Category
	doc[FieldTags] = s.Tags
	doc[FieldPinned] = s.Pinned
	doc[FieldCompleted] = s.Completed
	// A zero time means the field was never set; writing it would turn
	// "missing" into a real date.
	if !s.CreatedAt.IsZero() {
		doc[FieldCreatedAt] = FormatTime(s.CreatedAt)
	}
	if !s.UpdatedAt.IsZero() {
		doc[FieldUpdatedAt] = FormatTime(s.UpdatedAt)
	}
	return doc
}

// MarshalJSON writes every known field plus Extra. Keys come out sorted and
// text is not HTML-escaped.
func (s Skill) MarshalJSON() ([]byte, error) {
	doc := s.Document()
	doc[FieldID] = s.ID

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON reads a record written by any build. Missing fields take
// their zero value, loosely typed values are coerced (a legacy boolean pin
// becomes level 1), and unknown fields land in Extra.
func (s *Skill) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Skill{}
	for key, value := range raw {
		switch key {
		case FieldID:
			s.ID = coerceID(decodeLoose(value))
		case FieldTitle:
			s.Title = cast.ToString(decodeLoose(value))
		case FieldContent:
			s.Content = cast.ToString(decodeLoose(value))
		case FieldCategory:
			s.Category = cast.ToString(decodeLoose(value))
		case FieldTags:
			s.Tags = cast.ToString(decodeLoose(value))
		case FieldPinned:
			s.Pinned = CoercePinned(decodeLoose(value))
		case FieldCompleted:
			s.Completed = CoerceCompleted(decodeLoose(value))
		case FieldCreatedAt:
			s.CreatedAt, _ = ParseTime(decodeLoose(value))
		case FieldUpdatedAt:
			s.UpdatedAt, _ = ParseTime(decodeLoose(value))
		default:
			if s.Extra == nil {
				s.Extra = make(map[string]json.RawMessage)
			}
			s.Extra[key] = value
		}
	}
	return nil
}

// decodeLoose decodes a single JSON value into its generic Go form. Invalid
// input decodes to nil.
func decodeLoose(raw json.RawMessage) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
