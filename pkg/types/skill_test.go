package types

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoercePinned(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{name: "integer in range", in: 3, want: 3},
		{name: "float truncates", in: 3.9, want: 3},
		{name: "numeric string", in: "4", want: 4},
		{name: "padded numeric string", in: " 2 ", want: 2},
		{name: "fractional string truncates", in: "2.7", want: 2},
		{name: "non-numeric string", in: "high", want: 0},
		{name: "nil", in: nil, want: 0},
		{name: "legacy true", in: true, want: 1},
		{name: "legacy false", in: false, want: 0},
		{name: "negative clamps to zero", in: -2, want: 0},
		{name: "above range clamps to max", in: 9, want: MaxPinLevel},
		{name: "NaN", in: math.NaN(), want: 0},
		{name: "object", in: map[string]any{"level": 2}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoercePinned(tt.in))
		})
	}
}

func TestCoerceCompleted(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{name: "true", in: true, want: true},
		{name: "false", in: false, want: false},
		{name: "string true", in: "true", want: true},
		{name: "string false", in: "false", want: false},
		{name: "nonzero number", in: 1.0, want: true},
		{name: "zero number", in: 0.0, want: false},
		{name: "nil", in: nil, want: false},
		{name: "object", in: map[string]any{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceCompleted(tt.in))
		})
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	got, ok := ParseTime("2025-01-15T10:00:00.000Z")
	require.True(t, ok)
	assert.True(t, want.Equal(got))

	got, ok = ParseTime("2025-01-15T19:00:00+09:00")
	require.True(t, ok)
	assert.True(t, want.Equal(got))

	got, ok = ParseTime(float64(want.UnixMilli()))
	require.True(t, ok)
	assert.True(t, want.Equal(got))

	_, ok = ParseTime("yesterday")
	assert.False(t, ok)

	_, ok = ParseTime(nil)
	assert.False(t, ok)
}

func TestNextPinLevelWrapsAfterSixSteps(t *testing.T) {
	for start := PinNone; start <= MaxPinLevel; start++ {
		level := start
		for i := 0; i < MaxPinLevel+1; i++ {
			level = NextPinLevel(level)
			assert.GreaterOrEqual(t, level, PinNone)
			assert.LessOrEqual(t, level, MaxPinLevel)
		}
		assert.Equal(t, start, level, "six cycles from %d", start)
	}
	assert.Equal(t, PinNone, NextPinLevel(MaxPinLevel))
}

func TestNewSkill(t *testing.T) {
	now := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	s := NewSkill("Go", "generics", "lang", "go,cli", "7", now)

	assert.Equal(t, "Go", s.Title)
	assert.Equal(t, MaxPinLevel, s.Pinned)
	assert.False(t, s.Completed)
	assert.Equal(t, now, s.CreatedAt)
	assert.Equal(t, now, s.UpdatedAt)
}

func TestSkillUnmarshalLegacyRecord(t *testing.T) {
	data := []byte(`{"id":7,"title":"old note","pinned":true,"createdAt":"2024-03-01T12:00:00.000Z","source":"web","meta":{"n":1}}`)

	var s Skill
	require.NoError(t, json.Unmarshal(data, &s))

	assert.Equal(t, int64(7), s.ID)
	assert.Equal(t, "old note", s.Title)
	assert.Equal(t, 1, s.Pinned, "legacy boolean pin becomes level 1")
	assert.False(t, s.Completed, "missing completed reads as false")
	assert.Equal(t, "", s.Category)
	assert.Equal(t, "", s.Tags)
	assert.Equal(t, 2024, s.CreatedAt.Year())
	require.Len(t, s.Extra, 2)
	assert.JSONEq(t, `"web"`, string(s.Extra["source"]))
	assert.JSONEq(t, `{"n":1}`, string(s.Extra["meta"]))
}

func TestSkillUnmarshalDropsInvalidID(t *testing.T) {
	for _, doc := range []string{`{"id":"abc"}`, `{"id":-3}`, `{"id":1.5}`, `{}`} {
		var s Skill
		require.NoError(t, json.Unmarshal([]byte(doc), &s))
		assert.Zero(t, s.ID, doc)
	}
}

func TestSkillMarshalKeepsUnknownFields(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 600_000_000, time.UTC)
	s := NewSkill("A", "", "", "", 2, now)
	s.ID = 12
	s.Extra = map[string]json.RawMessage{"source": json.RawMessage(`"web"`)}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": 12,
		"title": "A",
		"content": "",
		"category": "",
		"tags": "",
		"pinned": 2,
		"completed": false,
		"createdAt": "2025-01-02T03:04:05.600Z",
		"updatedAt": "2025-01-02T03:04:05.600Z",
		"source": "web"
	}`, string(data))

	var back Skill
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s.ID, back.ID)
	assert.True(t, s.CreatedAt.Equal(back.CreatedAt))
	assert.JSONEq(t, `"web"`, string(back.Extra["source"]))
}

func TestSkillTags(t *testing.T) {
	tests := []struct {
		name string
		tags string
		tag  string
		want bool
	}{
		{name: "first token", tags: "x, y, z", tag: "x", want: true},
		{name: "padded token", tags: "x, y, z", tag: "y", want: true},
		{name: "no substring match", tags: "x, y, z", tag: "xy", want: false},
		{name: "no prefix match", tags: "golang", tag: "go", want: false},
		{name: "filter is trimmed", tags: "go,cli", tag: " cli ", want: true},
		{name: "empty filter", tags: "go", tag: "", want: false},
		{name: "empty tags", tags: "", tag: "go", want: false},
		{name: "NFC equivalent", tags: "caf\u00e9, bar", tag: "cafe\u0301", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Skill{Tags: tt.tags}
			assert.Equal(t, tt.want, s.HasTag(tt.tag))
		})
	}

	assert.Equal(t, []string{"go", "cli"}, Skill{Tags: " go ,, cli ,"}.TagList())
	assert.Nil(t, Skill{Tags: "  "}.TagList())
}

func TestSkillPatchApply(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	base := func() Skill {
		s := NewSkill("A", "body", "lang", "go", 4, created)
		s.ID = 1
		return s
	}
	later := created.Add(time.Hour)

	t.Run("only provided fields change", func(t *testing.T) {
		s := base()
		title := "B"
		SkillPatch{Title: &title}.Apply(&s, later)
		assert.Equal(t, "B", s.Title)
		assert.Equal(t, "body", s.Content)
		assert.Equal(t, 4, s.Pinned)
		assert.Equal(t, later, s.UpdatedAt)
		assert.Equal(t, created, s.CreatedAt)
	})

	t.Run("pinned is coerced", func(t *testing.T) {
		s := base()
		SkillPatch{Pinned: "12"}.Apply(&s, later)
		assert.Equal(t, MaxPinLevel, s.Pinned)
	})

	t.Run("completing forces pin to zero", func(t *testing.T) {
		s := base()
		done := true
		SkillPatch{Completed: &done, Pinned: 3}.Apply(&s, later)
		assert.True(t, s.Completed)
		assert.Equal(t, PinNone, s.Pinned)
	})

	t.Run("reopening keeps pin", func(t *testing.T) {
		s := base()
		s.Completed = true
		open := false
		SkillPatch{Completed: &open}.Apply(&s, later)
		assert.False(t, s.Completed)
		assert.Equal(t, 4, s.Pinned)
	})

	t.Run("updatedAt never precedes createdAt", func(t *testing.T) {
		s := base()
		SkillPatch{}.Apply(&s, created.Add(-time.Hour))
		assert.Equal(t, created, s.UpdatedAt)
	})

	assert.True(t, SkillPatch{}.IsEmpty())
	assert.False(t, SkillPatch{Pinned: 0}.IsEmpty())
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "whole seconds", in: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), want: "2025-01-02T03:04:05.000Z"},
		{name: "milliseconds", in: time.Date(2025, 1, 2, 3, 4, 5, 600_000_000, time.UTC), want: "2025-01-02T03:04:05.600Z"},
		{name: "microseconds kept", in: time.Date(2024, 3, 1, 10, 0, 0, 123_456_000, time.UTC), want: "2024-03-01T10:00:00.123456Z"},
		{name: "converted to UTC", in: time.Date(2025, 1, 2, 5, 4, 5, 0, time.FixedZone("", 2*3600)), want: "2025-01-02T03:04:05.000Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTime(tt.in)
			assert.Equal(t, tt.want, got)
			back, ok := ParseTime(got)
			require.True(t, ok)
			assert.True(t, tt.in.Equal(back))
		})
	}
}

func TestDocumentOmitsUnsetTimestamps(t *testing.T) {
	doc := Skill{Title: "B"}.Document()
	assert.NotContains(t, doc, FieldCreatedAt)
	assert.NotContains(t, doc, FieldUpdatedAt)
	assert.Equal(t, "B", doc[FieldTitle])
}
