package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/skilllog/pkg/types"
)

func TestQuickMemo(t *testing.T) {
	svc, _ := setupService(t)
	require.NoError(t, svc.SaveDraft(Draft{Content: "half typed", Pinned: 2}))

	id, err := svc.QuickMemo("  remember this  ", "2")
	require.NoError(t, err)

	s, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, MemoTitle, s.Title)
	assert.Equal(t, "remember this", s.Content)
	assert.Empty(t, s.Category)
	assert.Empty(t, s.Tags)
	assert.Equal(t, 2, s.Pinned)

	_, ok, err := svc.LoadDraft()
	require.NoError(t, err)
	assert.False(t, ok, "sending a memo clears the draft")
}

func TestQuickMemoRejectsBlank(t *testing.T) {
	svc, _ := setupService(t)
	require.NoError(t, svc.SaveDraft(Draft{Content: "keep me"}))

	_, err := svc.QuickMemo("   ", 0)
	assert.ErrorIs(t, err, types.ErrValidation)

	d, ok, err := svc.LoadDraft()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "keep me", d.Content)
}

func TestDraftLifecycle(t *testing.T) {
	svc, _ := setupService(t)

	_, ok, err := svc.LoadDraft()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.SaveDraft(Draft{Content: "first", Pinned: 9}))
	d, ok, err := svc.LoadDraft()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Draft{Content: "first", Pinned: 5}, d)

	require.NoError(t, svc.ClearDraft())
	_, ok, err = svc.LoadDraft()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadDraftTolerance(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   Draft
		wantOK bool
	}{
		{name: "pin as text", stored: `{"content":"hi","pinned":"3"}`, want: Draft{Content: "hi", Pinned: 3}, wantOK: true},
		{name: "missing pin", stored: `{"content":"hi"}`, want: Draft{Content: "hi"}, wantOK: true},
		{name: "empty pin", stored: `{"content":"hi","pinned":""}`, want: Draft{Content: "hi"}, wantOK: true},
		{name: "not json", stored: `{content`, wantOK: false},
		{name: "not an object", stored: `null`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := setupService(t)
			require.NoError(t, store.SetScratch(draftKey, tt.stored))

			d, ok, err := svc.LoadDraft()
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, d)
		})
	}
}
