package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/skilllog/pkg/types"
)

func TestParseTab(t *testing.T) {
	tests := []struct {
		in      string
		want    Tab
		wantErr bool
	}{
		{in: "all", want: TabAll},
		{in: "Pinned", want: TabPinned},
		{in: " monthly ", want: TabMonthly},
		{in: "", wantErr: true},
		{in: "starred", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTab(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSort(t *testing.T) {
	got, err := ParseSort("DESC")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, got)

	got, err = ParseSort("asc")
	require.NoError(t, err)
	assert.Equal(t, SortAsc, got)

	_, err = ParseSort("newest")
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestParsePinFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "", want: PinAny},
		{in: "any", want: PinAny},
		{in: "ANY", want: PinAny},
		{in: "0", wantErr: true},
		{in: "1", want: 1},
		{in: "5", want: 5},
		{in: "6", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "2.5", wantErr: true},
		{in: "high", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePinFilter(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateNotifiesOnChange(t *testing.T) {
	s := NewState()
	assert.Equal(t, DefaultView(), s.Snapshot())

	var seen []View
	s.OnChange(func(v View) { seen = append(seen, v) })

	require.NoError(t, s.SetTab(TabPinned))
	require.NoError(t, s.SetSort(SortDesc))
	require.NoError(t, s.SetPin(3))
	s.SetCategory("lang")
	s.SetTag("go")

	require.Len(t, seen, 5)
	want := View{Tab: TabPinned, Category: "lang", Tag: "go", Sort: SortDesc, Pin: 3}
	assert.Equal(t, want, seen[4])
	assert.Equal(t, want, s.Snapshot())

	// No-op sets stay quiet.
	require.NoError(t, s.SetTab(TabPinned))
	s.SetCategory("lang")
	assert.Len(t, seen, 5)

	s.ClearFilters()
	require.Len(t, seen, 6)
	assert.Empty(t, seen[5].Category)
	assert.Empty(t, seen[5].Tag)
	assert.Equal(t, TabPinned, seen[5].Tab)
}

func TestStateTrimsTextSelectors(t *testing.T) {
	s := NewState()
	calls := 0
	s.OnChange(func(View) { calls++ })

	s.SetTag("   ")
	s.SetCategory("\t")
	assert.Zero(t, calls, "blank selectors leave the view as it was")

	s.SetTag(" go ")
	s.SetCategory(" lang ")
	assert.Equal(t, "go", s.Snapshot().Tag)
	assert.Equal(t, "lang", s.Snapshot().Category)
	assert.Equal(t, 2, calls)
}

func TestStateRejectsInvalidSelectors(t *testing.T) {
	s := NewState()
	calls := 0
	s.OnChange(func(View) { calls++ })

	assert.ErrorIs(t, s.SetTab("weekly"), types.ErrValidation)
	assert.ErrorIs(t, s.SetSort("sideways"), types.ErrValidation)
	assert.ErrorIs(t, s.SetPin(6), types.ErrValidation)
	assert.ErrorIs(t, s.SetPin(-2), types.ErrValidation)

	assert.Zero(t, calls)
	assert.Equal(t, DefaultView(), s.Snapshot())
}

func TestStateObserverMayReadState(t *testing.T) {
	s := NewState()
	var got Tab
	s.OnChange(func(View) { got = s.Snapshot().Tab })

	require.NoError(t, s.SetTab(TabMonthly))
	assert.Equal(t, TabMonthly, got)
}
