package codec

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/skilllog/internal/sqlite"
	"github.com/mesh-intelligence/skilllog/pkg/types"
)

var importNow = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

func testImporter() Importer {
	return Importer{
		Now:    func() time.Time { return importNow },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func openStore(t *testing.T) *sqlite.Backend {
	t.Helper()
	b, err := sqlite.Open(types.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestImportAppliesDefaults(t *testing.T) {
	store := openStore(t)

	res, err := testImporter().Import(store, strings.NewReader(`[{"id":1,"title":"X"}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Zero(t, res.Replaced)
	assert.Zero(t, res.Skipped)
	assert.NotEqual(t, uuid.Nil, res.RunID)
	assert.Equal(t, uuid.Version(7), res.RunID.Version())

	s, err := store.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "X", s.Title)
	assert.Equal(t, 0, s.Pinned)
	assert.False(t, s.Completed)
	assert.Equal(t, "", s.Category)
	assert.Equal(t, "", s.Tags)
	assert.True(t, importNow.Equal(s.CreatedAt))
	assert.True(t, importNow.Equal(s.UpdatedAt))
}

func TestImportNormalizesFields(t *testing.T) {
	store := openStore(t)
	input := `[
		{"id": 3, "title": "legacy", "pinned": true, "completed": 1, "createdAt": "2024-01-01T00:00:00Z", "updatedAt": "2024-01-02T00:00:00Z"},
		{"id": "7", "title": "string id", "pinned": "4.9"},
		{"id": 2.5, "title": "fractional id", "pinned": 42},
		{"title": "future", "createdAt": "2030-01-01T00:00:00.000Z", "mood": {"happy": true}}
	]`

	res, err := testImporter().Import(store, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Created)

	legacy, err := store.GetByID(3)
	require.NoError(t, err)
	assert.Equal(t, 1, legacy.Pinned)
	assert.True(t, legacy.Completed)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", types.FormatTime(legacy.CreatedAt))
	assert.True(t, importNow.Equal(legacy.UpdatedAt), "updatedAt is reset on import")

	all, err := store.GetAll()
	require.NoError(t, err)
	byTitle := make(map[string]types.Skill)
	for _, s := range all {
		byTitle[s.Title] = s
	}

	assert.NotEqual(t, int64(7), byTitle["string id"].ID)
	assert.Equal(t, 4, byTitle["string id"].Pinned)
	assert.Equal(t, 5, byTitle["fractional id"].Pinned)

	future := byTitle["future"]
	assert.False(t, future.UpdatedAt.Before(future.CreatedAt))
	assert.JSONEq(t, `{"happy":true}`, string(future.Extra["mood"]))
}

func TestImportUpsertsById(t *testing.T) {
	store := openStore(t)
	id, err := store.Create("original", "", "", "", 0)
	require.NoError(t, err)

	input := `[{"id": ` + jsonInt(id) + `, "title": "replaced"}, {"title": "new"}]`
	res, err := testImporter().Import(store, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Replaced)
	assert.Equal(t, 1, res.Created)

	s, err := store.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "replaced", s.Title)
}

func TestImportSkipsNonObjects(t *testing.T) {
	store := openStore(t)

	res, err := testImporter().Import(store, strings.NewReader(`[1, "two", null, [], {"title":"ok"}]`))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Skipped)
	assert.Equal(t, 1, res.Created)
}

func TestImportRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty", input: "", want: types.ErrImport},
		{name: "truncated", input: `[{"title":`, want: types.ErrImport},
		{name: "object", input: `{"title":"x"}`, want: types.ErrFormat},
		{name: "number", input: `42`, want: types.ErrFormat},
		{name: "null", input: `null`, want: types.ErrFormat},
		{name: "byte order mark only", input: "\ufeff", want: types.ErrImport},
		{name: "object after byte order mark", input: "\ufeff{}", want: types.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openStore(t)
			_, err := store.Create("existing", "", "", "", 0)
			require.NoError(t, err)

			_, err = testImporter().Import(store, strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.want)

			all, err := store.GetAll()
			require.NoError(t, err)
			assert.Len(t, all, 1, "store must be untouched")
		})
	}
}

func TestImportAcceptsByteOrderMark(t *testing.T) {
	store := openStore(t)

	res, err := testImporter().Import(store, strings.NewReader("\ufeff[{\"id\":4,\"title\":\"from an editor\"}]\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)

	s, err := store.GetByID(4)
	require.NoError(t, err)
	assert.Equal(t, "from an editor", s.Title)

	_, err = testImporter().Import(store, strings.NewReader("\ufeff[]"))
	assert.NoError(t, err)
}

// failingSink fails every batch.
type failingSink struct{}

func (failingSink) Import(func(tx types.ImportTx) error) error { return types.ErrStoreClosed }

func TestImportTransactionFailure(t *testing.T) {
	res, err := testImporter().Import(failingSink{}, strings.NewReader(`[{"title":"x"}]`))
	assert.ErrorIs(t, err, types.ErrImport)
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	assert.Zero(t, res.Created)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := openStore(t)
	_, err := src.Create("A", "alpha", "lang", "go, cli", 3)
	require.NoError(t, err)
	id, err := src.Create("B", "beta", "", "", 0)
	require.NoError(t, err)
	done := true
	require.NoError(t, src.Update(id, types.SkillPatch{Completed: &done}))
	_, err = src.Put(types.Skill{
		ID: 10, Title: "C", CreatedAt: importNow, UpdatedAt: importNow,
		Extra: map[string]json.RawMessage{"color": json.RawMessage(`"teal"`)},
	})
	require.NoError(t, err)

	var first bytes.Buffer
	_, err = Export(src, &first)
	require.NoError(t, err)

	// Importing into the same store leaves the record set unchanged.
	_, err = testImporter().Import(src, bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	var again bytes.Buffer
	_, err = Export(src, &again)
	require.NoError(t, err)
	assert.Equal(t, withoutUpdatedAt(t, first.Bytes()), withoutUpdatedAt(t, again.Bytes()))

	// So does importing into an empty one.
	dst := openStore(t)
	_, err = testImporter().Import(dst, bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	var copied bytes.Buffer
	_, err = Export(dst, &copied)
	require.NoError(t, err)
	assert.Equal(t, withoutUpdatedAt(t, first.Bytes()), withoutUpdatedAt(t, copied.Bytes()))
}

func TestExportImportRoundTripLegacyRecords(t *testing.T) {
	dir := t.TempDir()
	legacy := strings.Join([]string{
		`{"id":1,"title":"B"}`,
		`{"id":2,"title":"precise","createdAt":"2024-03-01T10:00:00.123456Z","pinned":true}`,
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skills.jsonl"), []byte(legacy), 0o644))

	src, err := sqlite.Open(types.Config{DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	before, err := src.GetAll()
	require.NoError(t, err)
	require.Len(t, before, 2)

	var first bytes.Buffer
	_, err = Export(src, &first)
	require.NoError(t, err)
	assert.NotContains(t, first.String(), "0001-01-01")

	_, err = testImporter().Import(src, bytes.NewReader(first.Bytes()))
	require.NoError(t, err)

	after, err := src.GetAll()
	require.NoError(t, err)
	require.Len(t, after, 2)
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.True(t, before[i].CreatedAt.Equal(after[i].CreatedAt),
			"id %d: createdAt %s became %s", before[i].ID, before[i].CreatedAt, after[i].CreatedAt)
	}
}

func withoutUpdatedAt(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var docs []map[string]any
	require.NoError(t, json.Unmarshal(data, &docs))
	for _, d := range docs {
		delete(d, types.FieldUpdatedAt)
	}
	return docs
}

func jsonInt(n int64) string {
	data, _ := json.Marshal(n)
	return string(data)
}
