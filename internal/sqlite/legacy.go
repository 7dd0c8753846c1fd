package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/skilllog/pkg/types"
)

// legacyJSONLFile is the record file of the JSON-lines layout that predates
// the SQLite store: one skill object per line, ids inline.
const legacyJSONLFile = "skills.jsonl"

// legacyRetiredSuffix is appended to the legacy file once it is loaded.
const legacyRetiredSuffix = ".migrated"

// loadLegacyJSONL copies records from skills.jsonl into the skills
// container. Lines are stored verbatim so unknown fields and missing ones
// stay as they were; defaults are applied when the records are read. The one
// exception is a missing or unreadable createdAt, which is filled in here
// from updatedAt or loadedAt, because a creation time cannot be defaulted on
// every read without changing. Lines that are not JSON objects are skipped.
// Returns the number of records loaded; a missing file loads nothing.
func loadLegacyJSONL(tx *sql.Tx, dataDir string, loadedAt time.Time) (int, error) {
	path := filepath.Join(dataDir, legacyJSONLFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}

	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	loaded := 0
	for _, rec := range records {
		if rec[0] != '{' {
			continue
		}
		var s types.Skill
		if err := json.Unmarshal(rec, &s); err != nil {
			continue
		}
		if s.CreatedAt.IsZero() {
			created := loadedAt
			if !s.UpdatedAt.IsZero() && s.UpdatedAt.Before(loadedAt) {
				created = s.UpdatedAt
			}
			if rec, err = withCreatedAt(rec, created); err != nil {
				continue
			}
		}
		var id any
		if s.ID > 0 {
			id = s.ID
		}
		if _, err := tx.Exec(
			"INSERT INTO skills (id, doc) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET doc = excluded.doc",
			id, string(rec),
		); err != nil {
			return loaded, fmt.Errorf("loading legacy record: %w", err)
		}
		loaded++
	}
	return loaded, nil
}

// withCreatedAt sets the createdAt field of a raw record, leaving every
// other field as it was.
func withCreatedAt(rec []byte, created time.Time) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec, &fields); err != nil {
		return nil, err
	}
	stamp, err := json.Marshal(types.FormatTime(created))
	if err != nil {
		return nil, err
	}
	fields[types.FieldCreatedAt] = stamp
	return json.Marshal(fields)
}
