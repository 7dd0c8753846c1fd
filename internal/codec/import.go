package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/skilllog/pkg/types"
)

// Sink receives imported records in one batch.
type Sink interface {
	Import(fn func(tx types.ImportTx) error) error
}

// ImportResult summarizes one import run.
type ImportResult struct {
	RunID    uuid.UUID `json:"run_id"`
	Created  int       `json:"created"`
	Replaced int       `json:"replaced"`
	Skipped  int       `json:"skipped"` // Elements that were not JSON objects.
}

// Importer reads export documents into a store.
type Importer struct {
	Now    func() time.Time // Defaults to time.Now.
	Logger *slog.Logger     // Defaults to slog.Default().
}

// Import reads a JSON array from r and upserts each element into sink with
// the default Importer.
func Import(sink Sink, r io.Reader) (ImportResult, error) {
	return Importer{}.Import(sink, r)
}

// Import reads a JSON array from r and upserts each element into sink.
//
// Input that is not JSON fails with ErrImport and input that is JSON but not
// an array fails with ErrFormat; sink is not touched in either case. Each
// element is normalized before it is written: missing fields take their
// defaults, pinned and completed are coerced, createdAt defaults to now and
// updatedAt is set to now (never before createdAt). Elements with a positive
// integer id replace the record with that id; others are inserted as new
// records. Elements that are not objects are skipped. The batch runs in one
// transaction, and a failure there is reported as ErrImport.
func (im Importer) Import(sink Sink, r io.Reader) (ImportResult, error) {
	logger := im.Logger
	if logger == nil {
		logger = slog.Default()
	}
	result := ImportResult{RunID: newRunID()}

	data, err := io.ReadAll(r)
	if err != nil {
		return result, fmt.Errorf("%w: reading input: %w", types.ErrImport, err)
	}
	data = bytes.TrimSpace(bytes.TrimPrefix(bytes.TrimSpace(data), utf8BOM))
	if !json.Valid(data) {
		return result, fmt.Errorf("%w: input is not valid JSON", types.ErrImport)
	}
	if data[0] != '[' {
		return result, types.ErrFormat
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return result, fmt.Errorf("%w: %w", types.ErrImport, err)
	}

	now := im.stamp()
	skills := make([]types.Skill, 0, len(elements))
	for _, el := range elements {
		s, ok := normalize(el, now)
		if !ok {
			result.Skipped++
			continue
		}
		skills = append(skills, s)
	}

	err = sink.Import(func(tx types.ImportTx) error {
		created, replaced := 0, 0
		for _, s := range skills {
			_, existed, err := tx.Put(s)
			if err != nil {
				return err
			}
			if existed {
				replaced++
			} else {
				created++
			}
		}
		result.Created, result.Replaced = created, replaced
		return nil
	})
	if err != nil {
		logger.Error("import failed", "run_id", result.RunID, "error", err)
		return ImportResult{RunID: result.RunID}, fmt.Errorf("%w: %w", types.ErrImport, err)
	}

	logger.Info("import finished",
		"run_id", result.RunID,
		"created", result.Created,
		"replaced", result.Replaced,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (im Importer) stamp() time.Time {
	now := time.Now
	if im.Now != nil {
		now = im.Now
	}
	return now().UTC().Truncate(time.Millisecond)
}

// utf8BOM is written at the start of files by some editors.
var utf8BOM = []byte("\ufeff")

// normalize decodes one array element. The bool is false for elements that
// are not JSON objects.
func normalize(el json.RawMessage, now time.Time) (types.Skill, bool) {
	el = bytes.TrimSpace(el)
	if len(el) == 0 || el[0] != '{' {
		return types.Skill{}, false
	}
	var s types.Skill
	if err := json.Unmarshal(el, &s); err != nil {
		return types.Skill{}, false
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	if s.UpdatedAt.Before(s.CreatedAt) {
		s.UpdatedAt = s.CreatedAt
	}
	return s, true
}

// newRunID returns a time-ordered id for correlating the log lines of one
// import.
func newRunID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
