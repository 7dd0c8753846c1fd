package codec

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/mesh-intelligence/skilllog/pkg/types"
)

// Source supplies the records to export.
type Source interface {
	GetAll() ([]types.Skill, error)
}

// Export writes every record of src to w as an indented JSON array in id
// order and returns the number of records written. An empty store exports
// as [].
func Export(src Source, w io.Writer) (int, error) {
	data, n, err := encodeAll(src)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(data); err != nil {
		return 0, fmt.Errorf("writing export: %w", err)
	}
	return n, nil
}

// ExportFile writes the export document to path atomically, so a reader
// never sees a half-written file.
func ExportFile(src Source, path string) (int, error) {
	data, n, err := encodeAll(src)
	if err != nil {
		return 0, err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return n, nil
}

func encodeAll(src Source) ([]byte, int, error) {
	skills, err := src.GetAll()
	if err != nil {
		return nil, 0, fmt.Errorf("reading skills: %w", err)
	}
	if skills == nil {
		skills = []types.Skill{}
	}
	skills = slices.Clone(skills)
	slices.SortFunc(skills, func(a, b types.Skill) int { return cmp.Compare(a.ID, b.ID) })

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(skills); err != nil {
		return nil, 0, fmt.Errorf("encoding export: %w", err)
	}
	return buf.Bytes(), len(skills), nil
}
