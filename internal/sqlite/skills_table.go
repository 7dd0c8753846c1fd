package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/skilllog/pkg/types"
)

// Create persists a new skill and returns its generated id. Ids come from
// an AUTOINCREMENT key and are never handed out twice, even after deletes.
func (b *Backend) Create(title, content, category, tags string, pinned any) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	s := types.NewSkill(title, content, category, tags, pinned, b.stamp())
	doc, err := encodeDoc(s)
	if err != nil {
		return 0, err
	}
	res, err := tx.Exec("INSERT INTO skills (doc) VALUES (?)", doc)
	if err != nil {
		return 0, fmt.Errorf("inserting skill: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading skill id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing skill: %w", err)
	}

	b.logger.Debug("skill created", "id", id, "pinned", s.Pinned)
	return id, nil
}

// GetAll returns every skill in id order.
func (b *Backend) GetAll() ([]types.Skill, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT id, doc FROM skills ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying skills: %w", err)
	}
	defer rows.Close()

	var skills []types.Skill
	for rows.Next() {
		var id int64
		var doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scanning skill: %w", err)
		}
		s, err := decodeDoc(id, doc)
		if err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skills: %w", err)
	}
	return skills, nil
}

// GetByID returns the skill with the given id.
func (b *Backend) GetByID(id int64) (types.Skill, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.begin()
	if err != nil {
		return types.Skill{}, err
	}
	defer tx.Rollback()

	return getSkill(tx, id)
}

// Update merges patch into the stored skill. Read, merge and write happen in
// one transaction.
func (b *Backend) Update(id int64, patch types.SkillPatch) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	s, err := getSkill(tx, id)
	if err != nil {
		return err
	}
	patch.Apply(&s, b.stamp())

	doc, err := encodeDoc(s)
	if err != nil {
		return err
	}
	if _, err := tx.Exec("UPDATE skills SET doc = ? WHERE id = ?", doc, id); err != nil {
		return fmt.Errorf("updating skill %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing skill %d: %w", id, err)
	}

	b.logger.Debug("skill updated", "id", id, "pinned", s.Pinned, "completed", s.Completed)
	return nil
}

// Delete removes the skill with the given id.
func (b *Backend) Delete(id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM skills WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting skill %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting skill %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("skill %d: %w", id, types.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing deletion of skill %d: %w", id, err)
	}

	b.logger.Debug("skill deleted", "id", id)
	return nil
}

// Put writes s as-is, replacing the skill with the same id or inserting a
// new one when s.ID is zero.
func (b *Backend) Put(s types.Skill) (int64, error) {
	var id int64
	err := b.Import(func(tx types.ImportTx) error {
		var err error
		id, _, err = tx.Put(s)
		return err
	})
	return id, err
}

// Import runs fn inside one transaction and commits only if fn succeeds.
func (b *Backend) Import(fn func(tx types.ImportTx) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&importTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

// importTx implements types.ImportTx over an open transaction.
type importTx struct {
	tx *sql.Tx
}

// Put upserts s. An explicit id larger than any seen so far advances the
// AUTOINCREMENT sequence, so later generated ids cannot collide with it.
func (t *importTx) Put(s types.Skill) (int64, bool, error) {
	doc, err := encodeDoc(s)
	if err != nil {
		return 0, false, err
	}

	if s.ID <= 0 {
		res, err := t.tx.Exec("INSERT INTO skills (doc) VALUES (?)", doc)
		if err != nil {
			return 0, false, fmt.Errorf("inserting skill: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("reading skill id: %w", err)
		}
		return id, false, nil
	}

	var exists int
	err = t.tx.QueryRow("SELECT 1 FROM skills WHERE id = ?", s.ID).Scan(&exists)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("checking skill %d: %w", s.ID, err)
	}
	if _, err := t.tx.Exec(
		"INSERT INTO skills (id, doc) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET doc = excluded.doc",
		s.ID, doc,
	); err != nil {
		return 0, false, fmt.Errorf("writing skill %d: %w", s.ID, err)
	}
	return s.ID, exists == 1, nil
}

// getSkill reads one skill inside tx.
func getSkill(tx *sql.Tx, id int64) (types.Skill, error) {
	var doc string
	err := tx.QueryRow("SELECT doc FROM skills WHERE id = ?", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Skill{}, fmt.Errorf("skill %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return types.Skill{}, fmt.Errorf("getting skill %d: %w", id, err)
	}
	return decodeDoc(id, doc)
}

// encodeDoc serializes a skill for storage. The id lives in the key column,
// not in the document.
func encodeDoc(s types.Skill) (string, error) {
	data, err := json.Marshal(s.Document())
	if err != nil {
		return "", fmt.Errorf("encoding skill: %w", err)
	}
	return string(data), nil
}

// decodeDoc hydrates a stored document, applying defaults for fields older
// builds did not write. The key column wins over any id in the document.
func decodeDoc(id int64, doc string) (types.Skill, error) {
	var s types.Skill
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return types.Skill{}, fmt.Errorf("decoding skill %d: %w", id, err)
	}
	s.ID = id
	return s, nil
}
