package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/skilllog/pkg/types"
)

// GetScratch reads a scratch value.
func (b *Backend) GetScratch(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return "", false, types.ErrStoreClosed
	}
	var value string
	err := b.db.QueryRow("SELECT value FROM scratch WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading scratch %q: %w", key, err)
	}
	return value, true, nil
}

// SetScratch writes a scratch value, replacing any previous one.
func (b *Backend) SetScratch(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return types.ErrStoreClosed
	}
	if _, err := b.db.Exec(
		"INSERT INTO scratch (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	); err != nil {
		return fmt.Errorf("writing scratch %q: %w", key, err)
	}
	return nil
}

// DeleteScratch removes a scratch value.
func (b *Backend) DeleteScratch(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return types.ErrStoreClosed
	}
	if _, err := b.db.Exec("DELETE FROM scratch WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting scratch %q: %w", key, err)
	}
	return nil
}
