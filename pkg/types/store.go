package types

import "errors"

// Store is durable keyed storage for skills. Every method runs as a single
// atomic transaction; a failed call leaves no partial state behind.
type Store interface {
	// Create persists a new skill and returns its generated id. The caller
	// must have checked that title is non-empty; the store does not re-check.
	// Pinned is coerced into 0..MaxPinLevel.
	Create(title, content, category, tags string, pinned any) (int64, error)

	// GetAll returns every skill, normalized. Order is unspecified.
	GetAll() ([]Skill, error)

	// GetByID returns one skill, or an error wrapping ErrNotFound.
	GetByID(id int64) (Skill, error)

	// Update merges patch into the stored skill and refreshes UpdatedAt.
	// Returns an error wrapping ErrNotFound if the id does not exist.
	Update(id int64, patch SkillPatch) error

	// Delete removes the skill. Returns an error wrapping ErrNotFound if the
	// id does not exist.
	Delete(id int64) error

	// Put writes s as-is, replacing any skill with the same id. A zero id
	// inserts a new skill. Returns the id written.
	Put(s Skill) (int64, error)

	// Import runs fn inside one transaction. The batch commits if fn
	// returns nil and rolls back otherwise.
	Import(fn func(tx ImportTx) error) error

	// GetScratch reads a scratch value. The bool is false when key is unset.
	GetScratch(key string) (string, bool, error)

	// SetScratch writes a scratch value.
	SetScratch(key, value string) error

	// DeleteScratch removes a scratch value. Removing an unset key succeeds.
	DeleteScratch(key string) error

	// Close releases the store. Close is idempotent.
	Close() error
}

// ImportTx writes skills inside an Import batch.
type ImportTx interface {
	// Put upserts s by id (zero inserts) and reports whether an existing
	// skill was replaced.
	Put(s Skill) (id int64, replaced bool, err error)
}

// Errors surfaced by the store and the layers above it. Callers test for
// them with errors.Is.
var (
	ErrInitialization = errors.New("store initialization failed")
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("skill not found")
	ErrFormat         = errors.New("import payload is not a JSON array")
	ErrImport         = errors.New("import failed")
	ErrStoreClosed    = errors.New("store is closed")
)
