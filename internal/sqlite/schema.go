package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// currentSchemaVersion is the PRAGMA user_version this build expects.
//
//	0 - empty file
//	1 - skills container (autoincrement id, JSON document)
//	2 - scratch key/value container for drafts
const currentSchemaVersion = 2

const (
	createSkills = `CREATE TABLE IF NOT EXISTS skills (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    doc TEXT NOT NULL
);`

	createScratch = `CREATE TABLE IF NOT EXISTS scratch (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`
)

// migration moves the schema from version-1 to version. Migrations only add
// containers; records are never rewritten because defaults are applied when
// they are read.
type migration struct {
	version int
	name    string
	apply   func(tx *sql.Tx, env migrationEnv) (migrated int, err error)
}

// migrationEnv is what a migration may read besides the transaction.
type migrationEnv struct {
	dataDir string
	now     time.Time // Stamp for records that arrive without one.
}

var migrations = []migration{
	{version: 1, name: "create skills", apply: migrateToV1},
	{version: 2, name: "create scratch", apply: migrateToV2},
}

// migrate walks the store from its on-disk version up to
// currentSchemaVersion inside one transaction. A current store is left
// untouched.
func migrate(db *sql.DB, env migrationEnv, logger *slog.Logger) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading user_version: %w", err)
	}
	if version > currentSchemaVersion {
		logger.Warn("store written by a newer build", "version", version, "expected", currentSchemaVersion)
		return nil
	}
	if version == currentSchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration: %w", err)
	}
	defer tx.Rollback()

	legacyLoaded := false
	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		n, err := m.apply(tx, env)
		if err != nil {
			return fmt.Errorf("migrating to v%d (%s): %w", m.version, m.name, err)
		}
		if n > 0 {
			legacyLoaded = true
		}
		logger.Info("applied migration", "version", m.version, "name", m.name, "records", n)
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("setting user_version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}

	// The records are committed by now. A file left behind is only loaded
	// again if the store itself is recreated.
	if legacyLoaded {
		src := filepath.Join(env.dataDir, legacyJSONLFile)
		if err := os.Rename(src, src+legacyRetiredSuffix); err != nil {
			logger.Warn("could not retire legacy file", "path", src, "error", err)
		}
	}
	return nil
}

// migrateToV1 creates the skills container and pulls in records from the
// JSON-lines layout if one is present in the data directory.
func migrateToV1(tx *sql.Tx, env migrationEnv) (int, error) {
	if _, err := tx.Exec(createSkills); err != nil {
		return 0, err
	}
	return loadLegacyJSONL(tx, env.dataDir, env.now)
}

// migrateToV2 creates the scratch container.
func migrateToV2(tx *sql.Tx, _ migrationEnv) (int, error) {
	_, err := tx.Exec(createScratch)
	return 0, err
}
