package types

import (
	"errors"
	"path/filepath"
	"strings"
)

// DefaultDBFile is the database file name used when Config.DBFile is empty.
const DefaultDBFile = "skills.db"

// Config locates the on-disk store.
type Config struct {
	DataDir string `json:"data_dir" yaml:"data_dir"`
	DBFile  string `json:"db_file" yaml:"db_file"`
}

// Config validation errors.
var (
	ErrDataDirEmpty  = errors.New("data directory must not be empty")
	ErrDBFileInvalid = errors.New("database file must be a plain file name")
)

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return ErrDataDirEmpty
	}
	if c.DBFile != "" && (c.DBFile != filepath.Base(c.DBFile) || c.DBFile == "." || c.DBFile == "..") {
		return ErrDBFileInvalid
	}
	return nil
}

// DBPath returns the full path of the database file.
func (c Config) DBPath() string {
	name := c.DBFile
	if name == "" {
		name = DefaultDBFile
	}
	return filepath.Join(c.DataDir, name)
}
