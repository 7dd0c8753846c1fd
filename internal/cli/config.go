package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/skilllog/internal/codec"
	"github.com/mesh-intelligence/skilllog/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envFileName    = ".env"
	envPrefix      = "SKILLLOG"

	cfgKeyDataDir    = "data_dir"
	cfgKeyDBFile     = "db_file"
	cfgKeyExportFile = "export_file"
	cfgKeyLogLevel   = "log_level"
	cfgKeyTimezone   = "timezone"

	defaultLogLevel = "info"
)

// configFile is the shape of config.yaml.
type configFile struct {
	DataDir    string `yaml:"data_dir,omitempty"`
	DBFile     string `yaml:"db_file"`
	ExportFile string `yaml:"export_file"`
	LogLevel   string `yaml:"log_level"`
	Timezone   string `yaml:"timezone,omitempty"`
}

const configHeader = `# skilllog configuration
#
# data_dir:    where the store lives (default: per-user data directory;
#              --data-dir and SKILLLOG_DATA_DIR also set it)
# db_file:     store file name inside data_dir
# export_file: default target of "skilllog export"
# log_level:   debug, info, warn or error
# timezone:    IANA zone used to group skills by month (default: system zone)
#
# Every key except data_dir can also be set through SKILLLOG_<KEY> in the
# environment or in a .env file next to this one.

`

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. Variables from configDir/.env are loaded into
// the environment first; variables already set win.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}
	if err := loadEnvFile(filepath.Join(configDir, envFileName)); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(cfgKeyDBFile, types.DefaultDBFile)
	v.SetDefault(cfgKeyExportFile, codec.DefaultExportFile)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	// data_dir is not bound here: its environment variable ranks below
	// config.yaml and is applied by paths.ResolveDataDir.
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyDBFile, cfgKeyExportFile, cfgKeyLogLevel, cfgKeyTimezone} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("%w: reading config: %w", types.ErrValidation, err)
	}
	return v, nil
}

// ensureDefaultConfigFile writes config.yaml with default values unless it
// already exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		DBFile:     types.DefaultDBFile,
		ExportFile: codec.DefaultExportFile,
		LogLevel:   defaultLogLevel,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}

// loadEnvFile loads a dotenv file if there is one.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: loading %s: %w", types.ErrValidation, path, err)
}
