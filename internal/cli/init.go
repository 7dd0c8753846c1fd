package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and the store",
		Long: `Create the configuration directory with a default config.yaml and open
the store, creating or upgrading it as needed. Running init again is safe.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.service(); err != nil {
				return err
			}
			out := map[string]string{
				"config_file": filepath.Join(a.configDir, configFileExt),
				"data_dir":    filepath.Dir(a.store.Path()),
				"store":       a.store.Path(),
			}
			return a.emit(out, fmt.Sprintf("skilllog initialized\nconfig: %s\nstore:  %s",
				out["config_file"], out["store"]))
		},
	}
}
