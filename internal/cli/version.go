package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/mesh-intelligence/skilllog"

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/mesh-intelligence/skilllog/internal/cli.Version=...".
var Version = "0.1.0"

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the skilllog version",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.emit(
				map[string]string{"version": Version, "module": modulePath},
				fmt.Sprintf("skilllog v%s\nmodule: %s", Version, modulePath),
			)
		},
	}
}
