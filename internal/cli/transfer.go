package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/skilllog/internal/codec"
)

const stdioPath = "-"

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every skill to a JSON file",
		Long: `Write every skill to a JSON array file. The default file is export_file
from config.yaml (skillData.json). Use - for stdout.`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.GetString(cfgKeyExportFile)
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				path = codec.DefaultExportFile
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			if path == stdioPath {
				_, err := svc.Export(a.stdout)
				return err
			}
			n, err := svc.ExportFile(path)
			if err != nil {
				return err
			}
			return a.emit(map[string]any{"path": path, "count": n},
				fmt.Sprintf("Exported %d skill(s) to %s", n, path))
		},
	}
}

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge skills from a JSON file",
		Long: `Read a JSON array of skills and merge it into the store. Records whose id
exists are replaced; the rest are added. Use - to read stdin.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = a.stdin
			if args[0] != stdioPath {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening import file: %w", err)
				}
				defer f.Close()
				r = f
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			res, err := svc.Import(r)
			if err != nil {
				return err
			}
			return a.emit(res, fmt.Sprintf("Imported: %d created, %d replaced, %d skipped",
				res.Created, res.Replaced, res.Skipped))
		},
	}
}
