package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a skill",
		Long:  "Delete a skill for good. Asks for confirmation unless --yes is given.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			s, err := svc.Get(id)
			if err != nil {
				return err
			}
			if !yes && !a.confirm(fmt.Sprintf("Delete skill %d %q? [y/N] ", id, s.Title)) {
				return a.emit(map[string]any{"id": id, "deleted": false}, "Cancelled")
			}
			if err := svc.Delete(id); err != nil {
				return err
			}
			return a.emit(map[string]any{"id": id, "deleted": true}, fmt.Sprintf("Deleted skill %d", id))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
// Anything but y or yes is a no.
func (a *app) confirm(prompt string) bool {
	fmt.Fprint(a.stderr, prompt)
	line, _ := bufio.NewReader(a.stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
