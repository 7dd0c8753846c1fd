package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newAddCmd() *cobra.Command {
	var content, category, tags, pin string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a skill",
		Example: `  skilllog add "Go generics" --content "type parameters" --category lang --tags "go, generics"
  skilllog add "Release checklist" --pin 3`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parsePinLevel(pin)
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			id, err := svc.Create(args[0], content, category, tags, level)
			if err != nil {
				return err
			}
			return a.emit(map[string]int64{"id": id}, fmt.Sprintf("Added skill %d", id))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&content, "content", "c", "", "free text")
	f.StringVar(&category, "category", "", "category")
	f.StringVarP(&tags, "tags", "t", "", "comma-separated tags")
	f.StringVarP(&pin, "pin", "p", "0", "pin level 0..5")
	return cmd
}
