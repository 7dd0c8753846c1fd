package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/skilllog/pkg/types"
)

func (a *app) newEditCmd() *cobra.Command {
	var title, content, category, tags, pin string
	var completed bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a skill",
		Long: `Change the fields given as flags and leave the rest alone. Marking a
skill completed also unpins it.`,
		Example: `  skilllog edit 3 --title "Go generics" --tags "go, types"
  skilllog edit 3 --completed`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			f := cmd.Flags()
			var patch types.SkillPatch
			if f.Changed("title") {
				patch.Title = &title
			}
			if f.Changed("content") {
				patch.Content = &content
			}
			if f.Changed("category") {
				patch.Category = &category
			}
			if f.Changed("tags") {
				patch.Tags = &tags
			}
			if f.Changed("pin") {
				level, err := parsePinLevel(pin)
				if err != nil {
					return err
				}
				patch.Pinned = level
			}
			if f.Changed("completed") {
				patch.Completed = &completed
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.Edit(id, patch); err != nil {
				return err
			}
			s, err := svc.Get(id)
			if err != nil {
				return err
			}
			return a.emit(s, fmt.Sprintf("Updated skill %d", id))
		},
	}

	f := cmd.Flags()
	f.StringVar(&title, "title", "", "new title")
	f.StringVarP(&content, "content", "c", "", "new free text")
	f.StringVar(&category, "category", "", "new category (empty clears)")
	f.StringVarP(&tags, "tags", "t", "", "new comma-separated tags (empty clears)")
	f.StringVarP(&pin, "pin", "p", "", "new pin level 0..5")
	f.BoolVar(&completed, "completed", false, "mark completed (--completed=false reopens)")
	return cmd
}
