package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/skilllog/internal/query"
)

func (a *app) newPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Raise the pin level by one, wrapping from 5 to 0",
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
			level, err := svc.CyclePin(id)
			if err != nil {
				return err
			}
			return a.emit(
				map[string]any{"id": id, "pinned": level},
				fmt.Sprintf("Skill %d pinned %s", id, query.PinStars(level)),
			)
		},
	}
}

func (a *app) newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle whether a skill is completed",
		Long:  "Toggle completion. Completing a skill unpins it; reopening keeps its pin level.",
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
			done, err := svc.ToggleCompletion(id)
			if err != nil {
				return err
			}
			verb := "reopened"
			if done {
				verb = "completed"
			}
			return a.emit(
				map[string]any{"id": id, "completed": done},
				fmt.Sprintf("Skill %d %s", id, verb),
			)
		},
	}
}
