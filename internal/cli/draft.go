package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/skilllog/internal/service"
)

func (a *app) newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Keep an unsent quick memo",
		Long:  `Keep the text of a quick memo between runs. "skilllog memo" with no text sends it.`,
	}
	cmd.AddCommand(a.newDraftSaveCmd(), a.newDraftShowCmd(), a.newDraftClearCmd())
	return cmd
}

func (a *app) newDraftSaveCmd() *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "save <text...>",
		Short: "Save the draft, replacing any earlier one",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parsePinLevel(pin)
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			d := service.Draft{Content: strings.Join(args, " "), Pinned: level}
			if err := svc.SaveDraft(d); err != nil {
				return err
			}
			return a.emit(d, "Draft saved")
		},
	}
	cmd.Flags().StringVarP(&pin, "pin", "p", "0", "pin level 0..5")
	return cmd
}

func (a *app) newDraftShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved draft",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			d, ok, err := svc.LoadDraft()
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				if !ok {
					return a.printJSON(nil)
				}
				return a.printJSON(d)
			}
			if !ok {
				fmt.Fprintln(a.stdout, "No draft.")
				return nil
			}
			fmt.Fprintf(a.stdout, "Pin: %d\n%s\n", d.Pinned, d.Content)
			return nil
		},
	}
}

func (a *app) newDraftClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the saved draft",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.ClearDraft(); err != nil {
				return err
			}
			return a.emit(map[string]bool{"cleared": true}, "Draft cleared")
		},
	}
}
