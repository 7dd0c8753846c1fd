package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newMemoCmd() *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "memo [text...]",
		Short: "Save a quick memo",
		Long: `Save text as a quick memo titled "ChatMemo". Without text, the saved
draft is sent instead. Sending a memo clears the draft.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			level := -1
			if cmd.Flags().Changed("pin") {
				if level, err = parsePinLevel(pin); err != nil {
					return err
				}
			}
			if strings.TrimSpace(text) == "" {
				draft, ok, err := svc.LoadDraft()
				if err != nil {
					return err
				}
				if ok {
					text = draft.Content
					if level < 0 {
						level = draft.Pinned
					}
				}
			}
			if level < 0 {
				level = 0
			}

			id, err := svc.QuickMemo(text, level)
			if err != nil {
				return err
			}
			return a.emit(map[string]int64{"id": id}, fmt.Sprintf("Saved memo %d", id))
		},
	}

	cmd.Flags().StringVarP(&pin, "pin", "p", "0", "pin level 0..5")
	return cmd
}
