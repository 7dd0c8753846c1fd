package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one skill in full",
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
			return a.emit(s, skillDetail(s, svc.Location()))
		},
	}
}
