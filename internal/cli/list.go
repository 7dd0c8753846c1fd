package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/skilllog/internal/query"
)

// listFlags holds the view selectors given on the command line.
type listFlags struct {
	tab      string
	category string
	tag      string
	sort     string
	pin      string
}

// apply parses the flags into state.
func (lf listFlags) apply(state *query.State) error {
	tab, err := query.ParseTab(lf.tab)
	if err != nil {
		return err
	}
	order, err := query.ParseSort(lf.sort)
	if err != nil {
		return err
	}
	pin, err := query.ParsePinFilter(lf.pin)
	if err != nil {
		return err
	}
	if err := state.SetTab(tab); err != nil {
		return err
	}
	if err := state.SetSort(order); err != nil {
		return err
	}
	if err := state.SetPin(pin); err != nil {
		return err
	}
	state.SetCategory(lf.category)
	state.SetTag(lf.tag)
	return nil
}

func (a *app) newListCmd() *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List skills",
		Long: `List skills through one of three tabs:

  all      every skill
  pinned   pinned skills only; --pin narrows to one level
  monthly  every skill, grouped by the month it was created

--category and --tag filter every tab. --pin applies to the pinned tab only.`,
		Example: `  skilllog list --tab pinned --pin 5
  skilllog list --tab monthly --sort desc
  skilllog list --category lang --tag go`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			sess := svc.NewSession()
			defer sess.Close()
			if err := lf.apply(sess.State()); err != nil {
				return err
			}
			p, err := sess.Projection()
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return a.printJSON(p)
			}
			a.printProjection(p)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&lf.tab, "tab", string(query.TabAll), "all, pinned or monthly")
	f.StringVar(&lf.category, "category", "", "only this category")
	f.StringVar(&lf.tag, "tag", "", "only skills carrying this tag")
	f.StringVar(&lf.sort, "sort", string(query.SortAsc), "creation order: asc or desc")
	f.StringVar(&lf.pin, "pin", "any", "pinned tab level: any or 1..5")
	return cmd
}

func (a *app) printProjection(p query.Projection) {
	if len(p.Skills) == 0 {
		fmt.Fprintln(a.stdout, "No skills.")
		return
	}
	if p.View.Tab != query.TabMonthly {
		for _, s := range p.Skills {
			fmt.Fprintln(a.stdout, skillLine(s))
		}
		return
	}
	for i, g := range p.Months {
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}
		fmt.Fprintf(a.stdout, "%s (%d)\n", g.Key, len(g.Skills))
		for _, s := range g.Skills {
			fmt.Fprintln(a.stdout, skillLine(s))
		}
	}
}
