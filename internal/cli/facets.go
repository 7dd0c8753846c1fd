package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories in use",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printFacet(func(categories, _ []string) []string { return categories })
		},
	}
}

func (a *app) newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the tags in use",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printFacet(func(_, tags []string) []string { return tags })
		},
	}
}

func (a *app) printFacet(pick func(categories, tags []string) []string) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	f, err := svc.Facets()
	if err != nil {
		return err
	}
	values := pick(f.Categories, f.Tags)
	if a.flags.jsonMode {
		return a.printJSON(values)
	}
	if len(values) > 0 {
		fmt.Fprintln(a.stdout, strings.Join(values, "\n"))
	}
	return nil
}
