package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/skilllog/internal/query"
	"github.com/mesh-intelligence/skilllog/pkg/types"
)

const displayTimeLayout = "2006-01-02 15:04"

// printJSON writes v as indented JSON.
func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// emit prints v as JSON in --json mode and text otherwise.
func (a *app) emit(v any, text string) error {
	if a.flags.jsonMode {
		return a.printJSON(v)
	}
	fmt.Fprintln(a.stdout, text)
	return nil
}

// skillLine renders a skill on one line for list output.
func skillLine(s types.Skill) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%4d  %s  %s", s.ID, query.PinStars(s.Pinned), s.Title)
	if s.Completed {
		b.WriteString("  [done]")
	}
	if s.Category != "" {
		fmt.Fprintf(&b, "  (%s)", s.Category)
	}
	for _, t := range s.TagList() {
		fmt.Fprintf(&b, " #%s", t)
	}
	return b.String()
}

// skillDetail renders every field of a skill.
func skillDetail(s types.Skill, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:        %d\n", s.ID)
	fmt.Fprintf(&b, "Title:     %s\n", s.Title)
	fmt.Fprintf(&b, "Pinned:    %s (%d)\n", query.PinStars(s.Pinned), s.Pinned)
	fmt.Fprintf(&b, "Completed: %s\n", yesNo(s.Completed))
	fmt.Fprintf(&b, "Category:  %s\n", s.Category)
	fmt.Fprintf(&b, "Tags:      %s\n", strings.Join(s.TagList(), ", "))
	fmt.Fprintf(&b, "Created:   %s\n", s.CreatedAt.In(loc).Format(displayTimeLayout))
	fmt.Fprintf(&b, "Updated:   %s", s.UpdatedAt.In(loc).Format(displayTimeLayout))
	if s.Content != "" {
		fmt.Fprintf(&b, "\n\n%s", s.Content)
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// parseID reads a skill id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid skill id %q", types.ErrValidation, arg)
	}
	return id, nil
}

// parsePinLevel reads a pin level flag. Unlike stored values, flags are
// checked strictly rather than coerced.
func parsePinLevel(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < types.PinNone || n > types.MaxPinLevel {
		return 0, fmt.Errorf("%w: pin level %q must be 0..%d", types.ErrValidation, arg, types.MaxPinLevel)
	}
	return n, nil
}

// exactArgs is cobra.ExactArgs with errors marked as usage errors.
func exactArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: accepts %d arg(s), received %d", errUsage, n, len(args))
		}
		return nil
	}
}

// maxArgs is cobra.MaximumNArgs with errors marked as usage errors.
func maxArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) > n {
			return fmt.Errorf("%w: accepts at most %d arg(s), received %d", errUsage, n, len(args))
		}
		return nil
	}
}
