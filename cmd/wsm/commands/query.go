package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/wsm/internal/app"
	"go.trai.ch/wsm/internal/core/domain"
)

func (c *CLI) newSearchCmd() *cobra.Command {
	sorts := make([]string, len(domain.SearchSorts))
	for i, s := range domain.SearchSorts {
		sorts[i] = string(s)
	}

	cmd := &cobra.Command{
		Use:   "search <terms...>",
		Short: "Search the workshop",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sort, _ := cmd.Flags().GetString("sort")
			tags, _ := cmd.Flags().GetStringSlice("tag")
			return c.app.Search(cmd.Context(), args, app.SearchOptions{
				Sort: sort,
				Tags: tags,
			})
		},
	}
	cmd.Flags().StringP("sort", "s", "", "Result order: "+strings.Join(sorts, ", "))
	cmd.Flags().StringSliceP("tag", "t", nil, "Only show items with this tag (repeatable)")
	return cmd
}

func (c *CLI) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <id>",
		Short: "Show details of a workshop item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Info(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [pattern]",
		Aliases: []string{"ls"},
		Short:   "List installed workshop items",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			return c.app.List(cmd.Context(), pattern)
		},
	}
}

func (c *CLI) newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value...>",
		Short: "Change a setting: login <user> [password], install_dir <dir> or appid <id>",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Set(cmd.Context(), args[0], args[1:])
		},
	}
}
