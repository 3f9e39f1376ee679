package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/wsm/internal/app"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <id...>",
		Short: "Install workshop items and their dependencies",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Install(cmd.Context(), args, app.InstallOptions{Yes: c.yes})
		},
	}
}

func (c *CLI) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id...>",
		Aliases: []string{"uninstall"},
		Short:   "Remove installed workshop items, keeping their dependencies",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Remove(cmd.Context(), args, app.RemoveOptions{Yes: c.yes})
		},
	}
}

func (c *CLI) newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "update [id...]",
		Aliases: []string{"upgrade"},
		Short:   "Update installed workshop items, all of them when no id is given",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Update(cmd.Context(), args, app.UpdateOptions{Yes: c.yes})
		},
	}
}
