// Package commands implements the CLI commands for the wsm workshop manager.
package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.trai.ch/wsm/internal/app"
	"go.trai.ch/wsm/internal/build"
	"go.trai.ch/wsm/internal/core/ports"
)

// CLI represents the command line interface for wsm.
type CLI struct {
	app     *app.App
	logger  ports.Logger
	rootCmd *cobra.Command

	yes       bool
	verbosity int
	quiet     bool
}

// New creates a new CLI instance with the given app.
// logger receives the level chosen by -v and -q.
func New(a *app.App, logger ports.Logger) *CLI {
	c := &CLI{
		app:    a,
		logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:               "wsm",
		Short:             "A package manager for Steam Workshop items",
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           build.Version,
		PersistentPreRunE: c.applyVerbosity,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&c.yes, "yes", "y", false, "Answer yes to all confirmations")
	flags.CountVarP(&c.verbosity, "verbosity", "v", "Print debug output, including steamcmd progress")
	flags.BoolVarP(&c.quiet, "quiet", "q", false, "Only print warnings and errors")
	rootCmd.MarkFlagsMutuallyExclusive("verbosity", "quiet")

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newSearchCmd())
	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newRemoveCmd())
	rootCmd.AddCommand(c.newUpdateCmd())
	rootCmd.AddCommand(c.newInfoCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newSetCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output such as help and version. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

func (c *CLI) applyVerbosity(_ *cobra.Command, _ []string) error {
	switch {
	case c.verbosity > 0:
		c.logger.SetLevel(slog.LevelDebug)
	case c.quiet:
		c.logger.SetLevel(slog.LevelWarn)
	}
	return nil
}
