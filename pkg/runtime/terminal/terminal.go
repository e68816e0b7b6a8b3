package terminal

import (
	"context"
	"io"
	"os"

	"github.com/datocol/hidroatlas/pkg/runtime/terminal/commands"
	"github.com/datocol/hidroatlas/pkg/runtime/terminal/export"

	"github.com/datocol/hidroatlas/pkg/services/dashboard"
	"github.com/datocol/hidroatlas/pkg/services/verify"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	explorer dashboard.Explorer
	verifier *verify.Service
	reporter *export.Reporter
	init     func(ctx context.Context) error
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Explorer dashboard.Explorer
	Verifier *verify.Service
	// Init runs before any command, e.g. to build the entity catalogs.
	Init   func(ctx context.Context) error
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		explorer: opts.Explorer,
		verifier: opts.Verifier,
		reporter: export.NewReporter(opts.Output),
		init:     opts.Init,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hidroatlas",
		Short: "Hydrological contribution analysis tool",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cli.init == nil {
				return nil
			}
			return cli.init(cmd.Context())
		},
	}

	cmd.AddCommand(commands.NewVerifyCmd(cli.verifier, cli.reporter))
	cmd.AddCommand(commands.NewRegionsCmd(cli.explorer))
	cmd.AddCommand(commands.NewSharesCmd(cli.explorer))

	return cmd
}
