package commands

import (
	"fmt"
	"strings"

	"github.com/datocol/hidroatlas/pkg/services/dashboard"
	"github.com/spf13/cobra"
)

type RegionsCmd struct {
	explorer dashboard.Explorer
}

func NewRegionsCmd(explorer dashboard.Explorer) *cobra.Command {
	rc := &RegionsCmd{explorer: explorer}
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the known hydrological regions",
		RunE:  rc.run,
	}
	return cmd
}

func (rc *RegionsCmd) run(cmd *cobra.Command, args []string) error {
	regions := rc.explorer.Regions(cmd.Context())
	if len(regions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No regions found, the catalog may be empty.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Hydrological regions:\n%s\n", strings.Join(regions, "\n"))
	return nil
}
