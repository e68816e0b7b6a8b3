package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/datocol/hidroatlas/pkg/models/domain"
	"github.com/datocol/hidroatlas/pkg/services/dashboard"
	"github.com/spf13/cobra"
)

type SharesCmd struct {
	region   string
	duration int
	explorer dashboard.Explorer
}

func NewSharesCmd(explorer dashboard.Explorer) *cobra.Command {
	sc := &SharesCmd{explorer: explorer}
	cmd := &cobra.Command{
		Use:   "shares",
		Short: "Show contribution shares by region or by river",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.region, "region", "", "Limit to rivers of one region")
	cmd.Flags().IntVar(&sc.duration, "duration", 30, "Duration in days to analyze")

	return cmd
}

func (sc *SharesCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	end := time.Now()
	period := domain.Period(end.AddDate(0, 0, -sc.duration), end)

	var rows []domain.Share
	var err error
	if sc.region == "" {
		rows, err = sc.explorer.RegionContributions(ctx, period)
	} else {
		rows, err = sc.explorer.RiverContributions(ctx, period, sc.region)
	}
	if err != nil {
		return fmt.Errorf("failed to compute contribution shares: %w", err)
	}

	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No observations for the requested period.")
		return nil
	}

	for _, row := range rows {
		fmt.Fprintf(cmd.OutOrStdout(), "%-40s %12.2f %7.2f%%\n", row.Name, row.Total, row.Percentage)
	}
	return nil
}
