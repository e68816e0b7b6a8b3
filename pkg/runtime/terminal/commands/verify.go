package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/datocol/hidroatlas/pkg/runtime/terminal/export"
	"github.com/datocol/hidroatlas/pkg/services/verify"

	"github.com/spf13/cobra"
)

type VerifyCmd struct {
	verifier *verify.Service
	reporter *export.Reporter
}

func NewVerifyCmd(verifier *verify.Service, reporter *export.Reporter) *cobra.Command {
	vc := &VerifyCmd{verifier: verifier, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Cross-check entity catalogs against series data",
		RunE:  vc.run,
	}
	return cmd
}

func (vc *VerifyCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	report, err := vc.verifier.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify relations: %w", err)
	}

	return vc.reporter.Handle(report)
}
