package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datocol/hidroatlas/pkg/models/domain"
	"github.com/datocol/hidroatlas/pkg/runtime/terminal"
	"github.com/datocol/hidroatlas/pkg/services/catalog"
	"github.com/datocol/hidroatlas/pkg/services/config"
	"github.com/datocol/hidroatlas/pkg/services/dashboard"
	"github.com/datocol/hidroatlas/pkg/services/verify"
	"github.com/datocol/hidroatlas/pkg/services/xm"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("HIDROATLAS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client := xm.NewClient(xm.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	})

	rivers := catalog.New(client, domain.MetricRiverCatalog)
	reservoirs := catalog.New(client, domain.MetricReservoirCatalog)

	cli := terminal.NewCLI(terminal.Options{
		Explorer: dashboard.NewExplorer(client, rivers, reservoirs),
		Verifier: verify.NewService(client, rivers, reservoirs),
		Init: func(ctx context.Context) error {
			for _, c := range []*catalog.Catalog{rivers, reservoirs} {
				if err := c.Build(ctx); err != nil {
					return fmt.Errorf("failed to build entity catalog: %w", err)
				}
			}
			return nil
		},
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
