package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datocol/hidroatlas/pkg/models/domain"
	"github.com/datocol/hidroatlas/pkg/server"
	"github.com/datocol/hidroatlas/pkg/services/catalog"
	"github.com/datocol/hidroatlas/pkg/services/config"
	"github.com/datocol/hidroatlas/pkg/services/dashboard"
	"github.com/datocol/hidroatlas/pkg/services/hierarchy"
	"github.com/datocol/hidroatlas/pkg/services/xm"
	"github.com/datocol/hidroatlas/pkg/store/sqlite"
	"github.com/datocol/hidroatlas/pkg/store/sqlite/cache"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for HidroAtlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the YAML config file (defaults apply when omitted)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	if path := os.Getenv("HIDROATLAS_CONFIG"); cfgPath == "" && path != "" {
		cfgPath = path
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sqlite.NewDB(sqlite.Settings{DbPath: cfg.Cache.Path})
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	store, err := cache.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create cache store: %w", err)
	}

	live := xm.NewClient(xm.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	})
	client := xm.NewCachedClient(live, store, cfg.Cache.TTL)

	rivers := catalog.New(client, domain.MetricRiverCatalog)
	reservoirs := catalog.New(client, domain.MetricReservoirCatalog)
	if err := buildCatalogs(ctx, logger, rivers, reservoirs); err != nil {
		return err
	}

	refresher := catalog.NewRefresher(rivers, reservoirs)
	if err := refresher.Start(ctx, cfg.Catalog.RefreshSchedule); err != nil {
		return fmt.Errorf("failed to start catalog refresher: %w", err)
	}
	defer refresher.Stop()

	webAPI := server.NewWebAPI(server.Config{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Dependencies: server.Dependencies{
			Explorer: dashboard.NewExplorer(client, rivers, reservoirs),
			Sessions: hierarchy.NewSessionManager(),
			Logger:   logger,
		},
	})

	return webAPI.Start()
}

func buildCatalogs(ctx context.Context, logger zerolog.Logger, catalogs ...*catalog.Catalog) error {
	for _, c := range catalogs {
		if err := c.Build(ctx); err != nil {
			return fmt.Errorf("failed to build entity catalog: %w", err)
		}
		logger.Info().Int("entities", c.Len()).Msg("entity catalog loaded")
	}
	return nil
}
