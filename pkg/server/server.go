package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/datocol/hidroatlas/pkg/handlers/dashboard"
	"github.com/datocol/hidroatlas/pkg/services/dashboard"
	"github.com/datocol/hidroatlas/pkg/services/hierarchy"

	hidroatlasmiddleware "github.com/datocol/hidroatlas/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Explorer dashboard.Explorer
	Sessions *hierarchy.SessionManager
	Logger   zerolog.Logger
}

type Config struct {
	Addr            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	handler := handlers.NewHandler(config.Dependencies.Explorer, config.Dependencies.Sessions)

	router := chi.NewRouter()

	router.Use(hidroatlasmiddleware.Logger(&config.Dependencies.Logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Get("/health", handler.Health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/regions", handler.GetRegions)
		r.Get("/regions/{region}/rivers", handler.GetRegionRivers)
		r.Get("/regions/{region}/daily", handler.GetRegionDaily)
		r.Get("/rivers", handler.GetRivers)
		r.Get("/rivers/{river}/daily", handler.GetRiverDaily)
		r.Get("/reservoirs", handler.GetReservoirs)
		r.Post("/capacity/sessions", handler.CreateSession)
		r.Get("/capacity/sessions/{session}/view", handler.GetSessionView)
		r.Post("/capacity/sessions/{session}/toggle", handler.ToggleSession)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)

	return &WebAPI{
		router: router,
		logger: &config.Dependencies.Logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
