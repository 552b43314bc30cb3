package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"toytopia/internal/config"
	custommiddleware "toytopia/internal/middleware"
	"toytopia/internal/repository"
	"toytopia/internal/service"
	"toytopia/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config  *config.Config
	logger  *zap.Logger
	toyRepo repository.ToyRepository
}

// NewRouter builds the chi router serving every toy route plus /health
func NewRouter(cfg *config.Config, logger *zap.Logger, toyService service.ToyService) chi.Router {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack(logger)...)
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := toyService.Ping(ctx); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			custommiddleware.RespondWithError(w, http.StatusServiceUnavailable, "toy store unavailable")
			return
		}
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	toyHandler := transport.NewToyHandler(toyService, logger)
	toyHandler.RegisterRoutes(router)

	return router
}

func NewServer(cfg *config.Config, logger *zap.Logger, toyRepo repository.ToyRepository) *Server {
	toyService := service.NewToyService(toyRepo)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      NewRouter(cfg, logger, toyService),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:  cfg,
		logger:  logger,
		toyRepo: toyRepo,
	}

	return server
}

// Close releases the toy store handle. Call it after Shutdown.
func (s *Server) Close(ctx context.Context) error {
	s.logger.Info("Closing server resources")

	if s.toyRepo != nil {
		if err := s.toyRepo.Close(ctx); err != nil {
			s.logger.Error("Failed to close toy store", zap.Error(err))
			return err
		}
	}

	return nil
}
