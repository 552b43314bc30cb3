package transport

import (
	"errors"
	"net/http"
	"net/url"

	"toytopia/internal/domain"
	"toytopia/internal/middleware"
	"toytopia/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ToyHandler handles HTTP requests for toy operations
type ToyHandler struct {
	toyService service.ToyService
	logger     *zap.Logger
}

// NewToyHandler creates a new ToyHandler
func NewToyHandler(toyService service.ToyService, logger *zap.Logger) *ToyHandler {
	return &ToyHandler{
		toyService: toyService,
		logger:     logger,
	}
}

// RegisterRoutes registers all toy routes
func (h *ToyHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListToys)
	r.Get("/toySearchByText/{text}", h.SearchToys)
	r.Get("/categories", h.ListCategories)
	r.Post("/addToy", h.CreateToy)

	r.Route("/toys/{id}", func(r chi.Router) {
		r.Get("/", h.GetToy)
		r.Put("/", h.ReplaceToy)
		r.Delete("/", h.DeleteToy)
	})

	r.Route("/myToys", func(r chi.Router) {
		r.Get("/{email}", h.sellerToys(service.SortNone))
		r.Get("/ascending/{email}", h.sellerToys(service.SortAscending))
		r.Get("/descending/{email}", h.sellerToys(service.SortDescending))
	})
}

// ListToys handles listing the whole collection
func (h *ToyHandler) ListToys(w http.ResponseWriter, r *http.Request) {
	toys, err := h.toyService.ListToys(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err, "failed to list toys")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toys)
}

// SearchToys handles case-insensitive substring search over title and category
func (h *ToyHandler) SearchToys(w http.ResponseWriter, r *http.Request) {
	text := pathParam(r, "text")

	toys, err := h.toyService.SearchToys(r.Context(), text)
	if err != nil {
		h.respondWithServiceError(w, r, err, "failed to search toys")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toys)
}

// ListCategories handles the distinct category list
func (h *ToyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.toyService.ListCategories(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// GetToy handles fetching one toy by identifier
func (h *ToyHandler) GetToy(w http.ResponseWriter, r *http.Request) {
	id, ok := h.toyID(w, r)
	if !ok {
		return
	}

	toy, err := h.toyService.GetToy(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err, "failed to get toy")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toy)
}

// sellerToys handles the three /myToys variants, which differ only in order
func (h *ToyHandler) sellerToys(order service.SortOrder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := pathParam(r, "email")

		toys, err := h.toyService.ListSellerToys(r.Context(), email, order)
		if err != nil {
			h.respondWithServiceError(w, r, err, "failed to list seller toys")
			return
		}

		middleware.RespondWithJSON(w, http.StatusOK, toys)
	}
}

// CreateToy handles inserting a toy from the request body
func (h *ToyHandler) CreateToy(w http.ResponseWriter, r *http.Request) {
	var body domain.NewToy
	if err := middleware.DecodeJSON(r, &body); err != nil {
		h.logger.Debug("Create toy decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	toy := body.Toy()
	result, err := h.toyService.CreateToy(r.Context(), toy)
	if err != nil {
		h.respondWithServiceError(w, r, err, "failed to create toy")
		return
	}

	h.logger.Info("Toy created",
		zap.String("toy_id", result.InsertedID.Hex()),
		zap.String("seller_email", toy.SellerEmail),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, result)
}

// DeleteToy handles removing a toy by identifier
func (h *ToyHandler) DeleteToy(w http.ResponseWriter, r *http.Request) {
	id, ok := h.toyID(w, r)
	if !ok {
		return
	}

	result, err := h.toyService.DeleteToy(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err, "failed to delete toy")
		return
	}

	h.logger.Info("Toy deleted", zap.String("toy_id", id), zap.Int64("deleted", result.DeletedCount))
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// ReplaceToy handles replacing (or upserting) the mutable fields of a toy
func (h *ToyHandler) ReplaceToy(w http.ResponseWriter, r *http.Request) {
	id, ok := h.toyID(w, r)
	if !ok {
		return
	}

	var update domain.ToyUpdate
	if err := middleware.DecodeJSON(r, &update); err != nil {
		h.logger.Debug("Replace toy decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.toyService.ReplaceToy(r.Context(), id, update)
	if err != nil {
		h.respondWithServiceError(w, r, err, "failed to update toy")
		return
	}

	h.logger.Info("Toy replaced",
		zap.String("toy_id", id),
		zap.Int64("matched", result.MatchedCount),
		zap.Int64("upserted", result.UpsertedCount),
	)
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// toyID extracts and validates the {id} path parameter, replying 400 itself
// when it is malformed
func (h *ToyHandler) toyID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")

	if err := middleware.ValidateID(id); err != nil {
		h.logger.Debug("Toy id validation failed", zap.String("id", id), zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return "", false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid toy id")
		return "", false
	}

	return id, true
}

// pathParam returns a decoded path parameter. chi routes on the raw path
// whenever the request carries escaped characters, leaving params escaped.
func pathParam(r *http.Request, name string) string {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value
	}
	if unescaped, err := url.PathUnescape(value); err == nil {
		return unescaped
	}
	return value
}

// respondWithServiceError maps service errors onto HTTP statuses
func (h *ToyHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	requestID := chimiddleware.GetReqID(r.Context())

	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		h.logger.Debug(message, zap.String("request_id", requestID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrToyNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "toy not found")
	case errors.Is(err, service.ErrStoreUnavailable):
		h.logger.Error(message, zap.String("request_id", requestID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "toy store unavailable")
	default:
		h.logger.Error(message, zap.String("request_id", requestID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, message)
	}
}
