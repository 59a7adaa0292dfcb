package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yonggyo1125/delivery-6h/internal/category"
)

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategoryHandler struct {
	service  category.Service
	validate *validator.Validate
}

func NewCategoryHandler(service category.Service) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *CategoryHandler) RegisterRoutes(router chi.Router) {
	router.Post("/categories", h.handleCreateCategory)
	router.Get("/categories", h.handleListCategories)
	router.Get("/categories/{id}", h.handleGetCategory)
	router.Patch("/categories/{id}", h.handleRenameCategory)
	router.Delete("/categories/{id}", h.handleRemoveCategory)
}

func (h *CategoryHandler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var requestPayload CategoryRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	categoryID, err := h.service.CreateCategory(r.Context(), requestPayload.Name)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create category via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create category")
		return
	}

	respondWithJSON(w, http.StatusCreated, createdResponse{ID: categoryID})
}

func (h *CategoryHandler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list categories via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list categories")
		return
	}

	responsePayload := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responsePayload = append(responsePayload, toCategoryResponse(&c))
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *CategoryHandler) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	foundCategory, err := h.service.GetCategory(r.Context(), categoryID)
	if err != nil {
		if !errors.Is(err, category.ErrCategoryNotFound) {
			log.Error().Err(err).Msg("Failed to get category via service")
		}
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get category")
		return
	}

	respondWithJSON(w, http.StatusOK, toCategoryResponse(foundCategory))
}

func (h *CategoryHandler) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload CategoryRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	if err := h.service.RenameCategory(r.Context(), categoryID, requestPayload.Name); err != nil {
		log.Error().Err(err).Msg("Failed to rename category via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to rename category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.RemoveCategory(r.Context(), categoryID); err != nil {
		log.Error().Err(err).Msg("Failed to remove category via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to remove category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toCategoryResponse(c *category.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
