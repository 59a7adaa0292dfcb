package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/yonggyo1125/delivery-6h/internal/user"
)

type RegisterUserRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Password  string `json:"password" validate:"required,min=8"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Mobile    string `json:"mobile"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"omitempty,email"`
	Mobile    string `json:"mobile"`
	Password  string `json:"password" validate:"omitempty,min=8"`
}

type UpdateRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=USER OWNER MANAGER MASTER"`
}

type UserHandler struct {
	service  user.Service
	validate *validator.Validate
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Post("/users", h.handleRegisterUser)
	router.Post("/users/token", h.handleLogin)
	router.Patch("/users/{id}", h.handleUpdateUser)
	router.Put("/users/{id}/roles", h.handleUpdateRoles)
}

func (h *UserHandler) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var requestPayload RegisterUserRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	userID, err := h.service.Register(r.Context(), user.RegisterInput{
		Username:  requestPayload.Username,
		Password:  requestPayload.Password,
		Email:     requestPayload.Email,
		FirstName: requestPayload.FirstName,
		LastName:  requestPayload.LastName,
		Mobile:    requestPayload.Mobile,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to register user via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to register user")
		return
	}

	respondWithJSON(w, http.StatusCreated, createdResponse{ID: userID})
}

func (h *UserHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var requestPayload LoginRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	token, err := h.service.Login(r.Context(), requestPayload.Username, requestPayload.Password)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to generate token")
		return
	}

	respondWithJSON(w, http.StatusOK, token)
}

func (h *UserHandler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload UpdateUserRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	err := h.service.UpdateProfile(r.Context(), userID, user.UpdateInput{
		FirstName: requestPayload.FirstName,
		LastName:  requestPayload.LastName,
		Email:     requestPayload.Email,
		Mobile:    requestPayload.Mobile,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to update user via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update user")
		return
	}

	if requestPayload.Password != "" {
		if err := h.service.UpdatePassword(r.Context(), userID, requestPayload.Password); err != nil {
			log.Error().Err(err).Msg("Failed to update user password via service")
			respondWithError(w, mapErrorToStatusCode(err), "Failed to update user password")
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) handleUpdateRoles(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload UpdateRolesRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	if err := h.service.UpdateRoles(r.Context(), userID, requestPayload.Roles); err != nil {
		log.Error().Err(err).Msg("Failed to update user roles via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update user roles")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
