package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yonggyo1125/delivery-6h/internal/auth"
	"github.com/yonggyo1125/delivery-6h/internal/money"
	"github.com/yonggyo1125/delivery-6h/internal/store"
)

type OperationRequest struct {
	DayOfWeek   string `json:"day_of_week" validate:"required,oneof=SUNDAY MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY"`
	StartHour   string `json:"start_hour" validate:"omitempty,datetime=15:04"`
	EndHour     string `json:"end_hour" validate:"omitempty,datetime=15:04"`
	BreakStart1 string `json:"break_start_1" validate:"omitempty,datetime=15:04"`
	BreakEnd1   string `json:"break_end_1" validate:"omitempty,datetime=15:04"`
	BreakStart2 string `json:"break_start_2" validate:"omitempty,datetime=15:04"`
	BreakEnd2   string `json:"break_end_2" validate:"omitempty,datetime=15:04"`
}

type SubOptionRequest struct {
	Name     string `json:"name" validate:"required"`
	AddPrice int    `json:"add_price" validate:"gte=0"`
}

type ProductOptionRequest struct {
	Name       string             `json:"name" validate:"required"`
	Price      int                `json:"price" validate:"gte=0"`
	SubOptions []SubOptionRequest `json:"sub_options" validate:"omitempty,dive"`
}

type ProductRequest struct {
	ProductCode string                 `json:"product_code" validate:"required"`
	CategoryID  uuid.UUID              `json:"category_id" validate:"required"`
	Name        string                 `json:"name" validate:"required"`
	Price       int                    `json:"price" validate:"gte=0"`
	Options     []ProductOptionRequest `json:"options" validate:"omitempty,dive"`
}

type CreateStoreRequest struct {
	Name        string             `json:"name" validate:"required,min=1"`
	Landline    string             `json:"landline"`
	Email       string             `json:"email" validate:"omitempty,email"`
	Address     string             `json:"address" validate:"required"`
	CategoryIDs []uuid.UUID        `json:"category_ids"`
	Operations  []OperationRequest `json:"operations" validate:"omitempty,dive"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PREPARING OPEN CLOSED DEFUNCT"`
}

// ChangeInfoRequest fields are all optional; empty values leave the stored
// value untouched.
type ChangeInfoRequest struct {
	OwnerName string `json:"owner_name"`
	Name      string `json:"name"`
	Landline  string `json:"landline"`
	Email     string `json:"email" validate:"omitempty,email"`
	Address   string `json:"address"`
}

type CategoryIDsRequest struct {
	CategoryIDs []uuid.UUID `json:"category_ids" validate:"required,min=1"`
}

type OperationsRequest struct {
	Operations []OperationRequest `json:"operations" validate:"required,min=1,dive"`
}

type RemoveOperationsRequest struct {
	Idxes []int `json:"idxes" validate:"required,min=1"`
}

type RemoveProductsRequest struct {
	ProductCodes []string `json:"product_codes" validate:"required,min=1"`
}

type ChangeProductStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=READY SALE STOCK_OUT"`
}

type ProductOptionsRequest struct {
	Options []ProductOptionRequest `json:"options" validate:"required,min=1,dive"`
}

type RemoveProductOptionsRequest struct {
	Indexes []int `json:"indexes" validate:"required,min=1"`
}

type SubOptionResponse struct {
	Name     string `json:"name"`
	AddPrice int    `json:"add_price"`
}

type ProductOptionResponse struct {
	Name       string              `json:"name"`
	Price      int                 `json:"price"`
	SubOptions []SubOptionResponse `json:"sub_options,omitempty"`
}

type ProductResponse struct {
	ProductCode string                  `json:"product_code"`
	CategoryID  uuid.UUID               `json:"category_id"`
	Status      string                  `json:"status"`
	Name        string                  `json:"name"`
	Price       int                     `json:"price"`
	Options     []ProductOptionResponse `json:"options,omitempty"`
}

type OperationResponse struct {
	DayOfWeek   string `json:"day_of_week"`
	StartHour   string `json:"start_hour,omitempty"`
	EndHour     string `json:"end_hour,omitempty"`
	BreakStart1 string `json:"break_start_1,omitempty"`
	BreakEnd1   string `json:"break_end_1,omitempty"`
	BreakStart2 string `json:"break_start_2,omitempty"`
	BreakEnd2   string `json:"break_end_2,omitempty"`
}

type StoreResponse struct {
	ID          uuid.UUID           `json:"id"`
	Status      string              `json:"status"`
	Name        string              `json:"name"`
	Landline    string              `json:"landline,omitempty"`
	Email       string              `json:"email,omitempty"`
	Address     string              `json:"address"`
	Latitude    float64             `json:"latitude"`
	Longitude   float64             `json:"longitude"`
	CategoryIDs []uuid.UUID         `json:"category_ids,omitempty"`
	Operations  []OperationResponse `json:"operations,omitempty"`
	Products    []ProductResponse   `json:"products,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type OrderableResponse struct {
	Orderable bool `json:"orderable"`
}

type createdResponse struct {
	ID uuid.UUID `json:"id"`
}

var weekdays = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "SUNDAY",
	time.Monday:    "MONDAY",
	time.Tuesday:   "TUESDAY",
	time.Wednesday: "WEDNESDAY",
	time.Thursday:  "THURSDAY",
	time.Friday:    "FRIDAY",
	time.Saturday:  "SATURDAY",
}

type StoreHandler struct {
	service  store.Service
	validate *validator.Validate
}

func NewStoreHandler(service store.Service) *StoreHandler {
	return &StoreHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *StoreHandler) RegisterRoutes(router chi.Router) {
	router.Post("/stores", h.handleCreateStore)
	router.Get("/stores", h.handleSearchStores)
	router.Get("/stores/{id}", h.handleGetStore)
	router.Delete("/stores/{id}", h.handleRemoveStore)
	router.Patch("/stores/{id}/status", h.handleChangeStatus)
	router.Patch("/stores/{id}/info", h.handleChangeInfo)
	router.Get("/stores/{id}/orderable", h.handleIsOrderable)

	router.Post("/stores/{id}/categories", h.handleAddCategories)
	router.Put("/stores/{id}/categories", h.handleReplaceCategories)
	router.Delete("/stores/{id}/categories", h.handleRemoveCategories)
	router.Delete("/stores/{id}/categories/truncate", h.handleTruncateCategories)

	router.Post("/stores/{id}/operations", h.handleCreateOperations)
	router.Patch("/stores/{id}/operations/{idx}", h.handleChangeOperation)
	router.Delete("/stores/{id}/operations", h.handleRemoveOperations)

	router.Post("/stores/{id}/products", h.handleCreateProduct)
	router.Patch("/stores/{id}/products/{code}", h.handleChangeProduct)
	router.Delete("/stores/{id}/products", h.handleRemoveProducts)
	router.Patch("/stores/{id}/products/{code}/status", h.handleChangeProductStatus)

	router.Post("/stores/{id}/products/{code}/options", h.handleCreateProductOptions)
	router.Put("/stores/{id}/products/{code}/options", h.handleReplaceProductOptions)
	router.Delete("/stores/{id}/products/{code}/options", h.handleRemoveProductOptions)
	router.Delete("/stores/{id}/products/{code}/options/truncate", h.handleTruncateProductOptions)
}

func (h *StoreHandler) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var requestPayload CreateStoreRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	storeID, err := h.service.CreateStore(r.Context(), store.CreateStoreInput{
		OwnerID:     principal.ID,
		OwnerName:   principal.Name,
		Name:        requestPayload.Name,
		Landline:    requestPayload.Landline,
		Email:       requestPayload.Email,
		Address:     requestPayload.Address,
		CategoryIDs: requestPayload.CategoryIDs,
		Operations:  toOperationInputs(requestPayload.Operations),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create store via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create store")
		return
	}

	respondWithJSON(w, http.StatusCreated, createdResponse{ID: storeID})
}

func (h *StoreHandler) handleGetStore(w http.ResponseWriter, r *http.Request) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	foundStore, err := h.service.GetStore(r.Context(), storeID)
	if err != nil {
		if !errors.Is(err, store.ErrStoreNotFound) {
			log.Error().Err(err).Msg("Failed to get store via service")
		}
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get store")
		return
	}

	respondWithJSON(w, http.StatusOK, toStoreResponse(foundStore))
}

func (h *StoreHandler) handleSearchStores(w http.ResponseWriter, r *http.Request) {
	query := store.SearchQuery{
		Sido:      r.URL.Query().Get("sido"),
		Sigugun:   r.URL.Query()["sigugun"],
		StoreName: r.URL.Query().Get("name"),
		Contact:   r.URL.Query().Get("contact"),
		Keyword:   r.URL.Query().Get("keyword"),
	}

	for _, raw := range r.URL.Query()["category_id"] {
		categoryID, err := uuid.FromString(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid category_id parameter")
			return
		}
		query.CategoryIDs = append(query.CategoryIDs, categoryID)
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		query.Limit = limit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid offset parameter")
			return
		}
		query.Offset = offset
	}

	stores, err := h.service.SearchStores(r.Context(), query)
	if err != nil {
		log.Error().Err(err).Msg("Failed to search stores via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to search stores")
		return
	}

	responsePayload := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		responsePayload = append(responsePayload, toStoreResponse(&stores[i]))
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *StoreHandler) handleRemoveStore(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, func(storeID uuid.UUID) error {
		return h.service.RemoveStore(r.Context(), storeID)
	})
}

func (h *StoreHandler) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload ChangeStatusRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	status, err := store.ParseStoreStatus(requestPayload.Status)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid store status")
		return
	}

	if err := h.service.ChangeStoreStatus(r.Context(), storeID, status); err != nil {
		log.Error().Err(err).Msg("Failed to change store status via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to change store status")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) handleChangeInfo(w http.ResponseWriter, r *http.Request) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload ChangeInfoRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	err := h.service.ChangeStoreInfo(r.Context(), storeID, store.InfoParams{
		OwnerName: requestPayload.OwnerName,
		Name:      requestPayload.Name,
		Landline:  requestPayload.Landline,
		Email:     requestPayload.Email,
		Address:   requestPayload.Address,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to change store info via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to change store info")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) handleIsOrderable(w http.ResponseWriter, r *http.Request) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	orderable, err := h.service.IsOrderable(r.Context(), storeID, time.Now())
	if err != nil {
		if !errors.Is(err, store.ErrStoreNotFound) {
			log.Error().Err(err).Msg("Failed to evaluate orderability via service")
		}
		respondWithError(w, mapErrorToStatusCode(err), "Failed to evaluate orderability")
		return
	}

	respondWithJSON(w, http.StatusOK, OrderableResponse{Orderable: orderable})
}

func (h *StoreHandler) handleAddCategories(w http.ResponseWriter, r *http.Request) {
	h.categoryMutation(w, r, h.service.AddCategories)
}

func (h *StoreHandler) handleReplaceCategories(w http.ResponseWriter, r *http.Request) {
	h.categoryMutation(w, r, h.service.ReplaceCategories)
}

func (h *StoreHandler) handleRemoveCategories(w http.ResponseWriter, r *http.Request) {
	h.categoryMutation(w, r, h.service.RemoveCategories)
}

func (h *StoreHandler) handleTruncateCategories(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, func(storeID uuid.UUID) error {
		return h.service.TruncateCategories(r.Context(), storeID)
	})
}

func (h *StoreHandler) handleCreateOperations(w http.ResponseWriter, r *http.Request) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload OperationsRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	err := h.service.CreateOperations(r.Context(), storeID, toOperationInputs(requestPayload.Operations))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create operations via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create operations")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) handleChangeOperation(w http.ResponseWriter, r *http.Request) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid idx parameter")
		return
	}

	var requestPayload OperationRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	err = h.service.ChangeOperation(r.Context(), storeID, idx, toOperationInput(requestPayload))
	if err != nil {
		log.Error().Err(err).Msg("Failed to change operation via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to change operation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) handleRemoveOperations(w http.ResponseWriter, r *http.Request) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload RemoveOperationsRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	if err := h.service.RemoveOperations(r.Context(), storeID, requestPayload.Idxes); err != nil {
		log.Error().Err(err).Msg("Failed to remove operations via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to remove operations")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload ProductRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	if err := h.service.CreateProduct(r.Context(), storeID, toProductInput(requestPayload)); err != nil {
		log.Error().Err(err).Msg("Failed to create product via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) handleChangeProduct(w http.ResponseWriter, r *http.Request) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	productCode := chi.URLParam(r, "code")

	var requestPayload ProductRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	err := h.service.ChangeProduct(r.Context(), storeID, productCode, toProductInput(requestPayload))
	if err != nil {
		log.Error().Err(err).Msg("Failed to change product via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to change product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) handleRemoveProducts(w http.ResponseWriter, r *http.Request) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload RemoveProductsRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	if err := h.service.RemoveProducts(r.Context(), storeID, requestPayload.ProductCodes); err != nil {
		log.Error().Err(err).Msg("Failed to remove products via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to remove products")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) handleChangeProductStatus(w http.ResponseWriter, r *http.Request) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	productCode := chi.URLParam(r, "code")

	var requestPayload ChangeProductStatusRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	status, err := store.ParseProductStatus(requestPayload.Status)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product status")
		return
	}

	if err := h.service.ChangeProductStatus(r.Context(), storeID, productCode, status); err != nil {
		log.Error().Err(err).Msg("Failed to change product status via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to change product status")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) handleCreateProductOptions(w http.ResponseWriter, r *http.Request) {
	h.optionMutation(w, r, h.service.CreateProductOptions)
}

func (h *StoreHandler) handleReplaceProductOptions(w http.ResponseWriter, r *http.Request) {
	h.optionMutation(w, r, h.service.ReplaceProductOptions)
}

func (h *StoreHandler) handleRemoveProductOptions(w http.ResponseWriter, r *http.Request) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	productCode := chi.URLParam(r, "code")

	var requestPayload RemoveProductOptionsRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	err := h.service.RemoveProductOptions(r.Context(), storeID, productCode, requestPayload.Indexes)
	if err != nil {
		log.Error().Err(err).Msg("Failed to remove product options via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to remove product options")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) handleTruncateProductOptions(w http.ResponseWriter, r *http.Request) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	productCode := chi.URLParam(r, "code")

	if err := h.service.TruncateProductOptions(r.Context(), storeID, productCode); err != nil {
		log.Error().Err(err).Msg("Failed to truncate product options via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to truncate product options")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) mutation(w http.ResponseWriter, r *http.Request, fn func(storeID uuid.UUID) error) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := fn(storeID); err != nil {
		log.Error().Err(err).Msg("Failed to mutate store via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to mutate store")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) categoryMutation(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) error) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload CategoryIDsRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	if err := fn(r.Context(), storeID, requestPayload.CategoryIDs); err != nil {
		log.Error().Err(err).Msg("Failed to mutate store categories via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to mutate store categories")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) optionMutation(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID, productCode string, options []store.ProductOptionInput) error) {
	storeID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	productCode := chi.URLParam(r, "code")

	var requestPayload ProductOptionsRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	err := fn(r.Context(), storeID, productCode, toOptionInputs(requestPayload.Options))
	if err != nil {
		log.Error().Err(err).Msg("Failed to mutate product options via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to mutate product options")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.FromString(raw)
	if err != nil {
		log.Warn().Err(err).Str(name, raw).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}

func toOperationInputs(requests []OperationRequest) []store.OperationInput {
	inputs := make([]store.OperationInput, 0, len(requests))
	for _, request := range requests {
		inputs = append(inputs, toOperationInput(request))
	}
	return inputs
}

func toOperationInput(request OperationRequest) store.OperationInput {
	return store.OperationInput{
		DayOfWeek:   weekdays[request.DayOfWeek],
		StartHour:   request.StartHour,
		EndHour:     request.EndHour,
		BreakStart1: request.BreakStart1,
		BreakEnd1:   request.BreakEnd1,
		BreakStart2: request.BreakStart2,
		BreakEnd2:   request.BreakEnd2,
	}
}

func toProductInput(request ProductRequest) store.ProductInput {
	return store.ProductInput{
		ProductCode: request.ProductCode,
		CategoryID:  request.CategoryID,
		Name:        request.Name,
		Price:       request.Price,
		Options:     toOptionInputs(request.Options),
	}
}

func toOptionInputs(requests []ProductOptionRequest) []store.ProductOptionInput {
	if len(requests) == 0 {
		return nil
	}
	inputs := make([]store.ProductOptionInput, 0, len(requests))
	for _, request := range requests {
		subOptions := make([]store.SubOption, 0, len(request.SubOptions))
		for _, sub := range request.SubOptions {
			subOptions = append(subOptions, store.SubOption{Name: sub.Name, AddPrice: money.Price(sub.AddPrice)})
		}
		inputs = append(inputs, store.ProductOptionInput{
			Name:       request.Name,
			Price:      request.Price,
			SubOptions: subOptions,
		})
	}
	return inputs
}

func toStoreResponse(s *store.Store) StoreResponse {
	response := StoreResponse{
		ID:          s.ID,
		Status:      string(s.Status),
		Name:        s.Name,
		Landline:    s.Contact.Landline,
		Email:       s.Contact.Email,
		Address:     s.Location.Address,
		Latitude:    s.Location.Latitude,
		Longitude:   s.Location.Longitude,
		CategoryIDs: s.ActiveCategoryIDs(),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}

	for _, op := range s.Operations {
		operation := OperationResponse{DayOfWeek: weekdayNames[op.DayOfWeek]}
		if op.StartHour != nil {
			operation.StartHour = op.StartHour.String()
		}
		if op.EndHour != nil {
			operation.EndHour = op.EndHour.String()
		}
		if op.BreakHour1 != nil {
			operation.BreakStart1 = op.BreakHour1.Start.String()
			operation.BreakEnd1 = op.BreakHour1.End.String()
		}
		if op.BreakHour2 != nil {
			operation.BreakStart2 = op.BreakHour2.Start.String()
			operation.BreakEnd2 = op.BreakHour2.End.String()
		}
		response.Operations = append(response.Operations, operation)
	}

	for i := range s.Products {
		p := &s.Products[i]
		if p.DeletedAt != nil {
			continue
		}

		product := ProductResponse{
			ProductCode: p.ProductCode,
			CategoryID:  p.Category,
			Status:      string(p.Status),
			Name:        p.Name,
			Price:       p.Price.Int(),
		}
		for _, opt := range p.ActiveOptions() {
			option := ProductOptionResponse{
				Name:  opt.Name,
				Price: opt.Price.Int(),
			}
			for _, sub := range opt.SubOptions {
				option.SubOptions = append(option.SubOptions, SubOptionResponse{
					Name:     sub.Name,
					AddPrice: sub.AddPrice.Int(),
				})
			}
			product.Options = append(product.Options, option)
		}
		response.Products = append(response.Products, product)
	}

	return response
}
