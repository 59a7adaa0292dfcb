package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yonggyo1125/delivery-6h/internal/auth"
	"github.com/yonggyo1125/delivery-6h/internal/order"
)

type OrderItemRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	ItemName string    `json:"item_name" validate:"required"`
	Price    int       `json:"price" validate:"gte=0"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	Address       string             `json:"address" validate:"required"`
	AddressDetail string             `json:"address_detail"`
	Memo          string             `json:"memo"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderItemResponse struct {
	ItemID     uuid.UUID `json:"item_id"`
	ItemName   string    `json:"item_name"`
	Price      int       `json:"price"`
	Quantity   int       `json:"quantity"`
	TotalPrice int       `json:"total_price"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrdererID       uuid.UUID           `json:"orderer_id"`
	OrdererName     string              `json:"orderer_name"`
	OrdererEmail    string              `json:"orderer_email"`
	Address         string              `json:"address"`
	AddressDetail   string              `json:"address_detail,omitempty"`
	Memo            string              `json:"memo,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	TotalOrderPrice int                 `json:"total_order_price"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/orders", h.handleCreateOrder)
	router.Get("/orders", h.handleListMyOrders)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Post("/orders/{id}/cancel", h.handleCancelOrder)
	router.Post("/orders/{id}/payment-confirm", h.handleConfirmPayment)
	router.Post("/orders/{id}/delivery", h.handleStartDelivery)
	router.Post("/orders/{id}/delivery-done", h.handleCompleteDelivery)
	router.Post("/orders/{id}/done", h.handleCompleteOrder)
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var requestPayload CreateOrderRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	items := make([]order.OrderItemInput, 0, len(requestPayload.Items))
	for _, item := range requestPayload.Items {
		items = append(items, order.OrderItemInput{
			ItemID:   item.ItemID,
			ItemName: item.ItemName,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	orderID, err := h.service.CreateOrder(r.Context(), order.CreateOrderInput{
		OrdererID:     principal.ID,
		OrdererName:   principal.Name,
		OrdererEmail:  principal.Email,
		Address:       requestPayload.Address,
		AddressDetail: requestPayload.AddressDetail,
		Memo:          requestPayload.Memo,
		Items:         items,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create order via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create order")
		return
	}

	respondWithJSON(w, http.StatusCreated, createdResponse{ID: orderID})
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	foundOrder, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		if !errors.Is(err, order.ErrOrderNotFound) {
			log.Error().Err(err).Msg("Failed to get order via service")
		}
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get order")
		return
	}

	respondWithJSON(w, http.StatusOK, toOrderResponse(foundOrder))
}

func (h *OrderHandler) handleListMyOrders(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	orders, err := h.service.GetOrdersByOrderer(r.Context(), principal.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list orders")
		return
	}

	responsePayload := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responsePayload = append(responsePayload, toOrderResponse(&orders[i]))
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *OrderHandler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CancelOrder, "Failed to cancel order")
}

func (h *OrderHandler) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ConfirmPayment, "Failed to confirm payment")
}

func (h *OrderHandler) handleStartDelivery(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.StartDelivery, "Failed to start delivery")
}

func (h *OrderHandler) handleCompleteDelivery(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CompleteDelivery, "Failed to complete delivery")
}

func (h *OrderHandler) handleCompleteOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CompleteOrder, "Failed to complete order")
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) error, clientMessage string) {
	orderID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := fn(r.Context(), orderID); err != nil {
		log.Error().Err(err).Msg("Failed to transition order via service")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ItemID:     item.Item.ID,
			ItemName:   item.Item.Name,
			Price:      item.Price.Int(),
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice.Int(),
		})
	}

	return OrderResponse{
		ID:              o.ID,
		OrdererID:       o.Orderer.ID,
		OrdererName:     o.Orderer.Name,
		OrdererEmail:    o.Orderer.Email,
		Address:         o.DeliveryInfo.Address,
		AddressDetail:   o.DeliveryInfo.AddressDetail,
		Memo:            o.DeliveryInfo.Memo,
		Items:           items,
		TotalOrderPrice: o.TotalOrderPrice.Int(),
		Status:          o.Status.String(),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
