package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mystore/storefront/internal/address"
	"github.com/mystore/storefront/internal/delivery"
	"github.com/mystore/storefront/internal/order"
)

type CheckoutRequest struct {
	AddressID      string `json:"address_id" validate:"required,uuid4"`
	DeliveryOption string `json:"delivery_option" validate:"required"`
	PaymentMethod  string `json:"payment_method" validate:"required"`
}

type CheckoutResponse struct {
	Order        *order.Order               `json:"order"`
	GrandTotal   int64                      `json:"grand_total"`
	Instructions *order.PaymentInstructions `json:"payment_instructions"`
}

type OrderResponse struct {
	Order      *order.Order `json:"order"`
	GrandTotal int64        `json:"grand_total"`
}

type OrderListResponse struct {
	Orders []order.Order `json:"orders"`
	Total  int           `json:"total"`
	Page   int           `json:"page"`
}

type ReorderResponse struct {
	LinesRestored int `json:"lines_restored"`
}

type OrderHandler struct {
	svc      order.Service
	validate *validator.Validate
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc, validate: validator.New()}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/checkout", h.handleCheckout)
	router.Get("/orders", h.handleListOrders)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Post("/orders/{id}/confirm-payment", h.handleConfirmPayment)
	router.Post("/orders/{id}/cancel", h.handleCancel)
	router.Post("/orders/{id}/reorder", h.handleReorder)
	router.Get("/delivery-options", h.handleDeliveryOptions)
}

func (h *OrderHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	var payload CheckoutRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Validation failed: %v", validationErrors))
		} else {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	addressID, err := uuid.FromString(payload.AddressID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid address id")
		return
	}

	placed, instructions, err := h.svc.PlaceOrder(r.Context(), userID, order.PlaceOrderInput{
		AddressID:      addressID,
		DeliveryOption: payload.DeliveryOption,
		PaymentMethod:  payload.PaymentMethod,
	})
	if err != nil {
		statusCode := mapErrorToStatusCode(err)

		var clientMessage string
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			clientMessage = "Your cart is empty"
		case errors.Is(err, delivery.ErrUnknownOption):
			clientMessage = "Please select a valid delivery option"
		case errors.Is(err, order.ErrUnsupportedPayment):
			clientMessage = "Please select a valid payment method"
		case errors.Is(err, address.ErrAddressNotFound):
			clientMessage = "Invalid address selected"
		case errors.Is(err, order.ErrPaymentNotConfigured):
			clientMessage = "Payment configuration is incomplete. Please contact support."
		default:
			log.Error().Err(err).Msg("Failed to place order via service")
			clientMessage = "Error processing your order"
		}

		respondWithError(w, statusCode, clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, CheckoutResponse{
		Order:        placed,
		GrandTotal:   placed.GrandTotal(),
		Instructions: instructions,
	})
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	params := order.ListParams{
		Status: order.Status(r.URL.Query().Get("status")),
		Page:   page,
	}

	orders, total, err := h.svc.ListByUser(r.Context(), userID, params)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list orders")
		return
	}

	if params.Page < 1 {
		params.Page = 1
	}
	respondWithJSON(w, http.StatusOK, OrderListResponse{Orders: orders, Total: total, Page: params.Page})
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	orderID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	o, err := h.svc.GetByID(r.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get order via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get order")
		return
	}

	respondWithJSON(w, http.StatusOK, OrderResponse{Order: o, GrandTotal: o.GrandTotal()})
}

func (h *OrderHandler) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	orderID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	if err := h.svc.ConfirmPayment(r.Context(), orderID, userID); err != nil {
		if errors.Is(err, order.ErrPreconditionFailed) {
			respondWithError(w, http.StatusConflict, "This order cannot be confirmed for payment at this time")
			return
		}
		log.Error().Err(err).Msg("Failed to confirm payment via service")
		respondWithError(w, mapErrorToStatusCode(err), "Error confirming payment")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": order.StatusPendingVerification.String()})
}

func (h *OrderHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	orderID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	if err := h.svc.Cancel(r.Context(), orderID, userID); err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			respondWithError(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, order.ErrPreconditionFailed):
			respondWithError(w, http.StatusConflict, "Only orders awaiting payment or verification can be cancelled")
		default:
			log.Error().Err(err).Msg("Failed to cancel order via service")
			respondWithError(w, mapErrorToStatusCode(err), "Failed to cancel order")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": order.StatusCancelled.String()})
}

func (h *OrderHandler) handleReorder(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	orderID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	restored, err := h.svc.Reorder(r.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Error().Err(err).Msg("Failed to reorder via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to reorder")
		return
	}

	respondWithJSON(w, http.StatusOK, ReorderResponse{LinesRestored: restored})
}

func (h *OrderHandler) handleDeliveryOptions(w http.ResponseWriter, r *http.Request) {
	options := delivery.Options()
	resp := make([]map[string]interface{}, 0, len(options))
	for _, option := range options {
		fee, err := delivery.ResolveFee(option)
		if err != nil {
			continue
		}
		resp = append(resp, map[string]interface{}{"option": option, "fee_amount": fee})
	}
	respondWithJSON(w, http.StatusOK, resp)
}
