package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mystore/storefront/internal/admin"
	"github.com/mystore/storefront/internal/order"
)

// AdminHandler serves the order-management side: the verification queue,
// dashboard stats and the approve action. Approval goes through the same
// order lifecycle service the buyer endpoints use.
type AdminHandler struct {
	orders order.Service
	svc    admin.Service
}

func NewAdminHandler(orders order.Service, svc admin.Service) *AdminHandler {
	return &AdminHandler{orders: orders, svc: svc}
}

func (h *AdminHandler) RegisterRoutes(router chi.Router) {
	router.Get("/orders/pending", h.handlePendingOrders)
	router.Get("/orders/stats", h.handleStats)
	router.Get("/orders/{id}/logs", h.handleOrderLogs)
	router.Post("/orders/{id}/approve", h.handleApprove)
}

func (h *AdminHandler) handlePendingOrders(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIDFromRequest(r); !ok {
		respondWithError(w, http.StatusUnauthorized, "Admin identity required")
		return
	}

	summaries, err := h.svc.PendingManualOrders(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list pending manual orders via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list pending orders")
		return
	}

	respondWithJSON(w, http.StatusOK, summaries)
}

func (h *AdminHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIDFromRequest(r); !ok {
		respondWithError(w, http.StatusUnauthorized, "Admin identity required")
		return
	}

	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load order stats via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to load stats")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) handleOrderLogs(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIDFromRequest(r); !ok {
		respondWithError(w, http.StatusUnauthorized, "Admin identity required")
		return
	}

	orderID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	entries, err := h.svc.LogsForOrder(r.Context(), orderID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load admin logs via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to load logs")
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

func (h *AdminHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	adminID, ok := adminIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Admin identity required")
		return
	}

	orderID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	if err := h.orders.Approve(r.Context(), orderID, adminID); err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			respondWithError(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, order.ErrPreconditionFailed):
			// Surfaced verbatim so the admin sees why the approval failed.
			respondWithError(w, http.StatusConflict, err.Error())
		default:
			log.Error().Err(err).Msg("Failed to approve order via service")
			respondWithError(w, mapErrorToStatusCode(err), "Error approving order")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": order.StatusActive.String()})
}
