package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mystore/storefront/internal/address"
	"github.com/mystore/storefront/internal/cart"
	"github.com/mystore/storefront/internal/catalog"
	"github.com/mystore/storefront/internal/delivery"
	"github.com/mystore/storefront/internal/order"
	"github.com/mystore/storefront/internal/user"
)

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// mapErrorToStatusCode translates domain sentinels into HTTP codes.
// Anything unrecognised is a storage-level failure and stays a generic 500
// so internals never leak to the client.
func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, address.ErrAddressNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, cart.ErrNotInCart):
		return http.StatusNotFound
	case errors.Is(err, user.ErrEmailExists),
		errors.Is(err, address.ErrAddressInUse),
		errors.Is(err, order.ErrPreconditionFailed):
		return http.StatusConflict
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrUnsupportedPayment),
		errors.Is(err, delivery.ErrUnknownOption),
		errors.Is(err, address.ErrInvalidAddress),
		errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, cart.ErrZeroDelta):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrPaymentNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
