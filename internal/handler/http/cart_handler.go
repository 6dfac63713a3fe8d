package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mystore/storefront/internal/cart"
	"github.com/mystore/storefront/internal/catalog"
)

type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
}

// Delta may be negative (decrement) but never zero.
type ChangeQuantityRequest struct {
	Delta int `json:"delta" validate:"ne=0"`
}

type CartHandler struct {
	svc      cart.Service
	validate *validator.Validate
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc, validate: validator.New()}
}

func (h *CartHandler) RegisterRoutes(router chi.Router) {
	router.Get("/cart", h.handleGetCart)
	router.Post("/cart/items", h.handleAddItem)
	router.Patch("/cart/items/{productID}", h.handleChangeQuantity)
}

func (h *CartHandler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	result, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch cart via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to fetch cart")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	var payload AddToCartRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithError(w, http.StatusBadRequest, "Validation failed: "+validationErrors.Error())
		} else {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	productID, err := uuid.FromString(payload.ProductID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	result, err := h.svc.Add(r.Context(), userID, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product does not exist")
			return
		}
		log.Error().Err(err).Msg("Failed to add item to cart via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to add item to cart")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *CartHandler) handleChangeQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	productID, err := uuid.FromString(chi.URLParam(r, "productID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var payload ChangeQuantityRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithError(w, http.StatusBadRequest, "Quantity change cannot be zero")
		} else {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	result, err := h.svc.ApplyDelta(r.Context(), userID, productID, payload.Delta)
	if err != nil {
		if errors.Is(err, cart.ErrNotInCart) {
			respondWithError(w, http.StatusNotFound, "Item not in cart")
			return
		}
		if errors.Is(err, cart.ErrZeroDelta) {
			respondWithError(w, http.StatusBadRequest, "Quantity change cannot be zero")
			return
		}
		log.Error().Err(err).Msg("Failed to change cart quantity via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update cart")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
