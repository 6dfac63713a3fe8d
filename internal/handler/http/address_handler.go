package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mystore/storefront/internal/address"
)

type CreateAddressRequest struct {
	FullName     string `json:"full_name" validate:"required"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
}

type AddressHandler struct {
	svc      address.Service
	validate *validator.Validate
}

func NewAddressHandler(svc address.Service) *AddressHandler {
	return &AddressHandler{svc: svc, validate: validator.New()}
}

func (h *AddressHandler) RegisterRoutes(router chi.Router) {
	router.Get("/addresses", h.handleList)
	router.Post("/addresses", h.handleCreate)
	router.Delete("/addresses/{id}", h.handleDelete)
}

func (h *AddressHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	addresses, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list addresses via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list addresses")
		return
	}

	respondWithJSON(w, http.StatusOK, addresses)
}

func (h *AddressHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	var payload CreateAddressRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithError(w, http.StatusBadRequest, "All address fields are required")
		} else {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	created, err := h.svc.Create(r.Context(), &address.Address{
		UserID:       userID,
		FullName:     payload.FullName,
		AddressLine1: payload.AddressLine1,
		City:         payload.City,
		State:        payload.State,
	})
	if err != nil {
		if errors.Is(err, address.ErrInvalidAddress) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("Failed to create address via service")
		respondWithError(w, mapErrorToStatusCode(err), "Error saving address")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *AddressHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid address id")
		return
	}

	if err := h.svc.Delete(r.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, address.ErrAddressNotFound):
			respondWithError(w, http.StatusNotFound, "Address not found")
		case errors.Is(err, address.ErrAddressInUse):
			respondWithError(w, http.StatusConflict, "Address is referenced by an order and cannot be deleted")
		default:
			log.Error().Err(err).Msg("Failed to delete address via service")
			respondWithError(w, mapErrorToStatusCode(err), "Failed to delete address")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
