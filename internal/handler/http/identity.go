package http

import (
	"net/http"

	"github.com/gofrs/uuid"
)

// Authentication itself lives in front of this service; the gateway
// forwards the verified identity in these headers. Handlers take identity
// from the request explicitly instead of any ambient session state.
const (
	userIDHeader  = "X-User-ID"
	adminIDHeader = "X-Admin-ID"
)

func userIDFromRequest(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.FromString(r.Header.Get(userIDHeader))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func adminIDFromRequest(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.FromString(r.Header.Get(adminIDHeader))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
