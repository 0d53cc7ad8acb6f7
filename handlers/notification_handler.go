package handlers

import (
	"net/http"

	"github.com/sportsfilio/tournament-hub/middleware"
	"github.com/sportsfilio/tournament-hub/services"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// ListMine handles GET /notifications. Returns the caller's notifications,
// newest first. Supported query parameter: limit.
func (h *NotificationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	notifications, err := h.service.ListForProfile(r.Context(), principal.ProfileID, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"notifications": notifications}, nil)
}
