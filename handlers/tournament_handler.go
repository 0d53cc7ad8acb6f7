package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sportsfilio/tournament-hub/middleware"
	"github.com/sportsfilio/tournament-hub/models"
	"github.com/sportsfilio/tournament-hub/repositories"
	"github.com/sportsfilio/tournament-hub/services"
)

// maxCreateFormSize bounds the multipart form for tournament creation,
// leaving headroom for the QR code image on top of the JSON fields.
const maxCreateFormSize = 10 << 20

type TournamentHandler struct {
	service *services.TournamentService
}

func NewTournamentHandler(service *services.TournamentService) *TournamentHandler {
	return &TournamentHandler{service: service}
}

// List handles GET /tournaments. Supported query parameters: sport,
// status, limit, offset.
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListPublicTournamentsFilter

	if raw := r.URL.Query().Get("sport"); raw != "" {
		sport := models.Sport(raw)
		if !sport.Valid() {
			badRequestResponse(w, r, fmt.Errorf("unknown sport %q", raw))
			return
		}
		filter.Sport = &sport
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.TournamentStatus(raw)
		if !status.Valid() {
			badRequestResponse(w, r, fmt.Errorf("unknown status %q", raw))
			return
		}
		filter.Status = &status
	}
	var err error
	if filter.Limit, err = queryInt(r, "limit", 0); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset", 0); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournaments, err := h.service.ListPublic(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil)
}

// Get handles GET /tournaments/{tournamentID}.
func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.service.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil)
}

// Create handles POST /tournaments. The body is either plain JSON, or a
// multipart form with a "data" JSON part plus an optional "qr_code" image
// for fee collection.
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.CreateTournamentInput
	var qrCode *services.FileUpload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxCreateFormSize); err != nil {
			badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
			return
		}
		data := r.FormValue("data")
		if data == "" {
			badRequestResponse(w, r, fmt.Errorf("missing data form field"))
			return
		}
		if err := json.Unmarshal([]byte(data), &input); err != nil {
			badRequestResponse(w, r, fmt.Errorf("invalid data form field: %w", err))
			return
		}

		file, header, err := r.FormFile("qr_code")
		if err == nil {
			defer file.Close()
			qrCode = &services.FileUpload{
				Content:     file,
				Size:        header.Size,
				ContentType: header.Header.Get("Content-Type"),
			}
		} else if err != http.ErrMissingFile {
			badRequestResponse(w, r, fmt.Errorf("failed to read qr_code file: %w", err))
			return
		}
	} else {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	tournament, err := h.service.Create(r.Context(), principal, input, qrCode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil)
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid %s query parameter", name)
	}
	return value, nil
}
