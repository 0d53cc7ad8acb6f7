package handlers

import (
	"fmt"
	"net/http"

	"github.com/sportsfilio/tournament-hub/middleware"
	"github.com/sportsfilio/tournament-hub/models"
	"github.com/sportsfilio/tournament-hub/services"
)

// maxRegistrationFormSize bounds the registration multipart form: the
// payment screenshot ceiling plus headroom for the text fields.
const maxRegistrationFormSize = services.MaxScreenshotSize + 1<<20

type ParticipantHandler struct {
	registrations *services.RegistrationService
	approvals     *services.ApprovalService
}

func NewParticipantHandler(registrations *services.RegistrationService, approvals *services.ApprovalService) *ParticipantHandler {
	return &ParticipantHandler{registrations: registrations, approvals: approvals}
}

// Register handles POST /tournaments/{tournamentID}/register. The body is
// a multipart form with the registrant's details (name, phone, dob,
// experience) and, for paid tournaments, transaction_id plus a screenshot
// file as payment proof.
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRegistrationFormSize)
	if err := r.ParseMultipartForm(maxRegistrationFormSize); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	input := services.RegistrationInput{
		Name:        r.FormValue("name"),
		Phone:       r.FormValue("phone"),
		DateOfBirth: r.FormValue("dob"),
		Experience:  r.FormValue("experience"),
	}

	var proof *services.PaymentProof
	transactionID := r.FormValue("transaction_id")
	file, header, fileErr := r.FormFile("screenshot")
	if fileErr == nil {
		defer file.Close()
		proof = &services.PaymentProof{
			TransactionID: transactionID,
			Screenshot: &services.FileUpload{
				Content:     file,
				Size:        header.Size,
				ContentType: header.Header.Get("Content-Type"),
			},
		}
	} else if fileErr != http.ErrMissingFile {
		badRequestResponse(w, r, fmt.Errorf("failed to read screenshot file: %w", fileErr))
		return
	} else if transactionID != "" {
		proof = &services.PaymentProof{TransactionID: transactionID}
	}

	participant, err := h.registrations.Register(r.Context(), tournamentID, principal, input, proof)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil)
}

// ListPending handles GET /tournaments/{tournamentID}/registrations/pending.
// Organizer only.
func (h *ParticipantHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	participants, err := h.approvals.ListPending(r.Context(), tournamentID, principal.ProfileID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil)
}

type decideRequest struct {
	Action models.OrganizerDecision `json:"action"`
	Notes  string                   `json:"notes"`
}

// Decide handles PATCH /tournaments/{tournamentID}/registrations/{profileID}.
// Organizer only. Denials must carry explanatory notes.
func (h *ParticipantHandler) Decide(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	profileID, err := getStringParam(r, "profileID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var req decideRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.approvals.Decide(r.Context(), principal.ProfileID, services.DecisionInput{
		TournamentID: tournamentID,
		ProfileID:    profileID,
		Decision:     req.Action,
		Notes:        req.Notes,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil)
}
