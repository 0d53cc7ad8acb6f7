package handlers

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sportsfilio/tournament-hub/models"
	"github.com/sportsfilio/tournament-hub/services"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	service   services.AuthService
	jwtSecret []byte
}

func NewAuthHandler(service services.AuthService, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{service: service, jwtSecret: jwtSecret}
}

func (h *AuthHandler) generateToken(profile *models.Profile) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"profile_id": profile.ID,
		"email":      profile.Email,
		"name":       profile.Name,
		"iat":        now.Unix(),
		"exp":        now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input services.SignUpInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.service.SignUp(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	tokenString, err := h.generateToken(profile)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"token": tokenString, "profile": profile}, nil)
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var input services.SignInInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.service.SignIn(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	tokenString, err := h.generateToken(profile)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"token": tokenString, "profile": profile}, nil)
}
