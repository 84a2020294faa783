package auth

import (
	"encoding/json"
	"net/http"

	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/sebuszqo/FinanceLedger/internal/user"
	"github.com/sebuszqo/FinanceLedger/internal/validation"
)

type Handler struct {
	authService Service
}

func NewHandler(authService Service) *Handler {
	return &Handler{
		authService: authService,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User        *user.User `json:"user"`
	AccessToken string     `json:"access_token"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fieldErrors := validation.ValidateRequest(req); fieldErrors != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	existingUser, accessToken, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if financeErrors.IsAuthenticationError(err) {
			writeJSONError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		User:        existingUser,
		AccessToken: accessToken,
	})
}
