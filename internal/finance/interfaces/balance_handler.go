package interfaces

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sebuszqo/FinanceLedger/internal/auth"
	"github.com/sebuszqo/FinanceLedger/internal/user"
	"github.com/shopspring/decimal"
)

type BalanceServiceInterface interface {
	Balance(ctx context.Context, userID int64) (decimal.Decimal, error)
}

type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
}

type BalanceHandler struct {
	service      BalanceServiceInterface
	users        UserLookup
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewBalanceHandler(
	service BalanceServiceInterface,
	users UserLookup,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *BalanceHandler {
	if service == nil || users == nil || respondJSON == nil || respondError == nil {
		panic("Services and response functions must not be nil")
	}
	return &BalanceHandler{
		service:      service,
		users:        users,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// GetBalance answers 404 for an unknown user and 403 when the caller asks for
// someone else's balance.
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID, err := strconv.ParseInt(r.PathValue("userID"), 10, 64)
	if err != nil || userID <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if _, err := h.users.GetUserByID(r.Context(), userID); err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			h.respondError(w, status, "Failed to retrieve user")
			return
		}
		h.respondError(w, status, err.Error())
		return
	}
	if userID != callerID {
		h.respondError(w, http.StatusForbidden, "Forbidden")
		return
	}

	balance, err := h.service.Balance(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to compute balance")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"user_id": userID,
		"balance": balance,
	})
}
