package interfaces

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sebuszqo/FinanceLedger/internal/auth"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/sebuszqo/FinanceLedger/internal/validation"
	"github.com/shopspring/decimal"
)

type EntryServiceInterface interface {
	Create(ctx context.Context, entry domain.Entry) (*domain.Entry, error)
	Update(ctx context.Context, entry domain.Entry) (*domain.Entry, error)
	Delete(ctx context.Context, entry domain.Entry) error
	ChangeStatus(ctx context.Context, id int64, statusName string) (*domain.Entry, error)
	Search(ctx context.Context, filter domain.EntryFilter) ([]domain.Entry, error)
	GetByID(ctx context.Context, id int64) (*domain.Entry, error)
}

type EntryHandler struct {
	service      EntryServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewEntryHandler(
	service EntryServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *EntryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &EntryHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type entryRequest struct {
	Description string          `json:"description"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// toEntry converts the request body. Field rules are left to the entry
// validator; only type and status names that cannot be parsed stop here.
func (req entryRequest) toEntry() (domain.Entry, string) {
	entry := domain.Entry{
		Description: req.Description,
		Month:       req.Month,
		Year:        req.Year,
		Amount:      req.Amount,
	}
	if req.Type != "" {
		entryType, ok := domain.ParseEntryType(req.Type)
		if !ok {
			return domain.Entry{}, "Invalid entry type"
		}
		entry.Type = entryType
	}
	if req.Status != "" {
		status, ok := domain.ParseEntryStatus(req.Status)
		if !ok {
			return domain.Entry{}, "Invalid entry status"
		}
		entry.Status = status
	}
	return entry, ""
}

func (h *EntryHandler) decodeEntry(w http.ResponseWriter, r *http.Request) (domain.Entry, bool) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return domain.Entry{}, false
	}
	entry, problem := req.toEntry()
	if problem != "" {
		h.respondError(w, http.StatusBadRequest, problem)
		return domain.Entry{}, false
	}
	return entry, true
}

func (h *EntryHandler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), fallback, "error", err)
		h.respondError(w, status, fallback)
		return
	}
	h.respondError(w, status, err.Error())
}

// ownedEntry loads the entry named by the path and hides entries of other
// users behind a 404.
func (h *EntryHandler) ownedEntry(w http.ResponseWriter, r *http.Request) (*domain.Entry, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid entry id")
		return nil, false
	}

	entry, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve entry")
		return nil, false
	}
	if entry.OwnerID != userID {
		h.respondError(w, http.StatusNotFound, "entry "+strconv.FormatInt(id, 10)+" not found")
		return nil, false
	}
	return entry, true
}

func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	entry, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}

	entry.OwnerID = userID
	created, err := h.service.Create(r.Context(), entry)
	if err != nil {
		h.fail(w, r, err, "Failed to create entry")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Entry successfully created.",
		"data":    created,
	})
}

func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.ownedEntry(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   entry,
	})
}

func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	current, ok := h.ownedEntry(w, r)
	if !ok {
		return
	}
	entry, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}

	entry.ID = current.ID
	entry.OwnerID = current.OwnerID
	updated, err := h.service.Update(r.Context(), entry)
	if err != nil {
		h.fail(w, r, err, "Failed to update entry")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Entry successfully updated.",
		"data":    updated,
	})
}

func (h *EntryHandler) ChangeEntryStatus(w http.ResponseWriter, r *http.Request) {
	current, ok := h.ownedEntry(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fieldErrors := validation.ValidateRequest(req); fieldErrors != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request data", validation.Messages(fieldErrors))
		return
	}

	updated, err := h.service.ChangeStatus(r.Context(), current.ID, req.Status)
	if err != nil {
		h.fail(w, r, err, "Failed to change entry status")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Entry status updated.",
		"data":    updated,
	})
}

func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	current, ok := h.ownedEntry(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), *current); err != nil {
		h.fail(w, r, err, "Failed to delete entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchEntries lists the caller's entries. Every query parameter is
// optional; description matches by substring.
func (h *EntryHandler) SearchEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := r.URL.Query()
	filter := domain.EntryFilter{OwnerID: &userID}

	if description := query.Get("description"); description != "" {
		filter.Description = &description
	}
	if month := query.Get("month"); month != "" {
		m, err := strconv.Atoi(month)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid month")
			return
		}
		filter.Month = &m
	}
	if year := query.Get("year"); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		filter.Year = &y
	}
	if typeName := query.Get("type"); typeName != "" {
		entryType, ok := domain.ParseEntryType(typeName)
		if !ok {
			h.respondError(w, http.StatusBadRequest, "Invalid entry type")
			return
		}
		filter.Type = &entryType
	}
	if statusName := query.Get("status"); statusName != "" {
		status, ok := domain.ParseEntryStatus(statusName)
		if !ok {
			h.respondError(w, http.StatusBadRequest, "Invalid entry status")
			return
		}
		filter.Status = &status
	}

	entries, err := h.service.Search(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err, "Failed to search entries")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   entries,
	})
}
