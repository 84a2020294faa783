package interfaces

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sebuszqo/FinanceLedger/internal/auth"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/sebuszqo/FinanceLedger/internal/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededEntryService() *MockEntryService {
	return &MockEntryService{entries: map[int64]domain.Entry{
		1: {ID: 1, Description: "Salary", Month: 1, Year: 2024, Amount: decimal.NewFromInt(1000), Type: domain.EntryTypeIncome, Status: domain.StatusPending, OwnerID: 7},
		2: {ID: 2, Description: "Rent", Month: 1, Year: 2024, Amount: decimal.NewFromInt(400), Type: domain.EntryTypeExpense, Status: domain.StatusSettled, OwnerID: 7},
		3: {ID: 3, Description: "Salary", Month: 1, Year: 2024, Amount: decimal.NewFromInt(900), Type: domain.EntryTypeIncome, Status: domain.StatusPending, OwnerID: 8},
	}}
}

func entryMux(service EntryServiceInterface) *http.ServeMux {
	handler := NewEntryHandler(service, respondJSON, respondError)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /entries", handler.SearchEntries)
	mux.HandleFunc("POST /entries", handler.CreateEntry)
	mux.HandleFunc("GET /entries/{id}", handler.GetEntry)
	mux.HandleFunc("PUT /entries/{id}", handler.UpdateEntry)
	mux.HandleFunc("DELETE /entries/{id}", handler.DeleteEntry)
	mux.HandleFunc("PUT /entries/{id}/status", handler.ChangeEntryStatus)
	return mux
}

func serveAs(mux http.Handler, userID int64, method, target string, body io.Reader) *http.Response {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w.Result()
}

func decodeBody(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()
	defer res.Body.Close()
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	return response
}

func TestCreateEntry(t *testing.T) {
	service := seededEntryService()
	mux := entryMux(service)

	body := bytes.NewBufferString(`{"description":"Bonus","month":2,"year":2024,"amount":"150.25","type":"income","status":"SETTLED"}`)
	res := serveAs(mux, 7, http.MethodPost, "/entries", body)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	response := decodeBody(t, res)
	assert.Equal(t, "success", response["status"])

	require.NotNil(t, service.lastSaved)
	assert.Equal(t, int64(7), service.lastSaved.OwnerID)
	assert.Equal(t, domain.EntryTypeIncome, service.lastSaved.Type)
	assert.True(t, decimal.RequireFromString("150.25").Equal(service.lastSaved.Amount))
}

func TestCreateEntry_Errors(t *testing.T) {
	tests := []struct {
		name       string
		userID     int64
		body       string
		shouldFail bool
		wantStatus int
		wantMsg    string
	}{
		{name: "unauthenticated", body: `{}`, wantStatus: http.StatusUnauthorized, wantMsg: "Unauthorized"},
		{name: "malformed body", userID: 7, body: `{"description":`, wantStatus: http.StatusBadRequest, wantMsg: "Invalid request body"},
		{name: "unknown type", userID: 7, body: `{"description":"x","type":"TRANSFER"}`, wantStatus: http.StatusBadRequest, wantMsg: "Invalid entry type"},
		{name: "business rule", userID: 7, body: `{"description":"","type":"EXPENSE"}`, wantStatus: http.StatusBadRequest, wantMsg: "invalid description"},
		{name: "service failure", userID: 7, body: `{"description":"x"}`, shouldFail: true, wantStatus: http.StatusInternalServerError, wantMsg: "Failed to create entry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := seededEntryService()
			service.shouldFail = tt.shouldFail

			res := serveAs(entryMux(service), tt.userID, http.MethodPost, "/entries", bytes.NewBufferString(tt.body))

			assert.Equal(t, tt.wantStatus, res.StatusCode)
			assert.Equal(t, tt.wantMsg, decodeBody(t, res)["message"])
		})
	}
}

func TestGetEntry_HidesOtherUsersEntries(t *testing.T) {
	mux := entryMux(seededEntryService())

	res := serveAs(mux, 7, http.MethodGet, "/entries/1", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	res = serveAs(mux, 7, http.MethodGet, "/entries/3", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "entry 3 not found", decodeBody(t, res)["message"])

	res = serveAs(mux, 7, http.MethodGet, "/entries/99", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res.Body.Close()

	res = serveAs(mux, 7, http.MethodGet, "/entries/abc", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res.Body.Close()
}

func TestUpdateEntry_KeepsIDAndOwner(t *testing.T) {
	service := seededEntryService()
	mux := entryMux(service)

	body := bytes.NewBufferString(`{"id":55,"description":"Rent March","month":3,"year":2024,"amount":"410","type":"EXPENSE"}`)
	res := serveAs(mux, 7, http.MethodPut, "/entries/2", body)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()
	require.NotNil(t, service.lastSaved)
	assert.Equal(t, int64(2), service.lastSaved.ID)
	assert.Equal(t, int64(7), service.lastSaved.OwnerID)
	assert.Equal(t, domain.EntryStatus(""), service.lastSaved.Status)
}

func TestChangeEntryStatus(t *testing.T) {
	mux := entryMux(seededEntryService())

	res := serveAs(mux, 7, http.MethodPut, "/entries/1/status", bytes.NewBufferString(`{"status":"SETTLED"}`))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	data := decodeBody(t, res)["data"].(map[string]interface{})
	assert.Equal(t, "SETTLED", data["status"])

	for _, name := range []string{"EFETIVADO", "settled"} {
		res = serveAs(mux, 7, http.MethodPut, "/entries/1/status", bytes.NewBufferString(`{"status":"`+name+`"}`))
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, name)
		res.Body.Close()
	}

	res = serveAs(mux, 7, http.MethodPut, "/entries/1/status", bytes.NewBufferString(`{}`))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Invalid request data", decodeBody(t, res)["message"])

	res = serveAs(mux, 8, http.MethodPut, "/entries/1/status", bytes.NewBufferString(`{"status":"SETTLED"}`))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res.Body.Close()
}

func TestDeleteEntry(t *testing.T) {
	service := seededEntryService()
	mux := entryMux(service)

	res := serveAs(mux, 8, http.MethodDelete, "/entries/1", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res.Body.Close()
	assert.Contains(t, service.entries, int64(1))

	res = serveAs(mux, 7, http.MethodDelete, "/entries/1", nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	res.Body.Close()
	assert.NotContains(t, service.entries, int64(1))
}

func TestSearchEntries(t *testing.T) {
	service := seededEntryService()
	mux := entryMux(service)

	res := serveAs(mux, 7, http.MethodGet, "/entries?description=sal&type=income&year=2024", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	data := decodeBody(t, res)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, float64(1), data[0].(map[string]interface{})["id"])

	require.NotNil(t, service.lastFilter)
	assert.Equal(t, int64(7), *service.lastFilter.OwnerID)
	assert.Equal(t, "sal", *service.lastFilter.Description)
	assert.Nil(t, service.lastFilter.Month)
}

func TestSearchEntries_InvalidParameters(t *testing.T) {
	mux := entryMux(seededEntryService())

	for _, target := range []string{"/entries?month=march", "/entries?year=x", "/entries?type=transfer", "/entries?status=EFETIVADO"} {
		res := serveAs(mux, 7, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, target)
		res.Body.Close()
	}
}

func TestGetBalance(t *testing.T) {
	users := &MockUserLookup{users: map[int64]user.User{7: {ID: 7}, 8: {ID: 8}}}

	tests := []struct {
		name       string
		path       string
		shouldFail bool
		wantStatus int
	}{
		{name: "own balance", path: "/users/7/balance", wantStatus: http.StatusOK},
		{name: "unknown user", path: "/users/99/balance", wantStatus: http.StatusNotFound},
		{name: "other user", path: "/users/8/balance", wantStatus: http.StatusForbidden},
		{name: "bad id", path: "/users/abc/balance", wantStatus: http.StatusBadRequest},
		{name: "service failure", path: "/users/7/balance", shouldFail: true, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &MockBalanceService{balance: decimal.RequireFromString("-12.50"), shouldFail: tt.shouldFail}
			handler := NewBalanceHandler(service, users, respondJSON, respondError)
			mux := http.NewServeMux()
			mux.HandleFunc("GET /users/{userID}/balance", handler.GetBalance)

			res := serveAs(mux, 7, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.wantStatus, res.StatusCode)

			response := decodeBody(t, res)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "-12.5", response["balance"])
			}
		})
	}
}
