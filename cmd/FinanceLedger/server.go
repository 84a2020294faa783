package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/auth"
	"github.com/sebuszqo/FinanceLedger/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceLedger/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	router         *http.ServeMux
	authHandler    *auth.Handler
	authService    auth.Service
	userHandler    *user.Handler
	entryHandler   *interfaces.EntryHandler
	balanceHandler *interfaces.BalanceHandler
	health         HealthChecker
}

func NewServer(
	authHandler *auth.Handler,
	authService auth.Service,
	userHandler *user.Handler,
	entryHandler *interfaces.EntryHandler,
	balanceHandler *interfaces.BalanceHandler,
	health HealthChecker,
) *Server {
	return &Server{
		authHandler:    authHandler,
		authService:    authService,
		userHandler:    userHandler,
		entryHandler:   entryHandler,
		balanceHandler: balanceHandler,
		health:         health,
		router:         http.NewServeMux(),
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		slog.InfoContext(r.Context(), "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	stats := s.health.Health(r.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) RegisterRoutes() {
	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/users", http.HandlerFunc(s.userHandler.HandleRegister))
	publicRoutes.Handle("POST /api/users/authenticate", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	protect := s.authService.JWTAccessTokenMiddleware()
	protectedRoutes := http.NewServeMux()
	protectedRoutes.Handle("GET /api/protected/users", protect(http.HandlerFunc(s.userHandler.HandleListUsers)))
	protectedRoutes.Handle("GET /api/protected/users/{userID}/balance", protect(http.HandlerFunc(s.balanceHandler.GetBalance)))

	// ENTRIES API
	protectedRoutes.Handle("GET /api/protected/entries", protect(http.HandlerFunc(s.entryHandler.SearchEntries)))
	protectedRoutes.Handle("POST /api/protected/entries", protect(http.HandlerFunc(s.entryHandler.CreateEntry)))
	protectedRoutes.Handle("GET /api/protected/entries/{id}", protect(http.HandlerFunc(s.entryHandler.GetEntry)))
	protectedRoutes.Handle("PUT /api/protected/entries/{id}", protect(http.HandlerFunc(s.entryHandler.UpdateEntry)))
	protectedRoutes.Handle("DELETE /api/protected/entries/{id}", protect(http.HandlerFunc(s.entryHandler.DeleteEntry)))
	protectedRoutes.Handle("PUT /api/protected/entries/{id}/status", protect(http.HandlerFunc(s.entryHandler.ChangeEntryStatus)))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}
