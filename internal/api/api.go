// Package api handles routes and their associated handlers
package api

import (
	"net/http"
	"time"
)

func SetupMux(cfg *APIConfig) *http.ServeMux {
	mux := http.NewServeMux()

	// middleware
	mdAuth := cfg.middlewareAuthenticate

	// REGISTER API HANDLERS
	// ======================

	// Health
	mux.HandleFunc("GET /health", handleHealth)
	// User authentication
	mux.HandleFunc("POST /api/auth/register", cfg.handleRegisterUser)
	mux.HandleFunc("POST /api/auth/login", cfg.handleLoginUser)
	mux.HandleFunc("GET /api/auth/me", mdAuth(cfg.handleGetCurrentUser))
	// Categories
	mux.HandleFunc("GET /api/categories", mdAuth(cfg.handleGetCategories))
	mux.HandleFunc("POST /api/categories", mdAuth(cfg.handleCreateCategory))
	mux.HandleFunc("DELETE /api/categories/{name}", mdAuth(cfg.handleDeleteCategory))
	// Tasks
	mux.HandleFunc("GET /api/tasks", mdAuth(cfg.handleGetTasks))
	mux.HandleFunc("POST /api/tasks", mdAuth(cfg.handleCreateTask))
	mux.HandleFunc("PUT /api/tasks/{id}", mdAuth(cfg.handleUpdateTask))
	mux.HandleFunc("PATCH /api/tasks/{id}/toggle", mdAuth(cfg.handleToggleTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", mdAuth(cfg.handleDeleteTask))

	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	type rspSchema struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	respondWithJSON(w, http.StatusOK, rspSchema{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
