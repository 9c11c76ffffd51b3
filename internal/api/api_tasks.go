package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ticklist/ticklist/internal/model"
	"github.com/ticklist/ticklist/internal/repository"
)

const taskTextMaxLen = 500

func (cfg *APIConfig) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	categoryFilter := r.URL.Query().Get("category")

	tasks, err := cfg.tasks.ListByUser(r.Context(), actor.ID, categoryFilter)
	if err != nil {
		cfg.serverError(w, "Failed to fetch tasks", err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	respondWithJSON(w, http.StatusOK, tasks)
}

func (cfg *APIConfig) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	type rqSchema struct {
		Text     string `json:"text"`
		Category string `json:"category"`
	}

	rqPayload, err := decodePayload[rqSchema](r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Could not parse request body", err)
		return
	}

	text := strings.TrimSpace(rqPayload.Text)
	category := strings.TrimSpace(rqPayload.Category)

	if text == "" {
		respondWithError(w, http.StatusBadRequest, "Task text is required", nil)
		return
	}
	if len(text) > taskTextMaxLen {
		respondWithError(w, http.StatusBadRequest, "Task text must be less than 500 characters", nil)
		return
	}
	if category == "" {
		respondWithError(w, http.StatusBadRequest, "Category is required", nil)
		return
	}

	actor := actorFromContext(r.Context())
	task := &model.Task{
		UserID:   actor.ID,
		Text:     text,
		Category: category,
	}
	if err := cfg.tasks.Create(r.Context(), task); err != nil {
		cfg.serverError(w, "Failed to create task", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, task)
}

func (cfg *APIConfig) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := parseTaskID(r)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Task not found", err)
		return
	}

	// Pointer fields distinguish "absent" from "set to zero value": only
	// fields present in the payload are written.
	type rqSchema struct {
		Text      *string `json:"text"`
		Category  *string `json:"category"`
		Completed *bool   `json:"completed"`
	}

	rqPayload, err := decodePayload[rqSchema](r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Could not parse request body", err)
		return
	}

	changes := map[string]any{}
	if rqPayload.Text != nil {
		text := strings.TrimSpace(*rqPayload.Text)
		if text == "" {
			respondWithError(w, http.StatusBadRequest, "Task text is required", nil)
			return
		}
		if len(text) > taskTextMaxLen {
			respondWithError(w, http.StatusBadRequest, "Task text must be less than 500 characters", nil)
			return
		}
		changes["text"] = text
	}
	if rqPayload.Category != nil {
		category := strings.TrimSpace(*rqPayload.Category)
		if category == "" {
			respondWithError(w, http.StatusBadRequest, "Category is required", nil)
			return
		}
		changes["category"] = category
	}
	if rqPayload.Completed != nil {
		changes["completed"] = *rqPayload.Completed
	}

	actor := actorFromContext(r.Context())
	task, err := cfg.tasks.Update(r.Context(), actor.ID, taskID, changes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Task not found", err)
			return
		}
		cfg.serverError(w, "Failed to update task", err)
		return
	}

	respondWithJSON(w, http.StatusOK, task)
}

func (cfg *APIConfig) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := parseTaskID(r)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Task not found", err)
		return
	}

	actor := actorFromContext(r.Context())
	task, err := cfg.tasks.ToggleComplete(r.Context(), actor.ID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Task not found", err)
			return
		}
		cfg.serverError(w, "Failed to toggle task", err)
		return
	}

	respondWithJSON(w, http.StatusOK, task)
}

func (cfg *APIConfig) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := parseTaskID(r)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Task not found", err)
		return
	}

	actor := actorFromContext(r.Context())
	if err := cfg.tasks.Delete(r.Context(), actor.ID, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Task not found", err)
			return
		}
		cfg.serverError(w, "Failed to delete task", err)
		return
	}

	type rspSchema struct {
		Message string `json:"message"`
	}
	respondWithJSON(w, http.StatusOK, rspSchema{Message: "Task deleted successfully"})
}

// parseTaskID reads the task ID path segment. A malformed ID is treated as
// "no such task" rather than a validation failure, so probing with bogus
// IDs looks identical to probing with someone else's.
func parseTaskID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}
