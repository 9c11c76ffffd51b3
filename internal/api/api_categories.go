package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ticklist/ticklist/internal/model"
	"github.com/ticklist/ticklist/internal/repository"
)

const categoryNameMaxLen = 50

func (cfg *APIConfig) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	categories, err := cfg.categories.ListByUser(r.Context(), actor.ID)
	if err != nil {
		cfg.serverError(w, "Failed to fetch categories", err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}

	respondWithJSON(w, http.StatusOK, categories)
}

func (cfg *APIConfig) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	type rqSchema struct {
		Name string `json:"name"`
	}

	rqPayload, err := decodePayload[rqSchema](r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Could not parse request body", err)
		return
	}

	name := strings.TrimSpace(rqPayload.Name)
	if name == "" {
		respondWithError(w, http.StatusBadRequest, "Category name is required", nil)
		return
	}
	if len(name) > categoryNameMaxLen {
		respondWithError(w, http.StatusBadRequest, "Category name must be less than 50 characters", nil)
		return
	}

	actor := actorFromContext(r.Context())
	category := &model.Category{
		UserID: actor.ID,
		Name:   name,
	}
	if err := cfg.categories.Create(r.Context(), category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondWithError(w, http.StatusBadRequest, "Category already exists", err)
			return
		}
		cfg.serverError(w, "Failed to create category", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, category)
}

func (cfg *APIConfig) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	actor := actorFromContext(r.Context())

	// Tasks go first, then the category, inside one transaction; the
	// response reports how many tasks the cascade removed.
	_, deletedTasks, err := cfg.categories.DeleteCascade(r.Context(), actor.ID, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Category not found", err)
			return
		}
		cfg.serverError(w, "Failed to delete category", err)
		return
	}

	type rspSchema struct {
		Message           string `json:"message"`
		DeletedTasksCount int64  `json:"deletedTasksCount"`
	}
	respondWithJSON(w, http.StatusOK, rspSchema{
		Message:           "Category and associated tasks deleted successfully",
		DeletedTasksCount: deletedTasks,
	})
}
