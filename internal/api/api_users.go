package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ticklist/ticklist/internal/auth"
	"github.com/ticklist/ticklist/internal/model"
	"github.com/ticklist/ticklist/internal/repository"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 30
	passwordMinLen = 6
)

func (cfg *APIConfig) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	type rqSchema struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	rqPayload, err := decodePayload[rqSchema](r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Could not parse request body", err)
		return
	}

	username := strings.TrimSpace(rqPayload.Username)
	// Emails are normalized to lower case before both the uniqueness check
	// and storage, so login never depends on the caller's casing.
	email := strings.ToLower(strings.TrimSpace(rqPayload.Email))

	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		respondWithError(w, http.StatusBadRequest, "Username must be between 3 and 30 characters", nil)
		return
	}
	if len(rqPayload.Password) < passwordMinLen {
		respondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters long", nil)
		return
	}
	if err := cfg.emailValidator.Validate(r.Context(), email); err != nil {
		respondWithError(w, http.StatusBadRequest, capitalize(err.Error()), err)
		return
	}

	hashedPass, err := auth.HashPassword(rqPayload.Password)
	if err != nil {
		cfg.serverError(w, "Server error during registration", err)
		return
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPass,
	}
	if err := cfg.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondWithError(w, http.StatusBadRequest, "User with this email or username already exists", err)
			return
		}
		cfg.serverError(w, "Server error during registration", err)
		return
	}

	token, err := auth.MakeJWT(user.ID, cfg.secret, auth.TokenTTL)
	if err != nil {
		cfg.serverError(w, "Server error during registration", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, authResponse{
		Message: "User created successfully",
		Token:   token,
		User:    user,
	})
}

func (cfg *APIConfig) handleLoginUser(w http.ResponseWriter, r *http.Request) {
	type rqSchema struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	rqPayload, err := decodePayload[rqSchema](r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Could not parse request body", err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(rqPayload.Email))
	if email == "" || rqPayload.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Email and password are required", nil)
		return
	}

	user, err := cfg.users.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusBadRequest, "Invalid credentials", nil)
			return
		}
		cfg.serverError(w, "Server error during login", err)
		return
	}

	match, err := auth.CheckPasswordHash(rqPayload.Password, user.PasswordHash)
	if err != nil || !match {
		respondWithError(w, http.StatusBadRequest, "Invalid credentials", err)
		return
	}

	token, err := auth.MakeJWT(user.ID, cfg.secret, auth.TokenTTL)
	if err != nil {
		cfg.serverError(w, "Server error during login", err)
		return
	}

	respondWithJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

func (cfg *APIConfig) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	type rspSchema struct {
		User *model.User `json:"user"`
	}
	respondWithJSON(w, http.StatusOK, rspSchema{User: actor})
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *model.User `json:"user"`
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
