package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

func decodePayload[T any](r *http.Request) (T, error) {
	var v T
	err := json.NewDecoder(r.Body).Decode(&v)
	defer r.Body.Close()
	if err != nil {
		return v, fmt.Errorf("failure decoding request payload: %w", err)
	}
	return v, err
}

// respondWithError logs the technical error server-side and responds with
// only the friendly message, so internals never leak to clients.
func respondWithError(w http.ResponseWriter, code int, msg string, err error) {
	errorMessage := fmt.Sprintf("%d %s", code, http.StatusText(code))
	if msg != "" {
		errorMessage += "; " + msg
	}
	if err != nil {
		errorMessage += ": " + err.Error()
	}

	slog.Error(errorMessage, slog.Int("status", code))

	type errorResponse struct {
		Message string `json:"message"`
	}
	respondWithJSON(w, code, errorResponse{
		Message: msg,
	})
}

// serverError responds 500. Outside dev mode the body carries a generic
// message; in dev mode the technical detail is appended.
func (cfg *APIConfig) serverError(w http.ResponseWriter, msg string, err error) {
	if cfg.devMode() && err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	respondWithError(w, http.StatusInternalServerError, msg, err)
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("could not marshal JSON for response: " + err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(data); err != nil {
		slog.Error("could not write JSON response: " + err.Error())
	}
}
