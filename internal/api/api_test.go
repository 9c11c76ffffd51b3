package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ticklist/ticklist/internal/auth"
	"github.com/ticklist/ticklist/internal/model"
	tt "github.com/ticklist/ticklist/internal/ticktest"
)

// ---------------
// HELPER FUNCS
// ---------------

func newTestMux(t *testing.T) (*http.ServeMux, *APIConfig) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Category{}, &model.Task{}))

	cfg := &APIConfig{
		secret:         "test-secret",
		platform:       "dev",
		emailValidator: RegexEmailValidator{},
	}
	cfg.NewLogger(slog.LevelError)
	cfg.UseDB(db)
	return SetupMux(cfg), cfg
}

func Call(mux http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func GetJSONField(w *httptest.ResponseRecorder, field string) (any, error) {
	// w.Result() caches its return value, so its Body can only be read
	// once; decode from a fresh reader over the recorded bytes instead.
	var body map[string]any
	decoder := json.NewDecoder(bytes.NewReader(w.Body.Bytes()))
	decoder.UseNumber()
	if err := decoder.Decode(&body); err != nil {
		return nil, err
	}
	val, ok := body[field]
	if !ok {
		return nil, fmt.Errorf("field %s not found in response", field)
	}

	if num, ok := val.(json.Number); ok {
		if i, err := num.Int64(); err == nil {
			return i, nil
		}
		if f, err := num.Float64(); err == nil {
			return f, nil
		}
	}
	return val, nil
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&v))
	return v
}

// registerUser creates a user and returns their bearer token.
func registerUser(t *testing.T, mux http.Handler, username, email, password string) string {
	t.Helper()
	w := Call(mux, tt.Register(username, email, password))
	require.Equal(t, http.StatusCreated, w.Code)
	token, err := GetJSONField(w, "token")
	require.NoError(t, err)
	return token.(string)
}

// ---------------
// TESTING
// ---------------

func TestHealth(t *testing.T) {
	mux, _ := newTestMux(t)

	w := Call(mux, tt.Health())
	assert.Equal(t, http.StatusOK, w.Code)
	status, err := GetJSONField(w, "status")
	require.NoError(t, err)
	assert.Equal(t, "OK", status)
}

// Malformed registrations must be rejected before any record is written.
func TestRegisterValidation(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{name: "username too short", username: "al", email: "a@x.com", password: "secret1"},
		{name: "username too long", username: strings.Repeat("a", 31), email: "a@x.com", password: "secret1"},
		{name: "malformed email", username: "alice", email: "not-an-email", password: "secret1"},
		{name: "email without domain dot", username: "alice", email: "a@x", password: "secret1"},
		{name: "password too short", username: "alice", email: "a@x.com", password: "12345"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := Call(mux, tt.Register(tc.username, tc.email, tc.password))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	// none of the rejected attempts persisted anything: the same identity
	// registers cleanly now
	w := Call(mux, tt.Register("alice", "a@x.com", "secret1"))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	mux, _ := newTestMux(t)

	token := registerUser(t, mux, "alice", "a@x.com", "secret1")
	require.NotEmpty(t, token)

	// duplicate identity fails
	w := Call(mux, tt.Register("alice", "other@x.com", "secret1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = Call(mux, tt.Register("other", "a@x.com", "secret1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// wrong password: 400, no token issued
	w = Call(mux, tt.Login("a@x.com", "wrong"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, err := GetJSONField(w, "token")
	assert.Error(t, err)
	message, err := GetJSONField(w, "message")
	require.NoError(t, err)
	assert.Equal(t, "Invalid credentials", message)

	// correct credentials, with email casing normalized
	w = Call(mux, tt.Login("A@X.com", "secret1"))
	assert.Equal(t, http.StatusOK, w.Code)

	// the token resolves to the user
	w = Call(mux, tt.Me(token))
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[struct {
		User model.User `json:"user"`
	}](t, w)
	assert.Equal(t, "alice", body.User.Username)
}

func TestAuthRejections(t *testing.T) {
	mux, cfg := newTestMux(t)

	// no token
	w := Call(mux, tt.Me(""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// garbage token
	w = Call(mux, tt.Me("garbage"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// expired token
	userToken := registerUser(t, mux, "alice", "a@x.com", "secret1")
	expired, err := auth.MakeJWT(uuid.New(), cfg.secret, -time.Minute)
	require.NoError(t, err)
	w = Call(mux, tt.Me(expired))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// well-signed token whose user does not exist
	ghost, err := auth.MakeJWT(uuid.New(), cfg.secret, auth.TokenTTL)
	require.NoError(t, err)
	w = Call(mux, tt.Me(ghost))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// sanity: the real token still works
	w = Call(mux, tt.Me(userToken))
	assert.Equal(t, http.StatusOK, w.Code)
}

// The register -> category -> task -> toggle -> cascade walkthrough.
func TestFullScenario(t *testing.T) {
	mux, _ := newTestMux(t)

	token := registerUser(t, mux, "alice", "a@x.com", "secret1")

	w := Call(mux, tt.CreateCategory(token, "Work"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = Call(mux, tt.CreateTask(token, "Write report", "Work"))
	require.Equal(t, http.StatusCreated, w.Code)
	task := decodeBody[model.Task](t, w)
	assert.False(t, task.Completed)

	w = Call(mux, tt.ToggleTask(token, task.ID.String()))
	require.Equal(t, http.StatusOK, w.Code)
	toggled := decodeBody[model.Task](t, w)
	assert.True(t, toggled.Completed)

	w = Call(mux, tt.DeleteCategory(token, "Work"))
	require.Equal(t, http.StatusOK, w.Code)
	count, err := GetJSONField(w, "deletedTasksCount")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	w = Call(mux, tt.GetTasks(token, ""))
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decodeBody[[]model.Task](t, w)
	assert.Empty(t, tasks)
}

// For all users A != B, A's operations on B's resources yield 404, never
// the resource.
func TestOwnershipIsolation(t *testing.T) {
	mux, _ := newTestMux(t)

	aliceToken := registerUser(t, mux, "alice", "a@x.com", "secret1")
	bobToken := registerUser(t, mux, "bob", "b@x.com", "secret2")

	w := Call(mux, tt.CreateCategory(aliceToken, "Work"))
	require.Equal(t, http.StatusCreated, w.Code)
	w = Call(mux, tt.CreateTask(aliceToken, "private", "Work"))
	require.Equal(t, http.StatusCreated, w.Code)
	aliceTask := decodeBody[model.Task](t, w)

	// bob sees nothing of alice's
	w = Call(mux, tt.GetCategories(bobToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[[]model.Category](t, w))

	w = Call(mux, tt.GetTasks(bobToken, ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[[]model.Task](t, w))

	// bob's mutations on alice's task all 404
	id := aliceTask.ID.String()
	for name, req := range map[string]*http.Request{
		"update": tt.UpdateTask(bobToken, id, `{"text":"stolen"}`),
		"toggle": tt.ToggleTask(bobToken, id),
		"delete": tt.DeleteTask(bobToken, id),
	} {
		w = Call(mux, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "bob's %s on alice's task", name)
	}

	// bob cannot cascade-delete alice's category either
	w = Call(mux, tt.DeleteCategory(bobToken, "Work"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// but bob may use the same category name for himself
	w = Call(mux, tt.CreateCategory(bobToken, "Work"))
	assert.Equal(t, http.StatusCreated, w.Code)

	// alice's task survived all of it
	w = Call(mux, tt.GetTasks(aliceToken, ""))
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decodeBody[[]model.Task](t, w)
	require.Len(t, tasks, 1)
	assert.Equal(t, "private", tasks[0].Text)
}

func TestCategoryValidation(t *testing.T) {
	mux, _ := newTestMux(t)
	token := registerUser(t, mux, "alice", "a@x.com", "secret1")

	w := Call(mux, tt.CreateCategory(token, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = Call(mux, tt.CreateCategory(token, "   "))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = Call(mux, tt.CreateCategory(token, strings.Repeat("x", 51)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = Call(mux, tt.CreateCategory(token, "Work"))
	require.Equal(t, http.StatusCreated, w.Code)

	// duplicate for the same owner
	w = Call(mux, tt.CreateCategory(token, "Work"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskValidation(t *testing.T) {
	mux, _ := newTestMux(t)
	token := registerUser(t, mux, "alice", "a@x.com", "secret1")

	w := Call(mux, tt.CreateTask(token, "", "Work"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = Call(mux, tt.CreateTask(token, "text", ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = Call(mux, tt.CreateTask(token, strings.Repeat("x", 501), "Work"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskFilterQuery(t *testing.T) {
	mux, _ := newTestMux(t)
	token := registerUser(t, mux, "alice", "a@x.com", "secret1")

	for _, spec := range []struct{ text, category string }{
		{"report", "Work"},
		{"groceries", "Home"},
		{"slides", "Work"},
	} {
		w := Call(mux, tt.CreateTask(token, spec.text, spec.category))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := Call(mux, tt.GetTasks(token, "Work"))
	require.Equal(t, http.StatusOK, w.Code)
	work := decodeBody[[]model.Task](t, w)
	assert.Len(t, work, 2)

	// the sentinel means unfiltered
	w = Call(mux, tt.GetTasks(token, "All Categories"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]model.Task](t, w), 3)

	// an unknown category is an empty list, not 404
	w = Call(mux, tt.GetTasks(token, "NoSuchCategory"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[[]model.Task](t, w))
}

func TestTaskPartialUpdate(t *testing.T) {
	mux, _ := newTestMux(t)
	token := registerUser(t, mux, "alice", "a@x.com", "secret1")

	w := Call(mux, tt.CreateTask(token, "original", "Work"))
	require.Equal(t, http.StatusCreated, w.Code)
	task := decodeBody[model.Task](t, w)

	// text-only update keeps category and completed
	w = Call(mux, tt.UpdateTask(token, task.ID.String(), `{"text":"edited"}`))
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody[model.Task](t, w)
	assert.Equal(t, "edited", updated.Text)
	assert.Equal(t, "Work", updated.Category)
	assert.False(t, updated.Completed)

	// empty text is rejected, state unchanged
	w = Call(mux, tt.UpdateTask(token, task.ID.String(), `{"text":"  "}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// completed-only update keeps the text
	w = Call(mux, tt.UpdateTask(token, task.ID.String(), `{"completed":true}`))
	require.Equal(t, http.StatusOK, w.Code)
	updated = decodeBody[model.Task](t, w)
	assert.True(t, updated.Completed)
	assert.Equal(t, "edited", updated.Text)

	// a malformed task id reads as not-found
	w = Call(mux, tt.UpdateTask(token, "not-a-uuid", `{"text":"x"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
