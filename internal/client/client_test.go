package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticklist/ticklist/internal/api"
)

func newTestServer(t *testing.T) *Client {
	t.Helper()
	t.Setenv("SECRET", "client-test-secret")
	t.Setenv("PLATFORM", "dev")
	t.Setenv("SLOG_LEVEL", "ERROR")
	t.Setenv("DATABASE_PATH", "file:"+t.Name()+"?mode=memory&cache=shared")

	cfg := api.LoadEnvConfig("")
	require.NoError(t, cfg.ConnectDB())

	server := httptest.NewServer(api.SetupMux(cfg))
	t.Cleanup(server.Close)
	return New(server.URL)
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	result, err := c.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "alice", result.User.Username)

	// the token was installed on the client
	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, me.ID)

	category, err := c.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	assert.Equal(t, "Work", category.Name)

	task, err := c.CreateTask(ctx, "Write report", "Work")
	require.NoError(t, err)
	assert.False(t, task.Completed)

	toggled, err := c.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	newText := "Write the report"
	updated, err := c.UpdateTask(ctx, task.ID, TaskUpdate{Text: &newText})
	require.NoError(t, err)
	assert.Equal(t, newText, updated.Text)
	assert.True(t, updated.Completed)

	deletedTasks, err := c.DeleteCategory(ctx, "Work")
	require.NoError(t, err)
	assert.EqualValues(t, 1, deletedTasks)

	tasks, err := c.Tasks(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = c.Login(ctx, "a@x.com", "wrong-password")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Equal(t, "Invalid credentials", apiErr.Error())

	// unauthenticated client
	fresh := New(c.baseURL)
	_, err = fresh.Categories(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestClientErrorsWithoutServer(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.Tasks(context.Background(), "")
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures are not APIErrors")
}
