// Package client is a typed HTTP client for the ticklist API. The terminal
// UI drives it, but it stands alone as a library.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ticklist/ticklist/internal/model"
)

// APIError is a non-2xx response from the server, carrying the status code
// and the server's message field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

// AuthResult is the payload of a successful register or login.
type AuthResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var result struct {
		User model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &result); err != nil {
		return nil, err
	}
	return &result.User, nil
}

func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	if err := c.do(ctx, http.MethodPost, "/api/categories", map[string]string{"name": name}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes the category and its tasks, returning how many
// tasks the server's cascade removed.
func (c *Client) DeleteCategory(ctx context.Context, name string) (int64, error) {
	var result struct {
		DeletedTasksCount int64 `json:"deletedTasksCount"`
	}
	path := "/api/categories/" + url.PathEscape(name)
	if err := c.do(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return 0, err
	}
	return result.DeletedTasksCount, nil
}

// Tasks lists the caller's tasks, optionally filtered by category name.
func (c *Client) Tasks(ctx context.Context, categoryFilter string) ([]model.Task, error) {
	path := "/api/tasks"
	if categoryFilter != "" {
		path += "?category=" + url.QueryEscape(categoryFilter)
	}
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, text, category string) (*model.Task, error) {
	body := map[string]string{"text": text, "category": category}
	var task model.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskUpdate carries a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Text      *string `json:"text,omitempty"`
	Category  *string `json:"category,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (c *Client) UpdateTask(ctx context.Context, id uuid.UUID, update TaskUpdate) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+id.String(), update, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) ToggleTask(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+id.String()+"/toggle", nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id.String(), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	rsp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer rsp.Body.Close()

	if rsp.StatusCode >= 400 {
		apiErr := &APIError{Status: rsp.StatusCode}
		var errBody struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(rsp.Body).Decode(&errBody); err == nil {
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(rsp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
