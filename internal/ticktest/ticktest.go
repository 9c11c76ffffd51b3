// Package ticktest builds HTTP requests against the ticklist API for use
// in handler tests.
package ticktest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

// ========== MIDDLEWARE ==========

func headerJSON(req *http.Request) *http.Request {
	req.Header.Set("Content-Type", "application/json")
	return req
}

func requireToken(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %v", token))
	return req
}

// AUTH

func Register(username, email, password string) *http.Request {
	payload := strings.NewReader(fmt.Sprintf(`{"username":"%v","email":"%v","password":"%v"}`, username, email, password))
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", payload)
	return headerJSON(req)
}

func Login(email, password string) *http.Request {
	payload := strings.NewReader(fmt.Sprintf(`{"email":"%v","password":"%v"}`, email, password))
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", payload)
	return headerJSON(req)
}

func Me(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	return headerJSON(requireToken(req, token))
}

// CATEGORY CRUD

func GetCategories(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	return headerJSON(requireToken(req, token))
}

func CreateCategory(token, name string) *http.Request {
	payload := strings.NewReader(fmt.Sprintf(`{"name":"%v"}`, name))
	req := httptest.NewRequest(http.MethodPost, "/api/categories", payload)
	return headerJSON(requireToken(req, token))
}

func DeleteCategory(token, name string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/api/categories/"+url.PathEscape(name), nil)
	return headerJSON(requireToken(req, token))
}

// TASK CRUD

func GetTasks(token, categoryFilter string) *http.Request {
	path := "/api/tasks"
	if categoryFilter != "" {
		path += "?category=" + url.QueryEscape(categoryFilter)
	}
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return headerJSON(requireToken(req, token))
}

func CreateTask(token, text, category string) *http.Request {
	payload := strings.NewReader(fmt.Sprintf(`{"text":"%v","category":"%v"}`, text, category))
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", payload)
	return headerJSON(requireToken(req, token))
}

func UpdateTask(token, taskID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+taskID, strings.NewReader(body))
	return headerJSON(requireToken(req, token))
}

func ToggleTask(token, taskID string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/tasks/%v/toggle", taskID), nil)
	return headerJSON(requireToken(req, token))
}

func DeleteTask(token, taskID string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/api/tasks/"+taskID, nil)
	return headerJSON(requireToken(req, token))
}

// HEALTH

func Health() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/health", nil)
}
