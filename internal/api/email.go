package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

// EmailValidator decides whether an address may be used for registration.
// Implementations range from a format check to a paid deliverability API,
// and are selected by configuration.
type EmailValidator interface {
	Validate(ctx context.Context, email string) error
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegexEmailValidator accepts anything shaped like an email address.
type RegexEmailValidator struct{}

func (RegexEmailValidator) Validate(_ context.Context, email string) error {
	if !emailPattern.MatchString(email) {
		return errors.New("please provide a valid email address")
	}
	return nil
}

const abstractAPIBaseURL = "https://emailvalidation.abstractapi.com/v1/"

// AbstractEmailValidator checks deliverability through the Abstract email
// validation API.
type AbstractEmailValidator struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewAbstractEmailValidator(apiKey string, client *http.Client) *AbstractEmailValidator {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &AbstractEmailValidator{
		apiKey:  apiKey,
		baseURL: abstractAPIBaseURL,
		client:  client,
	}
}

func (v *AbstractEmailValidator) Validate(ctx context.Context, email string) error {
	if v.apiKey == "" {
		return errors.New("email verification service not configured")
	}

	q := url.Values{}
	q.Set("api_key", v.apiKey)
	q.Set("email", email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build email verification request: %w", err)
	}

	rsp, err := v.client.Do(req)
	if err != nil {
		return errors.New("email verification service temporarily unavailable")
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		return errors.New("email verification service temporarily unavailable")
	}

	type boolField struct {
		Value bool `json:"value"`
	}
	var verdict struct {
		Deliverability    string    `json:"deliverability"`
		IsValidFormat     boolField `json:"is_valid_format"`
		IsDisposableEmail boolField `json:"is_disposable_email"`
	}
	if err := json.NewDecoder(rsp.Body).Decode(&verdict); err != nil {
		return errors.New("email verification service temporarily unavailable")
	}

	if verdict.Deliverability != "DELIVERABLE" || !verdict.IsValidFormat.Value || verdict.IsDisposableEmail.Value {
		return errors.New("email address is not valid or deliverable")
	}
	return nil
}
