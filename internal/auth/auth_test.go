package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
)

// HASH TESTS

const (
	testPassword = "tangoFoxtrot123"
	altPassword  = "tangoFoxtrot124"
)

func TestHashUnequal(t *testing.T) {
	hashedPass, err := HashPassword(testPassword)
	if err != nil {
		t.Error(err)
	}
	match, _ := CheckPasswordHash(altPassword, hashedPass)
	if match {
		t.Error("password should not have matched, but did")
	}
}

func TestHashEqual(t *testing.T) {
	hashedPass, err := HashPassword(testPassword)
	if err != nil {
		t.Error(err)
	}
	if hashedPass == testPassword {
		t.Error("password was not hashed")
	}
	match, _ := CheckPasswordHash(testPassword, hashedPass)
	if !match {
		t.Error("password should have matched, but did not")
	}
}

// JWT TESTS

func TestJWTRoundTrip(t *testing.T) {
	userID := uuid.New()
	tokenSecret := "very-secret-secret"

	token, err := MakeJWT(userID, tokenSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	gotID, err := ValidateJWT(token, tokenSecret)
	if err != nil {
		t.Fatal(err)
	}
	if gotID != userID {
		t.Errorf("expected subject %v, got %v", userID, gotID)
	}
}

func TestJWTRejectExpired(t *testing.T) {
	token, err := MakeJWT(uuid.New(), "very-secret-secret", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateJWT(token, "very-secret-secret"); err == nil {
		t.Error("expired JWT not rejected")
	}
}

func TestJWTRejectWrongSecret(t *testing.T) {
	token, err := MakeJWT(uuid.New(), "right-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateJWT(token, "wrong-secret"); err == nil {
		t.Error("JWT with wrong secret not rejected")
	}
}

// HEADER TESTS

func TestGetBearerToken(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   bool
	}{
		{name: "valid bearer", header: "Bearer abc123", wantToken: "abc123"},
		{name: "lowercase scheme", header: "bearer abc123", wantToken: "abc123"},
		{name: "missing header", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic abc123", wantErr: true},
		{name: "bearer without token", header: "Bearer  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			if tt.header != "" {
				headers.Set("Authorization", tt.header)
			}
			token, err := GetBearerToken(headers)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got token %q", token)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if token != tt.wantToken {
				t.Errorf("expected token %q, got %q", tt.wantToken, token)
			}
		})
	}
}
