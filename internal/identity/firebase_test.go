package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/boardman/internal/model"
)

// newFakeIdentityServer はIdentity Toolkit互換のフェイクサーバーを起動する。
func newFakeIdentityServer(t *testing.T, handler http.HandlerFunc) *FirebaseProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewFirebaseProvider(FirebaseConfig{
		APIKey:  "test-api-key",
		BaseURL: server.URL,
	})
}

func apiErrorCode(t *testing.T, err error) string {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T: %v", err, err)
	}
	return apiErr.Code
}

func TestFirebaseProvider_SignUp_Success(t *testing.T) {
	provider := newFakeIdentityServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "accounts:signUp") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-api-key" {
			t.Errorf("key = %q, want %q", r.URL.Query().Get("key"), "test-api-key")
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if body["email"] != "alice@example.com" {
			t.Errorf("email = %v, want %q", body["email"], "alice@example.com")
		}
		if body["returnSecureToken"] != true {
			t.Error("returnSecureToken should be true")
		}

		json.NewEncoder(w).Encode(map[string]string{
			"localId": "user-123",
			"email":   "alice@example.com",
		})
	})

	userID, err := provider.SignUp(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want %q", userID, "user-123")
	}
}

func TestFirebaseProvider_SignUp_ProviderRejection(t *testing.T) {
	provider := newFakeIdentityServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "EMAIL_EXISTS"},
		})
	})

	_, err := provider.SignUp(context.Background(), "dup@example.com", "secret")
	if err == nil {
		t.Fatal("expected error")
	}
	if code := apiErrorCode(t, err); code != model.ErrCodeSignupFailed {
		t.Errorf("code = %q, want %q", code, model.ErrCodeSignupFailed)
	}
}

func TestFirebaseProvider_SignIn_Success(t *testing.T) {
	provider := newFakeIdentityServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "accounts:signInWithPassword") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"idToken":      "id-token",
			"refreshToken": "refresh-token",
			"localId":      "user-123",
		})
	})

	creds, err := provider.SignIn(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if creds.IDToken != "id-token" || creds.RefreshToken != "refresh-token" || creds.UserID != "user-123" {
		t.Errorf("unexpected credentials: %+v", creds)
	}
}

func TestFirebaseProvider_SignIn_WrongPassword(t *testing.T) {
	provider := newFakeIdentityServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "INVALID_PASSWORD"},
		})
	})

	_, err := provider.SignIn(context.Background(), "alice@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if code := apiErrorCode(t, err); code != model.ErrCodeSigninFailed {
		t.Errorf("code = %q, want %q", code, model.ErrCodeSigninFailed)
	}
}

func TestFirebaseProvider_VerifyToken_Success(t *testing.T) {
	provider := newFakeIdentityServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "accounts:lookup") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]string{
				{"localId": "user-123", "email": "alice@example.com"},
			},
		})
	})

	userID, err := provider.VerifyToken(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want %q", userID, "user-123")
	}
}

func TestFirebaseProvider_VerifyToken_EmptyToken(t *testing.T) {
	// 空トークンはリクエストを送らずに拒否する
	provider := newFakeIdentityServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called")
	})

	_, err := provider.VerifyToken(context.Background(), "")
	if err == nil {
		t.Fatal("expected error")
	}
	if code := apiErrorCode(t, err); code != model.ErrCodeInvalidCredential {
		t.Errorf("code = %q, want %q", code, model.ErrCodeInvalidCredential)
	}
}

func TestFirebaseProvider_VerifyToken_UnknownToken(t *testing.T) {
	provider := newFakeIdentityServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"users": []any{}})
	})

	_, err := provider.VerifyToken(context.Background(), "unknown-token")
	if err == nil {
		t.Fatal("expected error")
	}
	if code := apiErrorCode(t, err); code != model.ErrCodeInvalidCredential {
		t.Errorf("code = %q, want %q", code, model.ErrCodeInvalidCredential)
	}
}

func TestFirebaseProvider_Lookup_Success(t *testing.T) {
	provider := newFakeIdentityServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]string{
				{"localId": "user-123", "email": "alice@example.com", "displayName": "Alice"},
			},
		})
	})

	user, err := provider.Lookup(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if user.ID != "user-123" || user.Email != "alice@example.com" || user.Name != "Alice" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestFirebaseProvider_DefaultBaseURL(t *testing.T) {
	provider := NewFirebaseProvider(FirebaseConfig{APIKey: "key"})
	if provider.config.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", provider.config.BaseURL, defaultBaseURL)
	}
}
