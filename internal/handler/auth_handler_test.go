package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/boardman/internal/identity"
	"github.com/hitoshi/boardman/internal/middleware"
	"github.com/hitoshi/boardman/internal/model"
)

// --- モック定義 ---

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	signUpFn func(ctx context.Context, email, password string) (string, error)
	signInFn func(ctx context.Context, email, password string) (*identity.Credentials, error)
	lookupFn func(ctx context.Context, idToken string) (*model.User, error)
}

func (m *mockAuthService) SignUp(ctx context.Context, email, password string) (string, error) {
	if m.signUpFn != nil {
		return m.signUpFn(ctx, email, password)
	}
	return "", nil
}

func (m *mockAuthService) SignIn(ctx context.Context, email, password string) (*identity.Credentials, error) {
	if m.signInFn != nil {
		return m.signInFn(ctx, email, password)
	}
	return nil, nil
}

func (m *mockAuthService) Lookup(ctx context.Context, idToken string) (*model.User, error) {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, idToken)
	}
	return nil, nil
}

// --- テストヘルパー ---

// withUserID はテスト用にリクエストコンテキストにユーザーIDを注入するヘルパー。
func withUserID(r *http.Request, userID string) *http.Request {
	ctx := middleware.ContextWithUserID(r.Context(), userID)
	return r.WithContext(ctx)
}

// withChiURLParams はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// decodeBody はレスポンスボディをmapにデコードするヘルパー。
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return result
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode request body: %v", err)
	}
	return buf
}

// --- テスト ---

func TestAuthHandler_Signup_Success(t *testing.T) {
	svc := &mockAuthService{
		signUpFn: func(_ context.Context, email, password string) (string, error) {
			if email != "alice@example.com" {
				t.Errorf("email = %q, want %q", email, "alice@example.com")
			}
			return "user-123", nil
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
		jsonBody(t, map[string]string{"email": "alice@example.com", "password": "secret"}))
	w := httptest.NewRecorder()
	h.Signup(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	body := decodeBody(t, w)
	if body["userId"] != "user-123" {
		t.Errorf("userId = %v, want %q", body["userId"], "user-123")
	}
}

func TestAuthHandler_Signup_MissingFields(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
		jsonBody(t, map[string]string{"email": "alice@example.com"}))
	w := httptest.NewRecorder()
	h.Signup(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAuthHandler_Signup_ProviderRejection(t *testing.T) {
	svc := &mockAuthService{
		signUpFn: func(_ context.Context, _, _ string) (string, error) {
			return "", model.NewSignupFailedError()
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
		jsonBody(t, map[string]string{"email": "dup@example.com", "password": "secret"}))
	w := httptest.NewRecorder()
	h.Signup(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	body := decodeBody(t, w)
	if body["code"] != model.ErrCodeSignupFailed {
		t.Errorf("code = %v, want %q", body["code"], model.ErrCodeSignupFailed)
	}
}

func TestAuthHandler_Signin_Success(t *testing.T) {
	svc := &mockAuthService{
		signInFn: func(_ context.Context, _, _ string) (*identity.Credentials, error) {
			return &identity.Credentials{
				IDToken:      "id-token",
				RefreshToken: "refresh-token",
				UserID:       "user-123",
			}, nil
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin",
		jsonBody(t, map[string]string{"email": "alice@example.com", "password": "secret"}))
	w := httptest.NewRecorder()
	h.Signin(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w)
	if body["idToken"] != "id-token" || body["refreshToken"] != "refresh-token" || body["userId"] != "user-123" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestAuthHandler_Signin_Failure(t *testing.T) {
	svc := &mockAuthService{
		signInFn: func(_ context.Context, _, _ string) (*identity.Credentials, error) {
			return nil, model.NewSigninFailedError()
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin",
		jsonBody(t, map[string]string{"email": "alice@example.com", "password": "wrong"}))
	w := httptest.NewRecorder()
	h.Signin(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAuthHandler_GetUser_Success(t *testing.T) {
	svc := &mockAuthService{
		lookupFn: func(_ context.Context, idToken string) (*model.User, error) {
			if idToken != "valid-token" {
				t.Errorf("idToken = %q, want %q", idToken, "valid-token")
			}
			return &model.User{ID: "user-123", Email: "alice@example.com", Name: "Alice"}, nil
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	h.GetUser(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w)
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user object, got %v", body)
	}
	if user["id"] != "user-123" || user["email"] != "alice@example.com" {
		t.Errorf("unexpected user: %v", user)
	}
}

func TestAuthHandler_GetUser_MissingHeader(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	w := httptest.NewRecorder()
	h.GetUser(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
