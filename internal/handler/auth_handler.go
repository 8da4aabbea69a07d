package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/boardman/internal/identity"
	"github.com/hitoshi/boardman/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするIDプロバイダー操作のインターフェース。
type AuthServiceInterface interface {
	// SignUp は新規ユーザーを登録し、ユーザーIDを返す。
	SignUp(ctx context.Context, email, password string) (string, error)
	// SignIn はメールアドレスとパスワードでサインインする。
	SignIn(ctx context.Context, email, password string) (*identity.Credentials, error)
	// Lookup はトークンに対応するユーザーレコードを取得する。
	Lookup(ctx context.Context, idToken string) (*model.User, error)
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// credentialsRequest はサインアップ/サインインリクエストのボディ。
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Signup は新規ユーザー登録を処理する。
// POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.Email == "" || req.Password == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidArgumentError("emailとpasswordは必須です"))
		return
	}

	userID, err := h.service.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	slog.Info("user signed up", slog.String("user_id", userID))
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "ユーザーを登録しました。",
		"userId":  userID,
	})
}

// Signin はサインインを処理する。
// POST /api/auth/signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	creds, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":      "サインインしました。",
		"idToken":      creds.IDToken,
		"refreshToken": creds.RefreshToken,
		"userId":       creds.UserID,
	})
}

// GetUser は現在のユーザー情報を返す。
// GET /api/auth/user
//
// 認証ミドルウェアを通過済みだが、プロバイダーへの問い合わせには
// トークンそのものが必要なため、ここで再度抽出する。
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		writeUnauthorized(w)
		return
	}
	idToken := strings.TrimPrefix(authHeader, prefix)

	user, err := h.service.Lookup(r.Context(), idToken)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]userResponse{
		"user": {
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
	})
}
