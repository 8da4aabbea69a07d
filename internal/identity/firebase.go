package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/boardman/internal/model"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// FirebaseConfig はFirebaseプロバイダーの設定。
type FirebaseConfig struct {
	APIKey string

	// テスト用にオーバーライド可能なURL
	BaseURL string

	// HTTPクライアントのタイムアウト。ゼロ値の場合は10秒
	Timeout time.Duration
}

// FirebaseProvider はGoogle Identity Toolkit REST APIによる認証を提供する。
// signUp / signInWithPassword / lookup の3エンドポイントのみを使用する。
type FirebaseProvider struct {
	config FirebaseConfig
	client *http.Client
}

// NewFirebaseProvider はFirebaseProviderを生成する。
func NewFirebaseProvider(config FirebaseConfig) *FirebaseProvider {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &FirebaseProvider{
		config: config,
		client: &http.Client{Timeout: timeout},
	}
}

// signUpResponse はaccounts:signUpエンドポイントのレスポンス。
type signUpResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

// signInResponse はaccounts:signInWithPasswordエンドポイントのレスポンス。
type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
}

// lookupResponse はaccounts:lookupエンドポイントのレスポンス。
type lookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	} `json:"users"`
}

// SignUp はメールアドレスとパスワードで新規ユーザーを登録する。
// プロバイダーが拒否した場合はSIGNUP_FAILEDエラーを返す。
// 拒否理由の詳細はログのみに記録し、呼び出し元には渡さない。
func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	var resp signUpResponse
	err := p.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		slog.Warn("identity provider rejected signup", slog.String("error", err.Error()))
		return "", model.NewSignupFailedError()
	}
	if resp.LocalID == "" {
		return "", model.NewSignupFailedError()
	}
	return resp.LocalID, nil
}

// SignIn はメールアドレスとパスワードでサインインする。
// プロバイダーが拒否した場合はSIGNIN_FAILEDエラーを返す。
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Credentials, error) {
	var resp signInResponse
	err := p.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		slog.Warn("identity provider rejected signin", slog.String("error", err.Error()))
		return nil, model.NewSigninFailedError()
	}
	if resp.IDToken == "" || resp.LocalID == "" {
		return nil, model.NewSigninFailedError()
	}
	return &Credentials{
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.LocalID,
	}, nil
}

// VerifyToken はベアラートークンを検証し、ユーザーIDを返す。
// 不正・期限切れ・未知のトークンはすべてInvalidCredentialエラーに丸める。
func (p *FirebaseProvider) VerifyToken(ctx context.Context, idToken string) (string, error) {
	if idToken == "" {
		return "", model.NewInvalidCredentialError()
	}

	var resp lookupResponse
	err := p.post(ctx, "accounts:lookup", map[string]any{
		"idToken": idToken,
	}, &resp)
	if err != nil {
		return "", model.NewInvalidCredentialError()
	}
	if len(resp.Users) == 0 || resp.Users[0].LocalID == "" {
		return "", model.NewInvalidCredentialError()
	}
	return resp.Users[0].LocalID, nil
}

// Lookup はトークンに対応するユーザーレコードを取得する。
func (p *FirebaseProvider) Lookup(ctx context.Context, idToken string) (*model.User, error) {
	if idToken == "" {
		return nil, model.NewInvalidCredentialError()
	}

	var resp lookupResponse
	err := p.post(ctx, "accounts:lookup", map[string]any{
		"idToken": idToken,
	}, &resp)
	if err != nil {
		return nil, model.NewInvalidCredentialError()
	}
	if len(resp.Users) == 0 || resp.Users[0].LocalID == "" {
		return nil, model.NewInvalidCredentialError()
	}

	u := resp.Users[0]
	return &model.User{
		ID:    u.LocalID,
		Email: u.Email,
		Name:  u.DisplayName,
	}, nil
}

// post はプロバイダーのエンドポイントにJSONリクエストを送信する。
// APIキーはクエリパラメータとして付与する。
func (p *FirebaseProvider) post(ctx context.Context, endpoint string, body map[string]any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", p.config.BaseURL, endpoint, p.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// compile-time interface check
var _ Provider = (*FirebaseProvider)(nil)
