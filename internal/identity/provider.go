// Package identity は外部IDプロバイダーとの連携を提供する。
//
// 認証プロトコルの実装・ユーザーレコードの保管はプロバイダー側の責務であり、
// 本パッケージはそのREST APIを呼び出す薄いクライアントのみを持つ。
package identity

import (
	"context"

	"github.com/hitoshi/boardman/internal/model"
)

// Credentials はサインイン成功時にプロバイダーが発行する認証情報を表す。
type Credentials struct {
	IDToken      string
	RefreshToken string
	UserID       string
}

// Provider は外部IDプロバイダーのインターフェース。
// 将来的に複数のプロバイダーに対応するための抽象化。
type Provider interface {
	// SignUp はメールアドレスとパスワードで新規ユーザーを登録し、ユーザーIDを返す。
	SignUp(ctx context.Context, email, password string) (string, error)

	// SignIn はメールアドレスとパスワードでサインインし、認証情報を返す。
	SignIn(ctx context.Context, email, password string) (*Credentials, error)

	// VerifyToken はベアラートークンを検証し、ユーザーIDを返す。
	// 欠落・不正・期限切れのトークンは理由を区別せず一律に
	// InvalidCredentialエラーとして拒否する。
	VerifyToken(ctx context.Context, idToken string) (string, error)

	// Lookup はトークンに対応するユーザーレコードを取得する。
	Lookup(ctx context.Context, idToken string) (*model.User, error)
}
