// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, board, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidCredential      = "INVALID_CREDENTIAL"
	ErrCodeUnauthorized           = "UNAUTHORIZED"
	ErrCodeForbidden              = "FORBIDDEN"
	ErrCodeBoardNotFound          = "BOARD_NOT_FOUND"
	ErrCodeCardNotFound           = "CARD_NOT_FOUND"
	ErrCodeTaskNotFound           = "TASK_NOT_FOUND"
	ErrCodeAssigneeNotFound       = "ASSIGNEE_NOT_FOUND"
	ErrCodeInviteNotFound         = "INVITE_NOT_FOUND"
	ErrCodeAttachmentNotFound     = "ATTACHMENT_NOT_FOUND"
	ErrCodeInvalidArgument        = "INVALID_ARGUMENT"
	ErrCodeInviteAlreadyResponded = "INVITE_ALREADY_RESPONDED"
	ErrCodeSignupFailed           = "SIGNUP_FAILED"
	ErrCodeSigninFailed           = "SIGNIN_FAILED"
)

// NewInvalidCredentialError は認証情報エラーを生成する。
// トークンの欠落・不正・期限切れは理由を区別せず一律にこのエラーとなる。
func NewInvalidCredentialError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredential,
		Message:  "認証情報が無効です。",
		Category: "auth",
		Action:   "再度サインインしてください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "Authorizationヘッダーにベアラートークンを指定してください。",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
// 認証済みだがリソースの所有者/メンバーではない場合に使用する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "リソースの所有者またはメンバーであることを確認してください。",
	}
}

// NewBoardNotFoundError はボード未検出エラーを生成する。
func NewBoardNotFoundError(boardID string) *APIError {
	return &APIError{
		Code:     ErrCodeBoardNotFound,
		Message:  fmt.Sprintf("指定されたボードが見つかりません: %s", boardID),
		Category: "board",
		Action:   "ボードIDを確認してください。",
	}
}

// NewCardNotFoundError はカード未検出エラーを生成する。
func NewCardNotFoundError(cardID string) *APIError {
	return &APIError{
		Code:     ErrCodeCardNotFound,
		Message:  fmt.Sprintf("指定されたカードが見つかりません: %s", cardID),
		Category: "board",
		Action:   "ボードIDとカードIDの組み合わせを確認してください。",
	}
}

// NewTaskNotFoundError はタスク未検出エラーを生成する。
func NewTaskNotFoundError(taskID string) *APIError {
	return &APIError{
		Code:     ErrCodeTaskNotFound,
		Message:  fmt.Sprintf("指定されたタスクが見つかりません: %s", taskID),
		Category: "board",
		Action:   "ボード・カード・タスクIDの組み合わせを確認してください。",
	}
}

// NewAssigneeNotFoundError は担当者未検出エラーを生成する。
func NewAssigneeNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeAssigneeNotFound,
		Message:  "指定された担当者の割り当てが見つかりません。",
		Category: "board",
		Action:   "タスクIDとメンバーIDを確認してください。",
	}
}

// NewInviteNotFoundError は招待未検出エラーを生成する。
func NewInviteNotFoundError(inviteID string) *APIError {
	return &APIError{
		Code:     ErrCodeInviteNotFound,
		Message:  fmt.Sprintf("指定された招待が見つかりません: %s", inviteID),
		Category: "board",
		Action:   "招待IDを確認してください。",
	}
}

// NewAttachmentNotFoundError は添付未検出エラーを生成する。
func NewAttachmentNotFoundError(attachmentID string) *APIError {
	return &APIError{
		Code:     ErrCodeAttachmentNotFound,
		Message:  fmt.Sprintf("指定された添付が見つかりません: %s", attachmentID),
		Category: "board",
		Action:   "添付IDを確認してください。",
	}
}

// NewInvalidArgumentError はリクエスト内容の検証エラーを生成する。
func NewInvalidArgumentError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidArgument,
		Message:  fmt.Sprintf("リクエスト内容が不正です: %s", reason),
		Category: "validation",
		Action:   "リクエストボディの内容を確認してください。",
	}
}

// NewInviteAlreadyRespondedError は応答済み招待への再応答エラーを生成する。
// 招待はpendingからaccepted/declinedへ一度だけ遷移できる。
func NewInviteAlreadyRespondedError(inviteID string) *APIError {
	return &APIError{
		Code:     ErrCodeInviteAlreadyResponded,
		Message:  fmt.Sprintf("この招待はすでに応答済みです: %s", inviteID),
		Category: "board",
		Action:   "招待の現在の状態を確認してください。",
	}
}

// NewSignupFailedError はユーザー登録失敗エラーを生成する。
// プロバイダー側の拒否理由は詳細を伏せて一般的なメッセージに丸める。
func NewSignupFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeSignupFailed,
		Message:  "ユーザー登録に失敗しました。",
		Category: "auth",
		Action:   "メールアドレスとパスワードを確認してください。",
	}
}

// NewSigninFailedError はサインイン失敗エラーを生成する。
func NewSigninFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeSigninFailed,
		Message:  "サインインに失敗しました。",
		Category: "auth",
		Action:   "メールアドレスとパスワードを確認してください。",
	}
}
