// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はボード・カード・タスクの名前や説明など
// ユーザー入力の自由テキストをサニタイズし、保存データ経由の
// XSS攻撃からフロントエンドを保護する。
// bluemondayライブラリの許可リストベースのポリシーを使用する。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はテキストコンテンツのサニタイズ機能のインターフェースを定義する。
// リソースの作成・更新時、ストアへの書き込み前に使用される。
type ContentSanitizerService interface {
	// Sanitize は入力テキストからHTMLタグとon*イベント属性を全て除去して返す。
	// ボード名やカード説明は書式付きHTMLを想定しないため、
	// 許可タグなしのStrictPolicyを適用する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// ボード・カード・タスクのテキストフィールドはプレーンテキストとして扱うため、
// タグを一切許可しないStrictPolicyを使用する。
// script, iframe, style等のタグおよびon*イベント属性は全て除去される。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストをサニタイズして返す。
func (s *contentSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
