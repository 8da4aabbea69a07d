// Package model はドメインモデルを定義する。
package model

// User は外部IDプロバイダーに登録されたサービス利用ユーザーを表す。
// ユーザーレコードの作成・保管はプロバイダー側の責務であり、
// 本システムはトークン検証を通じて得た情報のみを保持する。
type User struct {
	ID    string
	Email string
	Name  string
}
