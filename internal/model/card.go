// Package model はドメインモデルを定義する。
package model

import "time"

// Card はボード内の作業単位を表す。
// 作成者がオーナーとして記録され、ListMemberに必ず含まれる。
// Statusは呼び出し側が指定する自由形式の文字列で、
// この層では状態遷移の制約を課さない。
type Card struct {
	ID          string
	BoardID     string
	OwnerID     string
	Name        string
	Description string
	Status      string
	ListMember  []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
