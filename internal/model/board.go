// Package model はドメインモデルを定義する。
package model

import "time"

// Board はユーザーが所有するカンバンボードを表す。
// 所有者は常にMembersに含まれる（作成時に保証される）。
type Board struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	Members     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasMember は指定ユーザーがボードのメンバーかどうかを返す。
func (b *Board) HasMember(userID string) bool {
	for _, m := range b.Members {
		if m == userID {
			return true
		}
	}
	return false
}
