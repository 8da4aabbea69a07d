// Package model はドメインモデルを定義する。
package model

import "time"

// Task はカード内のアクションアイテムを表す。
// boardId + cardId の組み合わせでスコープされ、作成者がオーナーとなる。
type Task struct {
	ID          string
	BoardID     string
	CardID      string
	OwnerID     string
	Title       string
	Description string
	Status      string
	CreatedAt   time.Time
}

// Assignee はタスクとメンバーの割り当て関係を表す。
type Assignee struct {
	ID        string
	TaskID    string
	MemberID  string
	CreatedAt time.Time
}
