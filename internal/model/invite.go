// Package model はドメインモデルを定義する。
package model

import "time"

// InviteStatus は招待の状態を表す。
type InviteStatus string

const (
	// InviteStatusPending は応答待ちの招待状態。
	InviteStatusPending InviteStatus = "pending"
	// InviteStatusAccepted は承認された招待状態。
	InviteStatusAccepted InviteStatus = "accepted"
	// InviteStatusDeclined は辞退された招待状態。
	InviteStatusDeclined InviteStatus = "declined"
)

// ValidInviteResponse は招待への応答として有効な状態かどうかを返す。
// pendingへの再遷移は応答として認めない。
func ValidInviteResponse(status string) bool {
	return status == string(InviteStatusAccepted) || status == string(InviteStatusDeclined)
}

// Invite はボード/カードへのメンバー招待を表す。
// pendingで作成され、accepted/declinedへ一度だけ遷移する。
type Invite struct {
	ID           string
	BoardID      string
	CardID       string // 任意。ボード全体への招待では空
	BoardOwnerID string
	MemberID     string
	EmailMember  string // 任意
	Status       InviteStatus
	CreatedAt    time.Time
	RespondedAt  *time.Time
}
