// Package repository はデータ永続化のインターフェースを定義する。
//
// 所有権を条件とする更新・削除は、読み取り→検査→書き込みの分離ではなく
// 所有権述語を含む単一の条件付きステートメントとして実装する。
// これにより検査と書き込みの間の競合ウィンドウを閉じる。
// 条件付き操作はboolを返し、falseは「条件に一致する行がなかった」ことを示す。
// 404と403の区別は呼び出し側がFindByIDで存在を確認して行う。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/boardman/internal/model"
)

// BoardRepository はボードデータの永続化インターフェース。
type BoardRepository interface {
	// ListByOwner は指定ユーザーが所有するボード一覧を返す。
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Board, error)

	// FindByID は指定IDのボードを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Board, error)

	// Create はボードを作成する。
	Create(ctx context.Context, board *model.Board) error

	// UpdateIfOwner はownerIDが所有者である場合に限り名前と説明を更新する。
	// 条件に一致する行がない場合はfalseを返す。
	UpdateIfOwner(ctx context.Context, id, ownerID, name, description string) (bool, error)

	// DeleteIfOwner はownerIDが所有者である場合に限りボードを削除する。
	// 条件に一致する行がない場合はfalseを返す。
	DeleteIfOwner(ctx context.Context, id, ownerID string) (bool, error)
}

// CardRepository はカードデータの永続化インターフェース。
type CardRepository interface {
	// ListByBoard はボード内の全カードを返す。
	ListByBoard(ctx context.Context, boardID string) ([]*model.Card, error)

	// ListByBoardAndStatus はボード内の指定ステータスのカードを返す。
	ListByBoardAndStatus(ctx context.Context, boardID, status string) ([]*model.Card, error)

	// ListByBoardAndOwner はボード内で指定ユーザーが所有するカードを返す。
	ListByBoardAndOwner(ctx context.Context, boardID, ownerID string) ([]*model.Card, error)

	// FindByBoardAndID はボードIDとカードIDでカードを取得する。見つからない場合はnilを返す。
	FindByBoardAndID(ctx context.Context, boardID, id string) (*model.Card, error)

	// Create はカードを作成する。
	Create(ctx context.Context, card *model.Card) error

	// UpdateIfOwner は同一ボード内でownerIDが所有者である場合に限り
	// 部分更新を行う。nilフィールドは変更しない。
	// 条件に一致する行がない場合はfalseを返す。
	UpdateIfOwner(ctx context.Context, boardID, id, ownerID string, name, description, status *string) (bool, error)

	// DeleteIfOwner は同一ボード内でownerIDが所有者である場合に限りカードを削除する。
	// 条件に一致する行がない場合はfalseを返す。
	DeleteIfOwner(ctx context.Context, boardID, id, ownerID string) (bool, error)
}

// TaskRepository はタスクデータの永続化インターフェース。
type TaskRepository interface {
	// ListByCardAndOwner はboardId+cardIdスコープ内で指定ユーザーが
	// 所有するタスク一覧を返す。
	ListByCardAndOwner(ctx context.Context, boardID, cardID, ownerID string) ([]*model.Task, error)

	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Task, error)

	// FindInCard はboardId+cardIdスコープ内でタスクを取得する。見つからない場合はnilを返す。
	FindInCard(ctx context.Context, boardID, cardID, taskID string) (*model.Task, error)

	// Create はタスクを作成する。
	Create(ctx context.Context, task *model.Task) error

	// UpdateRefsIfOwner は所有者・ボード・カードが一致する場合に限り
	// id/ownerId/cardIdフィールドを更新する。nilフィールドは変更しない。
	// タイトル・説明・ステータスはこの経路では更新できない。
	// 条件に一致する行がない場合はfalseを返す。
	UpdateRefsIfOwner(ctx context.Context, taskID, ownerID, boardID, cardID string, newID, newOwnerID, newCardID *string) (bool, error)

	// DeleteIfOwner は所有者・ボード・カードが一致する場合に限りタスクを削除する。
	// 条件に一致する行がない場合はfalseを返す。
	DeleteIfOwner(ctx context.Context, boardID, cardID, taskID, ownerID string) (bool, error)
}

// AssigneeRepository はタスク担当者の永続化インターフェース。
type AssigneeRepository interface {
	// Create は担当者の割り当てを作成する。
	Create(ctx context.Context, assignee *model.Assignee) error

	// ListByTask は指定タスクの担当者一覧を返す。
	ListByTask(ctx context.Context, taskID string) ([]*model.Assignee, error)

	// DeleteByTaskAndMember はタスクIDとメンバーIDで割り当てを削除する。
	// 一致する行がない場合はfalseを返す。
	DeleteByTaskAndMember(ctx context.Context, taskID, memberID string) (bool, error)
}

// InviteRepository は招待データの永続化インターフェース。
type InviteRepository interface {
	// Create は招待を作成する。
	Create(ctx context.Context, invite *model.Invite) error

	// FindByID は指定IDの招待を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Invite, error)

	// RespondIfPending はstatusがpendingである場合に限り状態を遷移させる。
	// 応答済みの招待には作用せずfalseを返す（一度だけの遷移を構造的に保証する）。
	RespondIfPending(ctx context.Context, id string, status model.InviteStatus, respondedAt time.Time) (bool, error)
}

// AttachmentRepository はGitHub添付の永続化インターフェース。
type AttachmentRepository interface {
	// Create は添付を作成する。
	Create(ctx context.Context, attachment *model.GithubAttachment) error

	// ListByTask は指定タスクの添付一覧を返す。
	ListByTask(ctx context.Context, taskID string) ([]*model.GithubAttachment, error)

	// DeleteByID は指定IDの添付を削除する。一致する行がない場合はfalseを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}
