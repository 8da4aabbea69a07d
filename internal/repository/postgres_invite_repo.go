package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresInviteRepo はPostgreSQLを使用した招待リポジトリ。
type PostgresInviteRepo struct {
	db *sql.DB
}

// NewPostgresInviteRepo はPostgresInviteRepoを生成する。
func NewPostgresInviteRepo(db *sql.DB) *PostgresInviteRepo {
	return &PostgresInviteRepo{db: db}
}

// Create は招待を作成する。card_idとemail_memberは空文字列の場合NULLとして保存する。
func (r *PostgresInviteRepo) Create(ctx context.Context, invite *model.Invite) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invites (id, board_id, card_id, board_owner_id, member_id, email_member, status, created_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8)`,
		invite.ID, invite.BoardID, invite.CardID, invite.BoardOwnerID,
		invite.MemberID, invite.EmailMember, string(invite.Status), invite.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create invite: %w", err)
	}
	return nil
}

// FindByID は指定IDの招待を取得する。見つからない場合はnilを返す。
func (r *PostgresInviteRepo) FindByID(ctx context.Context, id string) (*model.Invite, error) {
	invite := &model.Invite{}
	var cardID, emailMember sql.NullString
	var status string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, board_id, card_id, board_owner_id, member_id, email_member, status, created_at, responded_at
		 FROM invites WHERE id = $1`,
		id,
	).Scan(
		&invite.ID, &invite.BoardID, &cardID, &invite.BoardOwnerID,
		&invite.MemberID, &emailMember, &status, &invite.CreatedAt, &invite.RespondedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}

	invite.CardID = cardID.String
	invite.EmailMember = emailMember.String
	invite.Status = model.InviteStatus(status)
	return invite, nil
}

// RespondIfPending はstatusがpendingである場合に限り状態を遷移させる。
// 条件付きUPDATEにより、二重応答の競合はどちらか一方のみが成立する。
func (r *PostgresInviteRepo) RespondIfPending(ctx context.Context, id string, status model.InviteStatus, respondedAt time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invites
		 SET status = $2, responded_at = $3
		 WHERE id = $1 AND status = 'pending'`,
		id, string(status), respondedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to respond to invite: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// compile-time interface check
var _ InviteRepository = (*PostgresInviteRepo)(nil)
