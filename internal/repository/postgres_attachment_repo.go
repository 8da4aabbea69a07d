package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresAttachmentRepo はPostgreSQLを使用したGitHub添付リポジトリ。
type PostgresAttachmentRepo struct {
	db *sql.DB
}

// NewPostgresAttachmentRepo はPostgresAttachmentRepoを生成する。
func NewPostgresAttachmentRepo(db *sql.DB) *PostgresAttachmentRepo {
	return &PostgresAttachmentRepo{db: db}
}

// Create は添付を作成する。numberとshaは種別に応じて片方のみ値を持つ。
func (r *PostgresAttachmentRepo) Create(ctx context.Context, attachment *model.GithubAttachment) error {
	var number sql.NullInt64
	if attachment.Number != 0 {
		number = sql.NullInt64{Int64: int64(attachment.Number), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO github_attachments (id, task_id, card_id, board_id, type, number, sha, attached_by, attached_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)`,
		attachment.ID, attachment.TaskID, attachment.CardID, attachment.BoardID,
		string(attachment.Type), number, attachment.Sha,
		attachment.AttachedBy, attachment.AttachedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}
	return nil
}

// ListByTask は指定タスクの添付一覧を返す。
func (r *PostgresAttachmentRepo) ListByTask(ctx context.Context, taskID string) ([]*model.GithubAttachment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, card_id, board_id, type, number, sha, attached_by, attached_at
		 FROM github_attachments
		 WHERE task_id = $1
		 ORDER BY attached_at`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []*model.GithubAttachment
	for rows.Next() {
		a := &model.GithubAttachment{}
		var typ string
		var number sql.NullInt64
		var sha sql.NullString
		if err := rows.Scan(
			&a.ID, &a.TaskID, &a.CardID, &a.BoardID, &typ,
			&number, &sha, &a.AttachedBy, &a.AttachedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		a.Type = model.AttachmentType(typ)
		a.Number = int(number.Int64)
		a.Sha = sha.String
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attachments: %w", err)
	}

	return attachments, nil
}

// DeleteByID は指定IDの添付を削除する。
func (r *PostgresAttachmentRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM github_attachments WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete attachment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// compile-time interface check
var _ AttachmentRepository = (*PostgresAttachmentRepo)(nil)
