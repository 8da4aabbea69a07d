package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresAssigneeRepo はPostgreSQLを使用した担当者リポジトリ。
// 割り当ては行ごとに独立したIDを持ち、1タスクに複数の担当者を紐付けられる。
type PostgresAssigneeRepo struct {
	db *sql.DB
}

// NewPostgresAssigneeRepo はPostgresAssigneeRepoを生成する。
func NewPostgresAssigneeRepo(db *sql.DB) *PostgresAssigneeRepo {
	return &PostgresAssigneeRepo{db: db}
}

// Create は担当者の割り当てを作成する。
func (r *PostgresAssigneeRepo) Create(ctx context.Context, assignee *model.Assignee) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assignees (id, task_id, member_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		assignee.ID, assignee.TaskID, assignee.MemberID, assignee.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create assignee: %w", err)
	}
	return nil
}

// ListByTask は指定タスクの担当者一覧を返す。
func (r *PostgresAssigneeRepo) ListByTask(ctx context.Context, taskID string) ([]*model.Assignee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, member_id, created_at
		 FROM assignees
		 WHERE task_id = $1
		 ORDER BY created_at`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignees: %w", err)
	}
	defer rows.Close()

	var assignees []*model.Assignee
	for rows.Next() {
		a := &model.Assignee{}
		if err := rows.Scan(&a.ID, &a.TaskID, &a.MemberID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignee: %w", err)
		}
		assignees = append(assignees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignees: %w", err)
	}

	return assignees, nil
}

// DeleteByTaskAndMember はタスクIDとメンバーIDで割り当てを削除する。
func (r *PostgresAssigneeRepo) DeleteByTaskAndMember(ctx context.Context, taskID, memberID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM assignees WHERE task_id = $1 AND member_id = $2`,
		taskID, memberID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete assignee: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// compile-time interface check
var _ AssigneeRepository = (*PostgresAssigneeRepo)(nil)
