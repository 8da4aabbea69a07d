package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresTaskRepo はPostgreSQLを使用したタスクリポジトリ。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

const taskColumns = `id, board_id, card_id, owner_id, title, description, status, created_at`

// scanTask は1行分のタスクをスキャンする。
func scanTask(row interface{ Scan(...any) error }) (*model.Task, error) {
	task := &model.Task{}
	err := row.Scan(
		&task.ID, &task.BoardID, &task.CardID, &task.OwnerID,
		&task.Title, &task.Description, &task.Status, &task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListByCardAndOwner はboardId+cardIdスコープ内で指定ユーザーが所有するタスク一覧を返す。
func (r *PostgresTaskRepo) ListByCardAndOwner(ctx context.Context, boardID, cardID, ownerID string) ([]*model.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE board_id = $1 AND card_id = $2 AND owner_id = $3
		 ORDER BY created_at`,
		boardID, cardID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
func (r *PostgresTaskRepo) FindByID(ctx context.Context, id string) (*model.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// FindInCard はboardId+cardIdスコープ内でタスクを取得する。見つからない場合はnilを返す。
func (r *PostgresTaskRepo) FindInCard(ctx context.Context, boardID, cardID, taskID string) (*model.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE board_id = $1 AND card_id = $2 AND id = $3`,
		boardID, cardID, taskID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task in card: %w", err)
	}
	return task, nil
}

// Create はタスクを作成する。
func (r *PostgresTaskRepo) Create(ctx context.Context, task *model.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, board_id, card_id, owner_id, title, description, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		task.ID, task.BoardID, task.CardID, task.OwnerID,
		task.Title, task.Description, task.Status, task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// UpdateRefsIfOwner は所有者・ボード・カードが一致する場合に限り
// id/ownerId/cardIdフィールドを更新する。
// 公開されている更新経路の契約上、タイトル・説明・ステータスはここでは更新しない。
// 同一値での重複更新は冪等となる。
func (r *PostgresTaskRepo) UpdateRefsIfOwner(ctx context.Context, taskID, ownerID, boardID, cardID string, newID, newOwnerID, newCardID *string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks
		 SET id = COALESCE($5, id),
		     owner_id = COALESCE($6, owner_id),
		     card_id = COALESCE($7, card_id)
		 WHERE id = $1 AND owner_id = $2 AND board_id = $3 AND card_id = $4`,
		taskID, ownerID, boardID, cardID, newID, newOwnerID, newCardID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update task refs: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteIfOwner は所有者・ボード・カードが一致する場合に限りタスクを削除する。
func (r *PostgresTaskRepo) DeleteIfOwner(ctx context.Context, boardID, cardID, taskID, ownerID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks
		 WHERE board_id = $1 AND card_id = $2 AND id = $3 AND owner_id = $4`,
		boardID, cardID, taskID, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)
