package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/boardman/internal/model"
	"github.com/lib/pq"
)

// PostgresBoardRepo はPostgreSQLを使用したボードリポジトリ。
type PostgresBoardRepo struct {
	db *sql.DB
}

// NewPostgresBoardRepo はPostgresBoardRepoを生成する。
func NewPostgresBoardRepo(db *sql.DB) *PostgresBoardRepo {
	return &PostgresBoardRepo{db: db}
}

// ListByOwner は指定ユーザーが所有するボード一覧を返す。
func (r *PostgresBoardRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Board, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, owner_id, members, created_at, updated_at
		 FROM boards
		 WHERE owner_id = $1
		 ORDER BY created_at`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var boards []*model.Board
	for rows.Next() {
		board := &model.Board{}
		if err := rows.Scan(
			&board.ID, &board.Name, &board.Description, &board.OwnerID,
			pq.Array(&board.Members), &board.CreatedAt, &board.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, board)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate boards: %w", err)
	}

	return boards, nil
}

// FindByID は指定IDのボードを取得する。見つからない場合はnilを返す。
func (r *PostgresBoardRepo) FindByID(ctx context.Context, id string) (*model.Board, error) {
	board := &model.Board{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, owner_id, members, created_at, updated_at
		 FROM boards WHERE id = $1`,
		id,
	).Scan(
		&board.ID, &board.Name, &board.Description, &board.OwnerID,
		pq.Array(&board.Members), &board.CreatedAt, &board.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	return board, nil
}

// Create はボードを作成する。
func (r *PostgresBoardRepo) Create(ctx context.Context, board *model.Board) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO boards (id, name, description, owner_id, members, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		board.ID, board.Name, board.Description, board.OwnerID,
		pq.Array(board.Members), board.CreatedAt, board.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	return nil
}

// UpdateIfOwner はownerIDが所有者である場合に限り名前と説明を更新する。
// 所有権述語を含む単一の条件付きUPDATEで実行する。
func (r *PostgresBoardRepo) UpdateIfOwner(ctx context.Context, id, ownerID, name, description string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE boards
		 SET name = $3, description = $4, updated_at = now()
		 WHERE id = $1 AND owner_id = $2`,
		id, ownerID, name, description,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update board: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteIfOwner はownerIDが所有者である場合に限りボードを削除する。
func (r *PostgresBoardRepo) DeleteIfOwner(ctx context.Context, id, ownerID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM boards WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete board: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// compile-time interface check
var _ BoardRepository = (*PostgresBoardRepo)(nil)
