package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/boardman/internal/model"
	"github.com/lib/pq"
)

// PostgresCardRepo はPostgreSQLを使用したカードリポジトリ。
type PostgresCardRepo struct {
	db *sql.DB
}

// NewPostgresCardRepo はPostgresCardRepoを生成する。
func NewPostgresCardRepo(db *sql.DB) *PostgresCardRepo {
	return &PostgresCardRepo{db: db}
}

const cardColumns = `id, board_id, owner_id, name, description, status, list_member, created_at, updated_at`

// scanCard は1行分のカードをスキャンする。
func scanCard(row interface{ Scan(...any) error }) (*model.Card, error) {
	card := &model.Card{}
	err := row.Scan(
		&card.ID, &card.BoardID, &card.OwnerID, &card.Name, &card.Description,
		&card.Status, pq.Array(&card.ListMember), &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return card, nil
}

// queryCards は条件付きクエリを実行してカード一覧を返す。
func (r *PostgresCardRepo) queryCards(ctx context.Context, query string, args ...any) ([]*model.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []*model.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	return cards, nil
}

// ListByBoard はボード内の全カードを返す。
func (r *PostgresCardRepo) ListByBoard(ctx context.Context, boardID string) ([]*model.Card, error) {
	return r.queryCards(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE board_id = $1 ORDER BY created_at`,
		boardID,
	)
}

// ListByBoardAndStatus はボード内の指定ステータスのカードを返す。
func (r *PostgresCardRepo) ListByBoardAndStatus(ctx context.Context, boardID, status string) ([]*model.Card, error) {
	return r.queryCards(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE board_id = $1 AND status = $2 ORDER BY created_at`,
		boardID, status,
	)
}

// ListByBoardAndOwner はボード内で指定ユーザーが所有するカードを返す。
func (r *PostgresCardRepo) ListByBoardAndOwner(ctx context.Context, boardID, ownerID string) ([]*model.Card, error) {
	return r.queryCards(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE board_id = $1 AND owner_id = $2 ORDER BY created_at`,
		boardID, ownerID,
	)
}

// FindByBoardAndID はボードIDとカードIDでカードを取得する。見つからない場合はnilを返す。
func (r *PostgresCardRepo) FindByBoardAndID(ctx context.Context, boardID, id string) (*model.Card, error) {
	card, err := scanCard(r.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE board_id = $1 AND id = $2`,
		boardID, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	return card, nil
}

// Create はカードを作成する。
func (r *PostgresCardRepo) Create(ctx context.Context, card *model.Card) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cards (id, board_id, owner_id, name, description, status, list_member, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		card.ID, card.BoardID, card.OwnerID, card.Name, card.Description,
		card.Status, pq.Array(card.ListMember), card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// UpdateIfOwner は同一ボード内でownerIDが所有者である場合に限り部分更新を行う。
// nilフィールドはCOALESCEにより既存の値を維持する。
func (r *PostgresCardRepo) UpdateIfOwner(ctx context.Context, boardID, id, ownerID string, name, description, status *string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE cards
		 SET name = COALESCE($4, name),
		     description = COALESCE($5, description),
		     status = COALESCE($6, status),
		     updated_at = now()
		 WHERE board_id = $1 AND id = $2 AND owner_id = $3`,
		boardID, id, ownerID, name, description, status,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update card: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteIfOwner は同一ボード内でownerIDが所有者である場合に限りカードを削除する。
func (r *PostgresCardRepo) DeleteIfOwner(ctx context.Context, boardID, id, ownerID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cards WHERE board_id = $1 AND id = $2 AND owner_id = $3`,
		boardID, id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete card: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// compile-time interface check
var _ CardRepository = (*PostgresCardRepo)(nil)
