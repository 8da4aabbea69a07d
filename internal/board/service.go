// Package board はボードの所有権チェックを伴うCRUDロジックを提供する。
package board

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
	"github.com/hitoshi/boardman/internal/security"
)

// Service はボードに関するビジネスロジックを提供する。
//
// 所有権述語を条件に含む単一ステートメントで更新・削除を行い、
// 条件に一致しなかった場合にのみ存在確認を行って
// NotFound（404）とForbidden（403）を区別する。
type Service struct {
	repo      repository.BoardRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceを生成する。
func NewService(repo repository.BoardRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// ListBoards は呼び出しユーザーが所有するボード一覧を返す。
func (s *Service) ListBoards(ctx context.Context, userID string) ([]*model.Board, error) {
	boards, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// GetBoard はボードを取得する。
// 呼び出しユーザーが所有者でもメンバーでもない場合はForbiddenを返す。
func (s *Service) GetBoard(ctx context.Context, userID, boardID string) (*model.Board, error) {
	board, err := s.repo.FindByID(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to find board: %w", err)
	}
	if board == nil {
		return nil, model.NewBoardNotFoundError(boardID)
	}
	if !board.HasMember(userID) {
		return nil, model.NewForbiddenError()
	}
	return board, nil
}

// CreateBoard は呼び出しユーザーを所有者とするボードを作成する。
// 所有者は必ずメンバーリストに含まれる。
func (s *Service) CreateBoard(ctx context.Context, userID, name, description string) (*model.Board, error) {
	name = s.sanitizer.Sanitize(name)
	description = s.sanitizer.Sanitize(description)

	if name == "" {
		return nil, model.NewInvalidArgumentError("ボード名は必須です")
	}

	now := time.Now()
	board := &model.Board{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		OwnerID:     userID,
		Members:     []string{userID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	slog.Info("board created",
		slog.String("board_id", board.ID),
		slog.String("owner_id", userID),
	)
	return board, nil
}

// UpdateBoard は呼び出しユーザーが所有者である場合に限り名前と説明を更新する。
func (s *Service) UpdateBoard(ctx context.Context, userID, boardID, name, description string) (*model.Board, error) {
	name = s.sanitizer.Sanitize(name)
	description = s.sanitizer.Sanitize(description)

	updated, err := s.repo.UpdateIfOwner(ctx, boardID, userID, name, description)
	if err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}
	if !updated {
		// 条件不一致の原因を404/403に切り分ける
		return nil, s.resolveMissOrForbidden(ctx, boardID)
	}

	board, err := s.repo.FindByID(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload board: %w", err)
	}
	if board == nil {
		return nil, model.NewBoardNotFoundError(boardID)
	}
	return board, nil
}

// DeleteBoard は呼び出しユーザーが所有者である場合に限りボードを削除する。
func (s *Service) DeleteBoard(ctx context.Context, userID, boardID string) error {
	deleted, err := s.repo.DeleteIfOwner(ctx, boardID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	if !deleted {
		return s.resolveMissOrForbidden(ctx, boardID)
	}

	slog.Info("board deleted",
		slog.String("board_id", boardID),
		slog.String("owner_id", userID),
	)
	return nil
}

// resolveMissOrForbidden は条件付き操作が空振りした原因を調べ、
// ボードが存在しなければNotFound、存在すれば所有者不一致としてForbiddenを返す。
func (s *Service) resolveMissOrForbidden(ctx context.Context, boardID string) error {
	board, err := s.repo.FindByID(ctx, boardID)
	if err != nil {
		return fmt.Errorf("failed to find board: %w", err)
	}
	if board == nil {
		return model.NewBoardNotFoundError(boardID)
	}
	return model.NewForbiddenError()
}
