// Package card はカードの所有権チェックを伴うCRUDロジックを提供する。
package card

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

// Service はカードに関するビジネスロジックを提供する。
//
// 一覧・詳細の読み取りは認証済みであれば誰でも可能（メンバーシップによる
// フィルタは行わない）。更新・削除は所有者のみが行える。
type Service struct {
	repo      repository.CardRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceを生成する。
func NewService(repo repository.CardRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// ListCards はボード内の全カードを返す。
func (s *Service) ListCards(ctx context.Context, boardID string) ([]*model.Card, error) {
	cards, err := s.repo.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// ListCardsByStatus はボード内の指定ステータスのカードを返す。
// ステータスは自由形式の文字列として扱い、値の検証は行わない。
func (s *Service) ListCardsByStatus(ctx context.Context, boardID, status string) ([]*model.Card, error) {
	cards, err := s.repo.ListByBoardAndStatus(ctx, boardID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards by status: %w", err)
	}
	return cards, nil
}

// ListCardsByUser はボード内で指定ユーザーが所有するカードを返す。
// 呼び出しユーザー自身のカードのみ参照できる。
func (s *Service) ListCardsByUser(ctx context.Context, userID, boardID, targetUserID string) ([]*model.Card, error) {
	if userID != targetUserID {
		return nil, model.NewForbiddenError()
	}

	cards, err := s.repo.ListByBoardAndOwner(ctx, boardID, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards by user: %w", err)
	}
	return cards, nil
}

// GetCardDetails はボードIDとカードIDでカードを取得する。
func (s *Service) GetCardDetails(ctx context.Context, boardID, cardID string) (*model.Card, error) {
	card, err := s.repo.FindByBoardAndID(ctx, boardID, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	if card == nil {
		return nil, model.NewCardNotFoundError(cardID)
	}
	return card, nil
}

// CreateCard は呼び出しユーザーを所有者とするカードを作成する。
// name/description/statusは必須。
// 呼び出しユーザーはリクエストのメンバーリストに含まれていなくても
// 必ずlist_memberに注入される。
func (s *Service) CreateCard(ctx context.Context, userID, boardID, name, description, status string, members []string) (*model.Card, error) {
	name = s.sanitizer.Sanitize(name)
	description = s.sanitizer.Sanitize(description)

	if name == "" {
		return nil, model.NewInvalidArgumentError("カード名は必須です")
	}
	if description == "" {
		return nil, model.NewInvalidArgumentError("カードの説明は必須です")
	}
	if status == "" {
		return nil, model.NewInvalidArgumentError("カードのステータスは必須です")
	}

	now := time.Now()
	card := &model.Card{
		ID:          uuid.New().String(),
		BoardID:     boardID,
		OwnerID:     userID,
		Name:        name,
		Description: description,
		Status:      status,
		ListMember:  ensureMember(members, userID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	slog.Info("card created",
		slog.String("card_id", card.ID),
		slog.String("board_id", boardID),
		slog.String("owner_id", userID),
	)
	return card, nil
}

// UpdateCard は呼び出しユーザーが所有者である場合に限り部分更新を行う。
// nilフィールドは変更しない。
func (s *Service) UpdateCard(ctx context.Context, userID, boardID, cardID string, name, description, status *string) (*model.Card, error) {
	if name != nil {
		v := s.sanitizer.Sanitize(*name)
		name = &v
	}
	if description != nil {
		v := s.sanitizer.Sanitize(*description)
		description = &v
	}

	updated, err := s.repo.UpdateIfOwner(ctx, boardID, cardID, userID, name, description, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}
	if !updated {
		return nil, s.resolveMissOrForbidden(ctx, boardID, cardID)
	}

	card, err := s.repo.FindByBoardAndID(ctx, boardID, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload card: %w", err)
	}
	if card == nil {
		return nil, model.NewCardNotFoundError(cardID)
	}
	return card, nil
}

// DeleteCard は呼び出しユーザーが所有者である場合に限りカードを削除する。
func (s *Service) DeleteCard(ctx context.Context, userID, boardID, cardID string) error {
	deleted, err := s.repo.DeleteIfOwner(ctx, boardID, cardID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if !deleted {
		return s.resolveMissOrForbidden(ctx, boardID, cardID)
	}

	slog.Info("card deleted",
		slog.String("card_id", cardID),
		slog.String("board_id", boardID),
	)
	return nil
}

// resolveMissOrForbidden は条件付き操作が空振りした原因を調べ、
// カードが存在しなければNotFound、存在すれば所有者不一致としてForbiddenを返す。
func (s *Service) resolveMissOrForbidden(ctx context.Context, boardID, cardID string) error {
	card, err := s.repo.FindByBoardAndID(ctx, boardID, cardID)
	if err != nil {
		return fmt.Errorf("failed to find card: %w", err)
	}
	if card == nil {
		return model.NewCardNotFoundError(cardID)
	}
	return model.NewForbiddenError()
}

// ensureMember はメンバーリストにuserIDが含まれることを保証する。
func ensureMember(members []string, userID string) []string {
	for _, m := range members {
		if m == userID {
			return members
		}
	}
	return append(append([]string{}, members...), userID)
}
