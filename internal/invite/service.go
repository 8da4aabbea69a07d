// Package invite はボード/カードへのメンバー招待ワークフローを提供する。
//
// 招待はpendingで作成され、accepted/declinedへ一度だけ遷移する。
// 応答者を招待されたメンバーに限定する検査は意図的に行わない
// （観測された契約に合わせた方針。DESIGN.md参照）。
package invite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
)

// Service は招待ワークフローのビジネスロジックを提供する。
type Service struct {
	repo repository.InviteRepository
}

// NewService はServiceを生成する。
func NewService(repo repository.InviteRepository) *Service {
	return &Service{repo: repo}
}

// CreateInvite は指定メンバーへのpending状態の招待を作成する。
// memberIDは必須。cardIDとemailMemberは任意。
func (s *Service) CreateInvite(ctx context.Context, userID, boardID, memberID, cardID, emailMember string) (*model.Invite, error) {
	if memberID == "" {
		return nil, model.NewInvalidArgumentError("member_idは必須です")
	}

	invite := &model.Invite{
		ID:           uuid.New().String(),
		BoardID:      boardID,
		CardID:       cardID,
		BoardOwnerID: userID,
		MemberID:     memberID,
		EmailMember:  emailMember,
		Status:       model.InviteStatusPending,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	slog.Info("invite created",
		slog.String("invite_id", invite.ID),
		slog.String("board_id", boardID),
		slog.String("member_id", memberID),
	)
	return invite, nil
}

// RespondToInvite は招待にaccepted/declinedで応答する。
// それ以外の状態値はInvalidArgumentとして拒否し、招待レコードは変更しない。
// 一度応答済みの招待への再応答はInviteAlreadyRespondedとなる。
func (s *Service) RespondToInvite(ctx context.Context, userID, inviteID, status string) (model.InviteStatus, error) {
	if inviteID == "" {
		return "", model.NewInvalidArgumentError("invite_idは必須です")
	}
	if !model.ValidInviteResponse(status) {
		return "", model.NewInvalidArgumentError(
			fmt.Sprintf("statusはacceptedまたはdeclinedを指定してください: %s", status))
	}

	responded, err := s.repo.RespondIfPending(ctx, inviteID, model.InviteStatus(status), time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to respond to invite: %w", err)
	}
	if !responded {
		// 不在か応答済みかを切り分ける
		invite, err := s.repo.FindByID(ctx, inviteID)
		if err != nil {
			return "", fmt.Errorf("failed to find invite: %w", err)
		}
		if invite == nil {
			return "", model.NewInviteNotFoundError(inviteID)
		}
		return "", model.NewInviteAlreadyRespondedError(inviteID)
	}

	slog.Info("invite responded",
		slog.String("invite_id", inviteID),
		slog.String("status", status),
		slog.String("responder_id", userID),
	)
	return model.InviteStatus(status), nil
}
