// Package task はタスクとそのサブリソース（担当者・GitHub添付）の
// ビジネスロジックを提供する。
package task

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

// Service はタスクに関するビジネスロジックを提供する。
//
// タスク本体の変更は所有者のみが行える。
// 担当者とGitHub添付は認証のみを要求し、タスク所有者との照合は行わない
// （観測された契約に合わせた寛容な方針。DESIGN.md参照）。
type Service struct {
	tasks       repository.TaskRepository
	assignees   repository.AssigneeRepository
	attachments repository.AttachmentRepository
	sanitizer   security.ContentSanitizerService
}

// NewService はServiceを生成する。
func NewService(
	tasks repository.TaskRepository,
	assignees repository.AssigneeRepository,
	attachments repository.AttachmentRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		tasks:       tasks,
		assignees:   assignees,
		attachments: attachments,
		sanitizer:   sanitizer,
	}
}

// --- タスク ---

// ListTasks はboardId+cardIdスコープ内で呼び出しユーザーが所有するタスク一覧を返す。
func (s *Service) ListTasks(ctx context.Context, userID, boardID, cardID string) ([]*model.Task, error) {
	tasks, err := s.tasks.ListByCardAndOwner(ctx, boardID, cardID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask は呼び出しユーザーを所有者とするタスクを作成する。
func (s *Service) CreateTask(ctx context.Context, userID, boardID, cardID, title, description, status string) (*model.Task, error) {
	task := &model.Task{
		ID:          uuid.New().String(),
		BoardID:     boardID,
		CardID:      cardID,
		OwnerID:     userID,
		Title:       s.sanitizer.Sanitize(title),
		Description: s.sanitizer.Sanitize(description),
		Status:      status,
		CreatedAt:   time.Now(),
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	slog.Info("task created",
		slog.String("task_id", task.ID),
		slog.String("card_id", cardID),
		slog.String("owner_id", userID),
	)
	return task, nil
}

// GetTaskDetails は呼び出しユーザーが所有するタスクの詳細を返す。
// 所有者以外のタスクは存在を伏せてNotFoundとなる。
func (s *Service) GetTaskDetails(ctx context.Context, userID, boardID, cardID, taskID string) (*model.Task, error) {
	task, err := s.tasks.FindInCard(ctx, boardID, cardID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task == nil || task.OwnerID != userID {
		return nil, model.NewTaskNotFoundError(taskID)
	}
	return task, nil
}

// UpdateTaskRefs はタスクの参照フィールド{id, ownerId, cardId}を更新する。
// 公開されている更新経路の契約上、タイトル・説明・ステータスは更新できない。
// 呼び出しユーザーが所有者でない、またはboardId/cardIdが一致しない場合はForbidden。
// 同一内容での重複更新は冪等となる。
func (s *Service) UpdateTaskRefs(ctx context.Context, userID, boardID, cardID, taskID string, newID, newOwnerID, newCardID *string) (*model.Task, error) {
	existing, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if existing == nil {
		return nil, model.NewTaskNotFoundError(taskID)
	}

	updated, err := s.tasks.UpdateRefsIfOwner(ctx, taskID, userID, boardID, cardID, newID, newOwnerID, newCardID)
	if err != nil {
		return nil, fmt.Errorf("failed to update task refs: %w", err)
	}
	if !updated {
		return nil, model.NewForbiddenError()
	}

	resultID := taskID
	if newID != nil {
		resultID = *newID
	}
	task, err := s.tasks.FindByID(ctx, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(resultID)
	}
	return task, nil
}

// DeleteTask は呼び出しユーザーが所有者である場合に限りタスクを削除する。
func (s *Service) DeleteTask(ctx context.Context, userID, boardID, cardID, taskID string) error {
	deleted, err := s.tasks.DeleteIfOwner(ctx, boardID, cardID, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		// 不在か所有者不一致かを切り分ける
		task, err := s.tasks.FindInCard(ctx, boardID, cardID, taskID)
		if err != nil {
			return fmt.Errorf("failed to find task: %w", err)
		}
		if task == nil {
			return model.NewTaskNotFoundError(taskID)
		}
		return model.NewForbiddenError()
	}

	slog.Info("task deleted",
		slog.String("task_id", taskID),
		slog.String("card_id", cardID),
	)
	return nil
}

// --- 担当者 ---

// AssignMember はタスクにメンバーを割り当てる。認証のみを要求する。
func (s *Service) AssignMember(ctx context.Context, userID, taskID, memberID string) (*model.Assignee, error) {
	if memberID == "" {
		return nil, model.NewInvalidArgumentError("memberIdは必須です")
	}

	assignee := &model.Assignee{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		MemberID:  memberID,
		CreatedAt: time.Now(),
	}

	if err := s.assignees.Create(ctx, assignee); err != nil {
		return nil, fmt.Errorf("failed to assign member: %w", err)
	}

	slog.Info("member assigned to task",
		slog.String("task_id", taskID),
		slog.String("member_id", memberID),
		slog.String("assigned_by", userID),
	)
	return assignee, nil
}

// ListAssignees は指定タスクの担当者一覧を返す。
func (s *Service) ListAssignees(ctx context.Context, taskID string) ([]*model.Assignee, error) {
	assignees, err := s.assignees.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignees: %w", err)
	}
	return assignees, nil
}

// RemoveAssignee はタスクからメンバーの割り当てを解除する。
func (s *Service) RemoveAssignee(ctx context.Context, taskID, memberID string) error {
	deleted, err := s.assignees.DeleteByTaskAndMember(ctx, taskID, memberID)
	if err != nil {
		return fmt.Errorf("failed to remove assignee: %w", err)
	}
	if !deleted {
		return model.NewAssigneeNotFoundError()
	}
	return nil
}

// --- GitHub添付 ---

// AttachGithub はタスクにGitHub成果物への参照を添付する。
// typeはpull_request/commit/issueのいずれか。
// commitはshaを、それ以外はnumberを必須とする。
func (s *Service) AttachGithub(ctx context.Context, userID, boardID, cardID, taskID, typ string, number int, sha string) (*model.GithubAttachment, error) {
	if !model.ValidAttachmentType(typ) {
		return nil, model.NewInvalidArgumentError(
			fmt.Sprintf("typeはpull_request/commit/issueのいずれかを指定してください: %s", typ))
	}
	attachmentType := model.AttachmentType(typ)
	if attachmentType == model.AttachmentTypeCommit && sha == "" {
		return nil, model.NewInvalidArgumentError("commit種別にはshaが必須です")
	}
	if attachmentType != model.AttachmentTypeCommit && number == 0 {
		return nil, model.NewInvalidArgumentError("pull_request/issue種別にはnumberが必須です")
	}

	attachment := &model.GithubAttachment{
		ID:         uuid.New().String(),
		TaskID:     taskID,
		CardID:     cardID,
		BoardID:    boardID,
		Type:       attachmentType,
		Number:     number,
		Sha:        sha,
		AttachedBy: userID,
		AttachedAt: time.Now(),
	}

	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, fmt.Errorf("failed to attach github ref: %w", err)
	}

	slog.Info("github ref attached",
		slog.String("attachment_id", attachment.ID),
		slog.String("task_id", taskID),
		slog.String("type", typ),
	)
	return attachment, nil
}

// ListAttachments は指定タスクのGitHub添付一覧を返す。
func (s *Service) ListAttachments(ctx context.Context, taskID string) ([]*model.GithubAttachment, error) {
	attachments, err := s.attachments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

// DeleteAttachment は指定IDのGitHub添付を削除する。
func (s *Service) DeleteAttachment(ctx context.Context, attachmentID string) error {
	deleted, err := s.attachments.DeleteByID(ctx, attachmentID)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if !deleted {
		return model.NewAttachmentNotFoundError(attachmentID)
	}
	return nil
}
