package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/boardman/internal/middleware"
	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/task"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	ListTasks(ctx context.Context, userID, boardID, cardID string) ([]*model.Task, error)
	CreateTask(ctx context.Context, userID, boardID, cardID, title, description, status string) (*model.Task, error)
	GetTaskDetails(ctx context.Context, userID, boardID, cardID, taskID string) (*model.Task, error)
	UpdateTaskRefs(ctx context.Context, userID, boardID, cardID, taskID string, newID, newOwnerID, newCardID *string) (*model.Task, error)
	DeleteTask(ctx context.Context, userID, boardID, cardID, taskID string) error

	AssignMember(ctx context.Context, userID, taskID, memberID string) (*model.Assignee, error)
	ListAssignees(ctx context.Context, taskID string) ([]*model.Assignee, error)
	RemoveAssignee(ctx context.Context, taskID, memberID string) error

	GithubRepositoryInfo(repositoryID string) *task.GithubRepositoryInfo
	AttachGithub(ctx context.Context, userID, boardID, cardID, taskID, typ string, number int, sha string) (*model.GithubAttachment, error)
	ListAttachments(ctx context.Context, taskID string) ([]*model.GithubAttachment, error)
	DeleteAttachment(ctx context.Context, attachmentID string) error
}

// TaskHandler はタスク・担当者・GitHub添付のHTTPハンドラー。
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

// createTaskRequest はタスク作成リクエストのボディ。
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// updateTaskRequest はタスク参照更新リクエストのボディ。
// 公開されている更新経路ではid/card_owner_id/card_idのみを受け付ける。
type updateTaskRequest struct {
	ID          *string `json:"id"`
	CardOwnerID *string `json:"card_owner_id"`
	CardID      *string `json:"card_id"`
}

// assignRequest はタスク担当者割り当てリクエストのボディ。
type assignRequest struct {
	MemberID string `json:"memberId"`
}

// attachGithubRequest はGitHub添付リクエストのボディ。
type attachGithubRequest struct {
	Type   string `json:"type"`
	Number int    `json:"number"`
	Sha    string `json:"sha"`
}

// taskSummaryResponse はタスク一覧・詳細用のレスポンス。
type taskSummaryResponse struct {
	ID          string `json:"id"`
	CardID      string `json:"cardId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// taskResponse はタスク全体のAPIレスポンス。
type taskResponse struct {
	ID          string    `json:"id"`
	CardID      string    `json:"cardId"`
	BoardID     string    `json:"boardId"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// assigneeResponse は担当者のAPIレスポンス。
type assigneeResponse struct {
	TaskID   string `json:"taskId"`
	MemberID string `json:"memberId"`
}

// attachmentResponse はGitHub添付のAPIレスポンス。
// Numberは0、Shaは空文字の場合に省略される。
type attachmentResponse struct {
	ID     string `json:"id"`
	TaskID string `json:"taskId"`
	Type   string `json:"type"`
	Number int    `json:"number,omitempty"`
	Sha    string `json:"sha,omitempty"`
}

// attachmentFullResponse は添付作成時の詳細レスポンス。
type attachmentFullResponse struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"taskId"`
	CardID     string    `json:"cardId"`
	BoardID    string    `json:"boardId"`
	Type       string    `json:"type"`
	Number     int       `json:"number,omitempty"`
	Sha        string    `json:"sha,omitempty"`
	AttachedBy string    `json:"attachedBy"`
	AttachedAt time.Time `json:"attachedAt"`
}

// ListTasks はカード内で呼び出しユーザーが所有するタスク一覧を返す。
// GET /api/boards/:boardId/cards/:id/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	tasks, err := h.service.ListTasks(r.Context(), userID,
		chi.URLParam(r, "boardId"), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]taskSummaryResponse, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, toTaskSummaryResponse(t))
	}
	writeJSON(w, http.StatusOK, res)
}

// CreateTask はタスク作成を処理する。
// POST /api/boards/:boardId/cards/:id/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	t, err := h.service.CreateTask(r.Context(), userID,
		chi.URLParam(r, "boardId"), chi.URLParam(r, "id"),
		req.Title, req.Description, req.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, taskResponse{
		ID:          t.ID,
		CardID:      t.CardID,
		BoardID:     t.BoardID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	})
}

// GetTaskDetails はタスク詳細を返す。
// GET /api/boards/:boardId/cards/:id/tasks/:taskId
func (h *TaskHandler) GetTaskDetails(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	t, err := h.service.GetTaskDetails(r.Context(), userID,
		chi.URLParam(r, "boardId"), chi.URLParam(r, "id"), chi.URLParam(r, "taskId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskSummaryResponse(t))
}

// UpdateTask はタスクの参照フィールドを更新する。
// PUT /api/boards/:boardId/cards/:id/tasks/:taskId
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	t, err := h.service.UpdateTaskRefs(r.Context(), userID,
		chi.URLParam(r, "boardId"), chi.URLParam(r, "id"), chi.URLParam(r, "taskId"),
		req.ID, req.CardOwnerID, req.CardID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":     t.ID,
		"cardId": t.CardID,
	})
}

// DeleteTask はタスクを削除する。
// DELETE /api/boards/:boardId/cards/:id/tasks/:taskId
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	err = h.service.DeleteTask(r.Context(), userID,
		chi.URLParam(r, "boardId"), chi.URLParam(r, "id"), chi.URLParam(r, "taskId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AssignMember はタスクにメンバーを割り当てる。
// POST /api/boards/:boardId/cards/:id/tasks/:taskId/assign
func (h *TaskHandler) AssignMember(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	assignee, err := h.service.AssignMember(r.Context(), userID,
		chi.URLParam(r, "taskId"), req.MemberID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":       assignee.ID,
		"taskId":   assignee.TaskID,
		"memberId": assignee.MemberID,
	})
}

// ListAssignees はタスクの担当者一覧を返す。
// GET /api/boards/:boardId/cards/:id/tasks/:taskId/assign
func (h *TaskHandler) ListAssignees(w http.ResponseWriter, r *http.Request) {
	assignees, err := h.service.ListAssignees(r.Context(), chi.URLParam(r, "taskId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]assigneeResponse, 0, len(assignees))
	for _, a := range assignees {
		res = append(res, assigneeResponse{
			TaskID:   a.TaskID,
			MemberID: a.MemberID,
		})
	}
	writeJSON(w, http.StatusOK, res)
}

// RemoveAssignee はタスクからメンバーの割り当てを解除する。
// DELETE /api/boards/:boardId/cards/:id/tasks/:taskId/assign/:memberId
func (h *TaskHandler) RemoveAssignee(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveAssignee(r.Context(),
		chi.URLParam(r, "taskId"), chi.URLParam(r, "memberId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GithubInfo はリポジトリ概要を返す。
// GET /api/repositories/:repositoryId/github-info
func (h *TaskHandler) GithubInfo(w http.ResponseWriter, r *http.Request) {
	info := h.service.GithubRepositoryInfo(chi.URLParam(r, "repositoryId"))
	writeJSON(w, http.StatusOK, info)
}

// AttachGithub はタスクにGitHub成果物への参照を添付する。
// POST /api/boards/:boardId/cards/:id/tasks/:taskId/github-attach
func (h *TaskHandler) AttachGithub(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req attachGithubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	attachment, err := h.service.AttachGithub(r.Context(), userID,
		chi.URLParam(r, "boardId"), chi.URLParam(r, "id"), chi.URLParam(r, "taskId"),
		req.Type, req.Number, req.Sha)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, attachmentFullResponse{
		ID:         attachment.ID,
		TaskID:     attachment.TaskID,
		CardID:     attachment.CardID,
		BoardID:    attachment.BoardID,
		Type:       string(attachment.Type),
		Number:     attachment.Number,
		Sha:        attachment.Sha,
		AttachedBy: attachment.AttachedBy,
		AttachedAt: attachment.AttachedAt,
	})
}

// ListAttachments はタスクのGitHub添付一覧を返す。
// GET /api/boards/:boardId/cards/:id/tasks/:taskId/github-attachments
func (h *TaskHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	attachments, err := h.service.ListAttachments(r.Context(), chi.URLParam(r, "taskId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]attachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		res = append(res, attachmentResponse{
			ID:     a.ID,
			TaskID: a.TaskID,
			Type:   string(a.Type),
			Number: a.Number,
			Sha:    a.Sha,
		})
	}
	writeJSON(w, http.StatusOK, res)
}

// DeleteAttachment はGitHub添付を削除する。
// DELETE /api/boards/:boardId/cards/:id/tasks/:taskId/github-attachments/:attachmentId
func (h *TaskHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteAttachment(r.Context(), chi.URLParam(r, "attachmentId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toTaskSummaryResponse はmodel.Taskから要約レスポンスに変換する。
func toTaskSummaryResponse(t *model.Task) taskSummaryResponse {
	return taskSummaryResponse{
		ID:          t.ID,
		CardID:      t.CardID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
	}
}
