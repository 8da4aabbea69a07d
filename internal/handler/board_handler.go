package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/boardman/internal/middleware"
	"github.com/hitoshi/boardman/internal/model"
)

// BoardServiceInterface はボードハンドラーが必要とするサービスインターフェース。
type BoardServiceInterface interface {
	// ListBoards は呼び出しユーザーが所有するボード一覧を返す。
	ListBoards(ctx context.Context, userID string) ([]*model.Board, error)
	// GetBoard はメンバーであるボードの詳細を返す。
	GetBoard(ctx context.Context, userID, boardID string) (*model.Board, error)
	// CreateBoard は呼び出しユーザーを所有者とするボードを作成する。
	CreateBoard(ctx context.Context, userID, name, description string) (*model.Board, error)
	// UpdateBoard は所有者のみがボードの名前と説明を更新する。
	UpdateBoard(ctx context.Context, userID, boardID, name, description string) (*model.Board, error)
	// DeleteBoard は所有者のみがボードを削除する。
	DeleteBoard(ctx context.Context, userID, boardID string) error
}

// BoardHandler はボード管理のHTTPハンドラー。
type BoardHandler struct {
	service BoardServiceInterface
}

// NewBoardHandler はBoardHandlerを生成する。
func NewBoardHandler(service BoardServiceInterface) *BoardHandler {
	return &BoardHandler{service: service}
}

// boardRequest はボード作成・更新リクエストのボディ。
type boardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// boardResponse はボード情報のAPIレスポンス。
type boardResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"ownerId"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListBoards は呼び出しユーザーが所有するボード一覧を返す。
// GET /api/boards
func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	boards, err := h.service.ListBoards(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]boardResponse, 0, len(boards))
	for _, b := range boards {
		res = append(res, toBoardResponse(b))
	}
	writeJSON(w, http.StatusOK, res)
}

// GetBoard はボード詳細を取得する。
// GET /api/boards/:boardId
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	board, err := h.service.GetBoard(r.Context(), userID, chi.URLParam(r, "boardId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBoardResponse(board))
}

// CreateBoard はボード作成を処理する。
// POST /api/boards
func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req boardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	board, err := h.service.CreateBoard(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBoardResponse(board))
}

// UpdateBoard はボードの名前と説明を更新する。
// PUT /api/boards/:boardId
func (h *BoardHandler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	boardID := chi.URLParam(r, "boardId")

	var req boardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	board, err := h.service.UpdateBoard(r.Context(), userID, boardID, req.Name, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":          board.ID,
		"name":        board.Name,
		"description": board.Description,
	})
}

// DeleteBoard はボードを削除する。
// DELETE /api/boards/:boardId
func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.DeleteBoard(r.Context(), userID, chi.URLParam(r, "boardId")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toBoardResponse はmodel.BoardからAPIレスポンスに変換する。
func toBoardResponse(board *model.Board) boardResponse {
	members := board.Members
	if members == nil {
		members = []string{}
	}
	return boardResponse{
		ID:          board.ID,
		Name:        board.Name,
		Description: board.Description,
		OwnerID:     board.OwnerID,
		Members:     members,
		CreatedAt:   board.CreatedAt,
		UpdatedAt:   board.UpdatedAt,
	}
}
