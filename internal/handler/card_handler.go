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

// CardServiceInterface はカードハンドラーが必要とするサービスインターフェース。
type CardServiceInterface interface {
	// ListCards はボード内のカード一覧を返す。
	ListCards(ctx context.Context, boardID string) ([]*model.Card, error)
	// ListCardsByStatus はボード内の指定ステータスのカード一覧を返す。
	ListCardsByStatus(ctx context.Context, boardID, status string) ([]*model.Card, error)
	// ListCardsByUser は指定ユーザーが所有するカード一覧を返す。
	ListCardsByUser(ctx context.Context, userID, boardID, targetUserID string) ([]*model.Card, error)
	// GetCardDetails はカードの詳細を返す。
	GetCardDetails(ctx context.Context, boardID, cardID string) (*model.Card, error)
	// CreateCard は呼び出しユーザーを所有者とするカードを作成する。
	CreateCard(ctx context.Context, userID, boardID, name, description, status string, members []string) (*model.Card, error)
	// UpdateCard は所有者のみがカードを部分更新する。
	UpdateCard(ctx context.Context, userID, boardID, cardID string, name, description, status *string) (*model.Card, error)
	// DeleteCard はカードを削除する。
	DeleteCard(ctx context.Context, userID, boardID, cardID string) error
}

// InviteServiceInterface は招待ハンドラーが必要とするサービスインターフェース。
type InviteServiceInterface interface {
	// CreateInvite はボード/カードへのメンバー招待を作成する。
	CreateInvite(ctx context.Context, userID, boardID, memberID, cardID, emailMember string) (*model.Invite, error)
	// RespondToInvite は招待への応答を処理し、確定した状態を返す。
	RespondToInvite(ctx context.Context, userID, inviteID, status string) (model.InviteStatus, error)
}

// CardHandler はカード管理と招待のHTTPハンドラー。
type CardHandler struct {
	service CardServiceInterface
	invites InviteServiceInterface
}

// NewCardHandler はCardHandlerを生成する。
func NewCardHandler(service CardServiceInterface, invites InviteServiceInterface) *CardHandler {
	return &CardHandler{
		service: service,
		invites: invites,
	}
}

// createCardRequest はカード作成リクエストのボディ。
type createCardRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Members     []string `json:"members"`
}

// updateCardRequest はカード部分更新リクエストのボディ。
// nilのフィールドは変更しない。
type updateCardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// cardsByStatusRequest はステータス絞り込みリクエストのボディ。
type cardsByStatusRequest struct {
	Status string `json:"status"`
}

// inviteRequest はメンバー招待リクエストのボディ。
type inviteRequest struct {
	CardID      string `json:"card_id"`
	MemberID    string `json:"member_id"`
	EmailMember string `json:"email_member"`
}

// inviteResponseRequest は招待応答リクエストのボディ。
type inviteResponseRequest struct {
	InviteID string `json:"invite_id"`
	Status   string `json:"status"`
}

// cardSummaryResponse はカード一覧用の要約レスポンス。
type cardSummaryResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ListMember  []string `json:"list_member"`
}

// cardResponse はカード全体のAPIレスポンス。
type cardResponse struct {
	ID          string    `json:"id"`
	BoardID     string    `json:"boardId"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	ListMember  []string  `json:"list_member"`
	CreatedAt   time.Time `json:"createdAt"`
}

// cardByUserResponse は所有者別一覧用のレスポンス。
type cardByUserResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TasksCount  int       `json:"tasks_count"`
	ListMember  []string  `json:"list_member"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListCards はボード内のカード一覧を返す。
// GET /api/boards/:boardId/cards
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.ListCards(r.Context(), chi.URLParam(r, "boardId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCardSummaryResponses(cards))
}

// ListCardsByStatus はボード内の指定ステータスのカード一覧を返す。
// POST /api/boards/:boardId/cards-by-status
func (h *CardHandler) ListCardsByStatus(w http.ResponseWriter, r *http.Request) {
	var req cardsByStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	cards, err := h.service.ListCardsByStatus(r.Context(), chi.URLParam(r, "boardId"), req.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCardSummaryResponses(cards))
}

// ListCardsByUser は指定ユーザーが所有するカード一覧を返す。
// 呼び出しユーザー自身のカードのみ取得できる。
// GET /api/boards/:boardId/cards/user/:user_id
func (h *CardHandler) ListCardsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	cards, err := h.service.ListCardsByUser(r.Context(), userID,
		chi.URLParam(r, "boardId"), chi.URLParam(r, "user_id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]cardByUserResponse, 0, len(cards))
	for _, c := range cards {
		res = append(res, cardByUserResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			ListMember:  ensureMemberList(c.ListMember),
			CreatedAt:   c.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, res)
}

// GetCardDetails はカードの詳細を返す。
// GET /api/boards/:boardId/cards/:id
func (h *CardHandler) GetCardDetails(w http.ResponseWriter, r *http.Request) {
	card, err := h.service.GetCardDetails(r.Context(),
		chi.URLParam(r, "boardId"), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":          card.ID,
		"name":        card.Name,
		"description": card.Description,
	})
}

// CreateCard はカード作成を処理する。
// POST /api/boards/:boardId/cards
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	card, err := h.service.CreateCard(r.Context(), userID, chi.URLParam(r, "boardId"),
		req.Name, req.Description, req.Status, req.Members)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCardResponse(card))
}

// UpdateCard はカードを部分更新する。
// PUT /api/boards/:boardId/cards/:id
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	card, err := h.service.UpdateCard(r.Context(), userID,
		chi.URLParam(r, "boardId"), chi.URLParam(r, "id"),
		req.Name, req.Description, req.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCardResponse(card))
}

// DeleteCard はカードを削除する。
// DELETE /api/boards/:boardId/cards/:id
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	err = h.service.DeleteCard(r.Context(), userID,
		chi.URLParam(r, "boardId"), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// InviteMember はボード/カードへのメンバー招待を作成する。
// POST /api/boards/:boardId/invite
func (h *CardHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	_, err = h.invites.CreateInvite(r.Context(), userID, chi.URLParam(r, "boardId"),
		req.MemberID, req.CardID, req.EmailMember)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RespondToInvite は招待への応答を処理する。
// POST /api/boards/:boardId/cards/:id/invite/accept
func (h *CardHandler) RespondToInvite(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req inviteResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	status, err := h.invites.RespondToInvite(r.Context(), userID, req.InviteID, req.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  status,
	})
}

// --- ヘルパー関数 ---

// toCardResponse はmodel.CardからAPIレスポンスに変換する。
func toCardResponse(card *model.Card) cardResponse {
	return cardResponse{
		ID:          card.ID,
		BoardID:     card.BoardID,
		OwnerID:     card.OwnerID,
		Name:        card.Name,
		Description: card.Description,
		Status:      card.Status,
		ListMember:  ensureMemberList(card.ListMember),
		CreatedAt:   card.CreatedAt,
	}
}

// toCardSummaryResponses はカード一覧を要約レスポンスに変換する。
func toCardSummaryResponses(cards []*model.Card) []cardSummaryResponse {
	res := make([]cardSummaryResponse, 0, len(cards))
	for _, c := range cards {
		res = append(res, cardSummaryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			ListMember:  ensureMemberList(c.ListMember),
		})
	}
	return res
}

// ensureMemberList はnilのメンバーリストを空配列に正規化する。
func ensureMemberList(members []string) []string {
	if members == nil {
		return []string{}
	}
	return members
}
