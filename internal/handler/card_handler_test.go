package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/boardman/internal/model"
)

// --- モック定義 ---

// mockCardService はCardServiceInterfaceのモック実装。
type mockCardService struct {
	listCardsFn         func(ctx context.Context, boardID string) ([]*model.Card, error)
	listCardsByStatusFn func(ctx context.Context, boardID, status string) ([]*model.Card, error)
	listCardsByUserFn   func(ctx context.Context, userID, boardID, targetUserID string) ([]*model.Card, error)
	getCardDetailsFn    func(ctx context.Context, boardID, cardID string) (*model.Card, error)
	createCardFn        func(ctx context.Context, userID, boardID, name, description, status string, members []string) (*model.Card, error)
	updateCardFn        func(ctx context.Context, userID, boardID, cardID string, name, description, status *string) (*model.Card, error)
	deleteCardFn        func(ctx context.Context, userID, boardID, cardID string) error
}

func (m *mockCardService) ListCards(ctx context.Context, boardID string) ([]*model.Card, error) {
	return m.listCardsFn(ctx, boardID)
}

func (m *mockCardService) ListCardsByStatus(ctx context.Context, boardID, status string) ([]*model.Card, error) {
	return m.listCardsByStatusFn(ctx, boardID, status)
}

func (m *mockCardService) ListCardsByUser(ctx context.Context, userID, boardID, targetUserID string) ([]*model.Card, error) {
	return m.listCardsByUserFn(ctx, userID, boardID, targetUserID)
}

func (m *mockCardService) GetCardDetails(ctx context.Context, boardID, cardID string) (*model.Card, error) {
	return m.getCardDetailsFn(ctx, boardID, cardID)
}

func (m *mockCardService) CreateCard(ctx context.Context, userID, boardID, name, description, status string, members []string) (*model.Card, error) {
	return m.createCardFn(ctx, userID, boardID, name, description, status, members)
}

func (m *mockCardService) UpdateCard(ctx context.Context, userID, boardID, cardID string, name, description, status *string) (*model.Card, error) {
	return m.updateCardFn(ctx, userID, boardID, cardID, name, description, status)
}

func (m *mockCardService) DeleteCard(ctx context.Context, userID, boardID, cardID string) error {
	return m.deleteCardFn(ctx, userID, boardID, cardID)
}

// mockInviteService はInviteServiceInterfaceのモック実装。
type mockInviteService struct {
	createInviteFn    func(ctx context.Context, userID, boardID, memberID, cardID, emailMember string) (*model.Invite, error)
	respondToInviteFn func(ctx context.Context, userID, inviteID, status string) (model.InviteStatus, error)
}

func (m *mockInviteService) CreateInvite(ctx context.Context, userID, boardID, memberID, cardID, emailMember string) (*model.Invite, error) {
	return m.createInviteFn(ctx, userID, boardID, memberID, cardID, emailMember)
}

func (m *mockInviteService) RespondToInvite(ctx context.Context, userID, inviteID, status string) (model.InviteStatus, error) {
	return m.respondToInviteFn(ctx, userID, inviteID, status)
}

// --- テスト ---

func TestCardHandler_ListCards_Success(t *testing.T) {
	svc := &mockCardService{
		listCardsFn: func(_ context.Context, boardID string) ([]*model.Card, error) {
			if boardID != "board-1" {
				t.Errorf("boardID = %q, want %q", boardID, "board-1")
			}
			return []*model.Card{
				{ID: "card-1", Name: "設計", Description: "API設計", ListMember: nil},
			}, nil
		},
	}
	h := NewCardHandler(svc, &mockInviteService{})

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/boards/board-1/cards", nil), "user-1")
	req = withChiURLParams(req, map[string]string{"boardId": "board-1"})
	w := httptest.NewRecorder()
	h.ListCards(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var cards []cardSummaryResponse
	if err := json.NewDecoder(w.Body).Decode(&cards); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != "card-1" {
		t.Errorf("unexpected cards: %+v", cards)
	}
	// nilメンバーは空配列に正規化される
	if cards[0].ListMember == nil {
		t.Error("list_member should be an empty array, not null")
	}
}

func TestCardHandler_CreateCard_Success(t *testing.T) {
	svc := &mockCardService{
		createCardFn: func(_ context.Context, userID, boardID, name, description, status string, members []string) (*model.Card, error) {
			return &model.Card{
				ID:          "card-new",
				BoardID:     boardID,
				OwnerID:     userID,
				Name:        name,
				Description: description,
				Status:      status,
				ListMember:  append([]string{userID}, members...),
			}, nil
		},
	}
	h := NewCardHandler(svc, &mockInviteService{})

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/boards/board-1/cards",
		jsonBody(t, map[string]any{
			"name":        "実装",
			"description": "ハンドラー実装",
			"status":      "doing",
			"members":     []string{"user-2"},
		})), "user-1")
	req = withChiURLParams(req, map[string]string{"boardId": "board-1"})
	w := httptest.NewRecorder()
	h.CreateCard(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	body := decodeBody(t, w)
	if body["id"] != "card-new" || body["ownerId"] != "user-1" || body["status"] != "doing" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestCardHandler_GetCardDetails_SubsetResponse(t *testing.T) {
	svc := &mockCardService{
		getCardDetailsFn: func(_ context.Context, _, cardID string) (*model.Card, error) {
			return &model.Card{ID: cardID, BoardID: "board-1", OwnerID: "user-1", Name: "設計", Description: "API設計", Status: "todo"}, nil
		},
	}
	h := NewCardHandler(svc, &mockInviteService{})

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/boards/board-1/cards/card-1", nil), "user-1")
	req = withChiURLParams(req, map[string]string{"boardId": "board-1", "id": "card-1"})
	w := httptest.NewRecorder()
	h.GetCardDetails(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w)
	if body["id"] != "card-1" || body["name"] != "設計" || body["description"] != "API設計" {
		t.Errorf("unexpected body: %v", body)
	}
	// 詳細レスポンスはid/name/descriptionのみ
	if _, ok := body["status"]; ok {
		t.Errorf("details response should not include status: %v", body)
	}
}

func TestCardHandler_ListCardsByUser_Forbidden(t *testing.T) {
	svc := &mockCardService{
		listCardsByUserFn: func(_ context.Context, _, _, _ string) ([]*model.Card, error) {
			return nil, model.NewForbiddenError()
		},
	}
	h := NewCardHandler(svc, &mockInviteService{})

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/boards/board-1/cards/user/user-2", nil), "user-1")
	req = withChiURLParams(req, map[string]string{"boardId": "board-1", "user_id": "user-2"})
	w := httptest.NewRecorder()
	h.ListCardsByUser(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestCardHandler_ListCardsByUser_IncludesTasksCount(t *testing.T) {
	svc := &mockCardService{
		listCardsByUserFn: func(_ context.Context, _, _, _ string) ([]*model.Card, error) {
			return []*model.Card{{ID: "card-1", Name: "設計"}}, nil
		},
	}
	h := NewCardHandler(svc, &mockInviteService{})

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/boards/board-1/cards/user/user-1", nil), "user-1")
	req = withChiURLParams(req, map[string]string{"boardId": "board-1", "user_id": "user-1"})
	w := httptest.NewRecorder()
	h.ListCardsByUser(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var cards []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&cards); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("len(cards) = %d, want 1", len(cards))
	}
	if _, ok := cards[0]["tasks_count"]; !ok {
		t.Errorf("response should include tasks_count: %v", cards[0])
	}
}

func TestCardHandler_UpdateCard_PartialBody(t *testing.T) {
	svc := &mockCardService{
		updateCardFn: func(_ context.Context, _, _, cardID string, name, description, status *string) (*model.Card, error) {
			if name == nil || *name != "改名" {
				t.Errorf("name = %v, want %q", name, "改名")
			}
			if description != nil {
				t.Errorf("description should be nil, got %q", *description)
			}
			return &model.Card{ID: cardID, Name: *name, Description: "既存", Status: "todo"}, nil
		},
	}
	h := NewCardHandler(svc, &mockInviteService{})

	req := withUserID(httptest.NewRequest(http.MethodPut, "/api/boards/board-1/cards/card-1",
		jsonBody(t, map[string]string{"name": "改名"})), "user-1")
	req = withChiURLParams(req, map[string]string{"boardId": "board-1", "id": "card-1"})
	w := httptest.NewRecorder()
	h.UpdateCard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestCardHandler_DeleteCard_NoContent(t *testing.T) {
	svc := &mockCardService{
		deleteCardFn: func(_ context.Context, _, _, _ string) error {
			return nil
		},
	}
	h := NewCardHandler(svc, &mockInviteService{})

	req := withUserID(httptest.NewRequest(http.MethodDelete, "/api/boards/board-1/cards/card-1", nil), "user-1")
	req = withChiURLParams(req, map[string]string{"boardId": "board-1", "id": "card-1"})
	w := httptest.NewRecorder()
	h.DeleteCard(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestCardHandler_InviteMember_Success(t *testing.T) {
	invites := &mockInviteService{
		createInviteFn: func(_ context.Context, userID, boardID, memberID, cardID, emailMember string) (*model.Invite, error) {
			if memberID != "user-2" || cardID != "card-1" {
				t.Errorf("memberID = %q, cardID = %q", memberID, cardID)
			}
			return &model.Invite{ID: "invite-1", Status: model.InviteStatusPending}, nil
		},
	}
	h := NewCardHandler(&mockCardService{}, invites)

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/boards/board-1/invite",
		jsonBody(t, map[string]string{
			"card_id":      "card-1",
			"member_id":    "user-2",
			"email_member": "bob@example.com",
		})), "user-1")
	req = withChiURLParams(req, map[string]string{"boardId": "board-1"})
	w := httptest.NewRecorder()
	h.InviteMember(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestCardHandler_RespondToInvite_Success(t *testing.T) {
	invites := &mockInviteService{
		respondToInviteFn: func(_ context.Context, _, inviteID, status string) (model.InviteStatus, error) {
			if inviteID != "invite-1" || status != "accepted" {
				t.Errorf("inviteID = %q, status = %q", inviteID, status)
			}
			return model.InviteStatusAccepted, nil
		},
	}
	h := NewCardHandler(&mockCardService{}, invites)

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/boards/board-1/cards/card-1/invite/accept",
		jsonBody(t, map[string]string{"invite_id": "invite-1", "status": "accepted"})), "user-2")
	req = withChiURLParams(req, map[string]string{"boardId": "board-1", "id": "card-1"})
	w := httptest.NewRecorder()
	h.RespondToInvite(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w)
	if body["success"] != true || body["status"] != "accepted" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestCardHandler_RespondToInvite_Conflict(t *testing.T) {
	invites := &mockInviteService{
		respondToInviteFn: func(_ context.Context, _, inviteID, _ string) (model.InviteStatus, error) {
			return "", model.NewInviteAlreadyRespondedError(inviteID)
		},
	}
	h := NewCardHandler(&mockCardService{}, invites)

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/boards/board-1/cards/card-1/invite/accept",
		jsonBody(t, map[string]string{"invite_id": "invite-1", "status": "declined"})), "user-2")
	req = withChiURLParams(req, map[string]string{"boardId": "board-1", "id": "card-1"})
	w := httptest.NewRecorder()
	h.RespondToInvite(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	body := decodeBody(t, w)
	if body["code"] != model.ErrCodeInviteAlreadyResponded {
		t.Errorf("code = %v, want %q", body["code"], model.ErrCodeInviteAlreadyResponded)
	}
}

func TestCardHandler_RespondToInvite_InvalidStatus(t *testing.T) {
	invites := &mockInviteService{
		respondToInviteFn: func(_ context.Context, _, _, status string) (model.InviteStatus, error) {
			return "", model.NewInvalidArgumentError("status must be accepted or declined")
		},
	}
	h := NewCardHandler(&mockCardService{}, invites)

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/boards/board-1/cards/card-1/invite/accept",
		jsonBody(t, map[string]string{"invite_id": "invite-1", "status": "maybe"})), "user-2")
	req = withChiURLParams(req, map[string]string{"boardId": "board-1", "id": "card-1"})
	w := httptest.NewRecorder()
	h.RespondToInvite(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
