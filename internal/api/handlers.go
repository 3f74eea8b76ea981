package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/npezzotti/go-messenger/internal/database"
	"github.com/npezzotti/go-messenger/internal/types"
)

type UpdateAccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type StartConversationRequest struct {
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
}

type CreateMessageRequest struct {
	Content string `json:"content"`
}

type IndexResponse struct {
	User          types.User           `json:"user"`
	Conversations []types.Conversation `json:"conversations"`
}

func (s *MessengerApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func (s *MessengerApp) healthCheck(w http.ResponseWriter, _ *http.Request) {
	if err := s.db.Ping(); err != nil {
		s.log.Println("health check:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func conversationsResponse(summaries []database.ConversationSummary) []types.Conversation {
	convs := make([]types.Conversation, 0, len(summaries))
	for _, summary := range summaries {
		convs = append(convs, types.Conversation{
			ExternalId:    summary.Conversation.ExternalId,
			OtherUserId:   summary.OtherUserId,
			OtherUsername: summary.OtherUsername,
			CreatedAt:     summary.Conversation.CreatedAt,
		})
	}

	return convs
}

func (s *MessengerApp) index(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.db.GetAccountById(userId)
	if err != nil {
		s.log.Println("get account:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	summaries, err := s.ms.ListConversations(userId)
	if err != nil {
		s.log.Println("list conversations:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, IndexResponse{
		User: types.User{
			Id:           user.Id,
			Username:     user.Username,
			EmailAddress: user.EmailAddress,
			CreatedAt:    user.CreatedAt,
			UpdatedAt:    user.UpdatedAt,
		},
		Conversations: conversationsResponse(summaries),
	})
}

func (s *MessengerApp) listConversations(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	summaries, err := s.ms.ListConversations(userId)
	if err != nil {
		s.log.Println("list conversations:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, conversationsResponse(summaries))
}

func (s *MessengerApp) listMessages(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	externalId := r.PathValue("id")
	if externalId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	messages, err := s.ms.ListMessages(userId, externalId)
	if err != nil {
		errResp := domainError(err)
		if errResp.StatusCode == http.StatusInternalServerError {
			s.log.Println("list messages:", err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	userMessages := make([]types.Message, 0, len(messages))
	for _, msg := range messages {
		userMessages = append(userMessages, types.Message{
			Id:             msg.Id,
			ConversationId: externalId,
			SenderId:       msg.SenderId,
			RecipientId:    msg.RecipientId,
			Content:        msg.Content,
			Timestamp:      msg.CreatedAt,
		})
	}

	s.writeJson(w, http.StatusOK, userMessages)
}

func (s *MessengerApp) createMessage(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	externalId := r.PathValue("id")
	if externalId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msg, err := s.ms.SendMessage(userId, externalId, req.Content)
	if err != nil {
		errResp := domainError(err)
		if errResp.StatusCode == http.StatusInternalServerError {
			s.log.Println("send message:", err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.stats.Incr("MessagesSent")

	s.writeJson(w, http.StatusCreated, types.Message{
		Id:             msg.Id,
		ConversationId: externalId,
		SenderId:       msg.SenderId,
		RecipientId:    msg.RecipientId,
		Content:        msg.Content,
		Timestamp:      msg.CreatedAt,
	})
}

func (s *MessengerApp) startConversation(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Recipient == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	conv, msg, err := s.ms.StartConversation(userId, req.Recipient, req.Content)
	if err != nil {
		errResp := domainError(err)
		if errResp.StatusCode == http.StatusInternalServerError {
			s.log.Println("start conversation:", err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.stats.Incr("ConversationsCreated")
	s.stats.Incr("MessagesSent")

	s.writeJson(w, http.StatusCreated, types.Message{
		Id:             msg.Id,
		ConversationId: conv.ExternalId,
		SenderId:       msg.SenderId,
		RecipientId:    msg.RecipientId,
		Content:        msg.Content,
		Timestamp:      msg.CreatedAt,
	})
}

func (s *MessengerApp) updateAccount(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dbUser, err := s.ms.UpdateAccount(userId, req.Username, req.Password)
	if err != nil {
		errResp := domainError(err)
		if errResp.StatusCode == http.StatusInternalServerError {
			s.log.Println("update account:", err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, types.User{
		Id:           dbUser.Id,
		Username:     dbUser.Username,
		EmailAddress: dbUser.EmailAddress,
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	})
}

func (s *MessengerApp) deleteAccount(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.ms.DeleteAccount(userId); err != nil {
		s.log.Println("delete account:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	// the session token is now useless; clear the cookie as well
	http.SetCookie(w, createJwtCookie("", time.Duration(time.Unix(0, 0).Unix())))
	w.WriteHeader(http.StatusNoContent)
}
