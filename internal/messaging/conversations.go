package messaging

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/npezzotti/go-messenger/internal/database"
)

// ResolveConversation returns the conversation for the unordered pair of
// users, creating it if none exists yet. The repository's pair-key
// constraint guarantees that concurrent resolutions for the same pair
// converge on a single conversation.
func (ms *MessengerService) ResolveConversation(currentUserId, otherUserId int) (database.Conversation, error) {
	if currentUserId == otherUserId {
		return database.Conversation{}, ErrSelfConversation
	}

	if _, err := ms.db.GetAccountById(otherUserId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.Conversation{}, ErrRecipientNotFound
		}
		return database.Conversation{}, fmt.Errorf("get recipient: %w", err)
	}

	sid, err := ms.generateShortId()
	if err != nil {
		return database.Conversation{}, fmt.Errorf("generate conversation id: %w", err)
	}

	conv, err := ms.db.GetOrCreateConversation(database.CreateConversationParams{
		ExternalId: sid,
		UserAId:    currentUserId,
		UserBId:    otherUserId,
	})
	if err != nil {
		return database.Conversation{}, fmt.Errorf("resolve conversation: %w", err)
	}

	return conv, nil
}

// StartConversation sends the first message from senderId to the user named
// by recipientUsername, resolving or minting the conversation for the pair.
func (ms *MessengerService) StartConversation(senderId int, recipientUsername, content string) (database.Conversation, database.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return database.Conversation{}, database.Message{}, ErrEmptyMessage
	}

	recipient, err := ms.db.GetAccountByUsername(strings.TrimSpace(recipientUsername))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.Conversation{}, database.Message{}, ErrRecipientNotFound
		}
		return database.Conversation{}, database.Message{}, fmt.Errorf("get recipient: %w", err)
	}

	conv, err := ms.ResolveConversation(senderId, recipient.Id)
	if err != nil {
		return database.Conversation{}, database.Message{}, err
	}

	msg, err := ms.db.CreateMessage(database.CreateMessageParams{
		ConversationId: conv.Id,
		SenderId:       senderId,
		RecipientId:    recipient.Id,
		Content:        content,
	})
	if err != nil {
		return database.Conversation{}, database.Message{}, fmt.Errorf("create message: %w", err)
	}

	return conv, msg, nil
}

// SendMessage appends a message to an existing conversation. The sender
// must be one of the two participants; a conversation the sender is not
// part of is indistinguishable from one that does not exist.
func (ms *MessengerService) SendMessage(senderId int, conversationExternalId, content string) (database.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return database.Message{}, ErrEmptyMessage
	}

	conv, err := ms.db.GetConversationByExternalId(conversationExternalId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.Message{}, ErrNotFound
		}
		return database.Message{}, fmt.Errorf("get conversation: %w", err)
	}

	if !conv.HasParticipant(senderId) {
		return database.Message{}, ErrNotFound
	}

	msg, err := ms.db.CreateMessage(database.CreateMessageParams{
		ConversationId: conv.Id,
		SenderId:       senderId,
		RecipientId:    conv.OtherParticipant(senderId),
		Content:        content,
	})
	if err != nil {
		return database.Message{}, fmt.Errorf("create message: %w", err)
	}

	return msg, nil
}

// ListConversations returns one entry per distinct other participant the
// user has a conversation with. A pure read: calling it twice with no
// intervening writes returns the same entries.
func (ms *MessengerService) ListConversations(userId int) ([]database.ConversationSummary, error) {
	summaries, err := ms.db.ListConversations(userId)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	return summaries, nil
}

// ListMessages returns the messages of a conversation in ascending creation
// order. The caller must be a participant.
func (ms *MessengerService) ListMessages(userId int, conversationExternalId string) ([]database.Message, error) {
	conv, err := ms.db.GetConversationByExternalId(conversationExternalId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	if !conv.HasParticipant(userId) {
		return nil, ErrNotFound
	}

	messages, err := ms.db.GetMessages(conv.Id)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}

	return messages, nil
}
