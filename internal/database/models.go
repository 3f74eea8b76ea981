package database

import (
	"fmt"
	"time"
)

type User struct {
	Id           int
	Username     string
	EmailAddress string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Conversation struct {
	Id         int
	ExternalId string
	UserAId    int
	UserBId    int
	PairKey    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OtherParticipant returns the participant of the conversation which is not
// userId.
func (c Conversation) OtherParticipant(userId int) int {
	if c.UserAId == userId {
		return c.UserBId
	}
	return c.UserAId
}

// HasParticipant reports whether userId is one of the two participants.
func (c Conversation) HasParticipant(userId int) bool {
	return c.UserAId == userId || c.UserBId == userId
}

// ConversationSummary is one row of a user's conversation listing: the
// conversation plus the resolved other participant.
type ConversationSummary struct {
	Conversation  Conversation
	OtherUserId   int
	OtherUsername string
}

type Message struct {
	Id             int
	ConversationId int
	SenderId       int
	RecipientId    int
	Content        string
	CreatedAt      time.Time
}

type CreateAccountParams struct {
	Username     string
	EmailAddress string
	PasswordHash string
}

type UpdateAccountParams struct {
	UserId       int
	Username     string
	PasswordHash string
}

type CreateConversationParams struct {
	ExternalId string
	UserAId    int
	UserBId    int
}

type CreateMessageParams struct {
	ConversationId int
	SenderId       int
	RecipientId    int
	Content        string
}

// PairKey returns the canonical key for an unordered pair of user ids: the
// ids sorted ascending and joined. (a, b) and (b, a) map to the same key,
// and the conversations table holds a unique constraint on it, so at most
// one conversation row can exist per pair.
func PairKey(a, b int) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}
