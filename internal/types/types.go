package types

import (
	"time"
)

type User struct {
	Id           int       `json:"id"`
	Username     string    `json:"username"`
	EmailAddress string    `json:"email_address,omitempty"`
	Password     string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

type Conversation struct {
	ExternalId    string    `json:"id"`
	OtherUserId   int       `json:"other_user_id"`
	OtherUsername string    `json:"other_username"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

type Message struct {
	Id             int       `json:"id"`
	ConversationId string    `json:"conversation_id"`
	SenderId       int       `json:"sender_id"`
	RecipientId    int       `json:"recipient_id"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}
