package database

import "errors"

// ErrDuplicateKey is returned when an insert violates a unique constraint,
// such as an already-taken username or email.
var ErrDuplicateKey = errors.New("duplicate key")

type MessengerRepository interface {
	Ping() error
	CreateAccount(params CreateAccountParams) (User, error)
	UpdateAccount(params UpdateAccountParams) (User, error)
	DeleteAccount(userId int) error
	GetAccountById(userId int) (User, error)
	GetAccountByUsername(username string) (User, error)
	GetOrCreateConversation(params CreateConversationParams) (Conversation, error)
	GetConversationByExternalId(externalId string) (Conversation, error)
	ListConversations(userId int) ([]ConversationSummary, error)
	CreateMessage(params CreateMessageParams) (Message, error)
	GetMessages(conversationId int) ([]Message, error)
}
