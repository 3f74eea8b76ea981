package messaging

import "errors"

var (
	// ErrValidation covers missing or malformed input, such as an empty
	// username or a too-short password.
	ErrValidation = errors.New("invalid input")
	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("username or email already taken")
	// ErrInvalidCredentials is returned for both an unknown username and a
	// wrong password, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSelfConversation is returned when a user attempts to start a
	// conversation with themselves.
	ErrSelfConversation = errors.New("cannot start a conversation with yourself")
	// ErrRecipientNotFound is returned when the named recipient does not
	// resolve to an existing user.
	ErrRecipientNotFound = errors.New("recipient not found")
	// ErrEmptyMessage is returned when message content is empty after
	// trimming whitespace.
	ErrEmptyMessage = errors.New("message content cannot be empty")
	// ErrNotFound is returned when a conversation does not exist or the
	// caller is not one of its participants.
	ErrNotFound = errors.New("conversation not found")
)
