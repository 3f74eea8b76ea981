package messaging

import (
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/npezzotti/go-messenger/internal/database"
)

// memRepository is an in-memory MessengerRepository with the same
// uniqueness semantics as the postgres implementation: unique usernames and
// emails, and at most one conversation per pair key. It is safe for
// concurrent use, which the conversation uniqueness tests rely on.
type memRepository struct {
	mu            sync.Mutex
	nextUserId    int
	nextConvId    int
	nextMsgId     int
	users         map[int]database.User
	conversations map[string]database.Conversation
	messages      []database.Message
}

func newMemRepository() *memRepository {
	return &memRepository{
		users:         make(map[int]database.User),
		conversations: make(map[string]database.Conversation),
	}
}

func (m *memRepository) Ping() error { return nil }

func (m *memRepository) CreateAccount(params database.CreateAccountParams) (database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == params.Username || u.EmailAddress == params.EmailAddress {
			return database.User{}, database.ErrDuplicateKey
		}
	}

	m.nextUserId++
	now := time.Now().UTC()
	user := database.User{
		Id:           m.nextUserId,
		Username:     params.Username,
		EmailAddress: params.EmailAddress,
		PasswordHash: params.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[user.Id] = user

	return user, nil
}

func (m *memRepository) UpdateAccount(params database.UpdateAccountParams) (database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[params.UserId]
	if !ok {
		return database.User{}, sql.ErrNoRows
	}

	for id, u := range m.users {
		if id != params.UserId && u.Username == params.Username {
			return database.User{}, database.ErrDuplicateKey
		}
	}

	user.Username = params.Username
	user.PasswordHash = params.PasswordHash
	user.UpdatedAt = time.Now().UTC()
	m.users[user.Id] = user

	return user, nil
}

func (m *memRepository) DeleteAccount(userId int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var remaining []database.Message
	for _, msg := range m.messages {
		if msg.SenderId != userId && msg.RecipientId != userId {
			remaining = append(remaining, msg)
		}
	}
	m.messages = remaining

	for key, conv := range m.conversations {
		if conv.HasParticipant(userId) {
			delete(m.conversations, key)
		}
	}

	delete(m.users, userId)
	return nil
}

func (m *memRepository) GetAccountById(userId int) (database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userId]
	if !ok {
		return database.User{}, sql.ErrNoRows
	}
	return user, nil
}

func (m *memRepository) GetAccountByUsername(username string) (database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return database.User{}, sql.ErrNoRows
}

func (m *memRepository) GetOrCreateConversation(params database.CreateConversationParams) (database.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pairKey := database.PairKey(params.UserAId, params.UserBId)
	if conv, ok := m.conversations[pairKey]; ok {
		return conv, nil
	}

	m.nextConvId++
	now := time.Now().UTC()
	conv := database.Conversation{
		Id:         m.nextConvId,
		ExternalId: params.ExternalId,
		UserAId:    params.UserAId,
		UserBId:    params.UserBId,
		PairKey:    pairKey,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.conversations[pairKey] = conv

	return conv, nil
}

func (m *memRepository) GetConversationByExternalId(externalId string) (database.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, conv := range m.conversations {
		if conv.ExternalId == externalId {
			return conv, nil
		}
	}
	return database.Conversation{}, sql.ErrNoRows
}

func (m *memRepository) ListConversations(userId int) ([]database.ConversationSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var convs []database.Conversation
	for _, conv := range m.conversations {
		if conv.HasParticipant(userId) {
			convs = append(convs, conv)
		}
	}
	sort.Slice(convs, func(i, j int) bool { return convs[i].Id < convs[j].Id })

	summaries := make([]database.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		otherId := conv.OtherParticipant(userId)
		summaries = append(summaries, database.ConversationSummary{
			Conversation:  conv,
			OtherUserId:   otherId,
			OtherUsername: m.users[otherId].Username,
		})
	}

	return summaries, nil
}

func (m *memRepository) CreateMessage(params database.CreateMessageParams) (database.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextMsgId++
	msg := database.Message{
		Id:             m.nextMsgId,
		ConversationId: params.ConversationId,
		SenderId:       params.SenderId,
		RecipientId:    params.RecipientId,
		Content:        params.Content,
		CreatedAt:      time.Now().UTC(),
	}
	m.messages = append(m.messages, msg)

	return msg, nil
}

func (m *memRepository) GetMessages(conversationId int) ([]database.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	messages := make([]database.Message, 0)
	for _, msg := range m.messages {
		if msg.ConversationId == conversationId {
			messages = append(messages, msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].Id < messages[j].Id
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return messages, nil
}
