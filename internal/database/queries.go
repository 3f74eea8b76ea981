package database

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}

func (db *PgMessengerRepository) CreateAccount(params CreateAccountParams) (User, error) {
	now := time.Now().UTC()
	res := db.conn.QueryRow(
		"INSERT INTO users (username, email, password_hash, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING id, username, email, created_at, updated_at",
		params.Username,
		params.EmailAddress,
		params.PasswordHash,
		now,
		now,
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.EmailAddress,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return User{}, ErrDuplicateKey
	}

	return u, err
}

func (db *PgMessengerRepository) UpdateAccount(params UpdateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"UPDATE users SET username = $2, password_hash = $3, updated_at = $4 "+
			"WHERE id = $1 RETURNING id, username, email, created_at, updated_at",
		params.UserId,
		params.Username,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.EmailAddress,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return User{}, ErrDuplicateKey
	}

	return u, err
}

// DeleteAccount removes a user together with every conversation the user
// participates in and all of those conversations' messages, in a single
// transaction.
func (db *PgMessengerRepository) DeleteAccount(userId int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.Exec(
		"DELETE FROM messages WHERE conversation_id IN "+
			"(SELECT id FROM conversations WHERE user_a = $1 OR user_b = $1)",
		userId,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM conversations WHERE user_a = $1 OR user_b = $1", userId)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM users WHERE id = $1", userId)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (db *PgMessengerRepository) GetAccountById(userId int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, created_at, updated_at FROM users "+
			"WHERE id = $1 LIMIT 1",
		userId,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.EmailAddress,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	return user, err
}

func (db *PgMessengerRepository) GetAccountByUsername(username string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, password_hash, created_at, updated_at FROM users "+
			"WHERE username = $1 LIMIT 1",
		username,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.EmailAddress,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	return user, err
}

// GetOrCreateConversation inserts a conversation for the pair unless one
// already exists, then returns the surviving row. The unique constraint on
// pair_key serializes concurrent inserts for the same pair: the loser's
// insert is a no-op and the following select returns the winner's row, so
// both callers observe the same conversation.
func (db *PgMessengerRepository) GetOrCreateConversation(params CreateConversationParams) (Conversation, error) {
	pairKey := PairKey(params.UserAId, params.UserBId)
	now := time.Now().UTC()

	_, err := db.conn.Exec(
		"INSERT INTO conversations (external_id, user_a, user_b, pair_key, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (pair_key) DO NOTHING",
		params.ExternalId,
		params.UserAId,
		params.UserBId,
		pairKey,
		now,
		now,
	)
	if err != nil {
		return Conversation{}, err
	}

	row := db.conn.QueryRow(
		"SELECT id, external_id, user_a, user_b, pair_key, created_at, updated_at "+
			"FROM conversations WHERE pair_key = $1 LIMIT 1",
		pairKey,
	)

	var conv Conversation
	err = row.Scan(
		&conv.Id,
		&conv.ExternalId,
		&conv.UserAId,
		&conv.UserBId,
		&conv.PairKey,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)

	return conv, err
}

func (db *PgMessengerRepository) GetConversationByExternalId(externalId string) (Conversation, error) {
	row := db.conn.QueryRow(
		"SELECT id, external_id, user_a, user_b, pair_key, created_at, updated_at "+
			"FROM conversations WHERE external_id = $1 LIMIT 1",
		externalId,
	)

	var conv Conversation
	err := row.Scan(
		&conv.Id,
		&conv.ExternalId,
		&conv.UserAId,
		&conv.UserBId,
		&conv.PairKey,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)

	return conv, err
}

// ListConversations returns one summary per conversation the user
// participates in, with the other participant resolved to a username.
// Ordered by conversation creation, oldest first.
func (db *PgMessengerRepository) ListConversations(userId int) ([]ConversationSummary, error) {
	rows, err := db.conn.Query(
		"SELECT c.id, c.external_id, c.user_a, c.user_b, c.pair_key, c.created_at, c.updated_at, "+
			"u.id, u.username FROM conversations c "+
			"JOIN users u ON u.id = CASE WHEN c.user_a = $1 THEN c.user_b ELSE c.user_a END "+
			"WHERE c.user_a = $1 OR c.user_b = $1 ORDER BY c.id",
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries = make([]ConversationSummary, 0)
	for rows.Next() {
		var s ConversationSummary
		err = rows.Scan(
			&s.Conversation.Id,
			&s.Conversation.ExternalId,
			&s.Conversation.UserAId,
			&s.Conversation.UserBId,
			&s.Conversation.PairKey,
			&s.Conversation.CreatedAt,
			&s.Conversation.UpdatedAt,
			&s.OtherUserId,
			&s.OtherUsername,
		)
		if err != nil {
			break
		}

		summaries = append(summaries, s)
	}

	return summaries, err
}

func (db *PgMessengerRepository) CreateMessage(params CreateMessageParams) (Message, error) {
	res := db.conn.QueryRow(
		"INSERT INTO messages (conversation_id, sender_id, recipient_id, content, created_at) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING id, conversation_id, sender_id, recipient_id, content, created_at",
		params.ConversationId,
		params.SenderId,
		params.RecipientId,
		params.Content,
		time.Now().UTC(),
	)

	var msg Message
	err := res.Scan(
		&msg.Id,
		&msg.ConversationId,
		&msg.SenderId,
		&msg.RecipientId,
		&msg.Content,
		&msg.CreatedAt,
	)

	return msg, err
}

// GetMessages returns all messages in a conversation in ascending creation
// order, with the serial id breaking ties between equal timestamps. An
// empty conversation yields an empty slice, not an error.
func (db *PgMessengerRepository) GetMessages(conversationId int) ([]Message, error) {
	rows, err := db.conn.Query(
		"SELECT id, conversation_id, sender_id, recipient_id, content, created_at FROM messages "+
			"WHERE conversation_id = $1 ORDER BY created_at, id",
		conversationId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages = make([]Message, 0)
	for rows.Next() {
		var msg Message
		if err = rows.Scan(
			&msg.Id,
			&msg.ConversationId,
			&msg.SenderId,
			&msg.RecipientId,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			break
		}

		messages = append(messages, msg)
	}

	return messages, err
}
