package messaging

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/npezzotti/go-messenger/internal/database"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// CreateAccount validates the signup input, hashes the password and
// persists the user. The plaintext password is never stored.
func (ms *MessengerService) CreateAccount(username, email, password string) (database.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return database.User{}, fmt.Errorf("%w: username must be specified", ErrValidation)
	}
	if email == "" {
		return database.User{}, fmt.Errorf("%w: email must be specified", ErrValidation)
	}
	if len(password) < minPasswordLen {
		return database.User{}, fmt.Errorf("%w: password must be at least %d characters long", ErrValidation, minPasswordLen)
	}

	pwdHash, err := hashPassword(password)
	if err != nil {
		return database.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := ms.db.CreateAccount(database.CreateAccountParams{
		Username:     username,
		EmailAddress: email,
		PasswordHash: pwdHash,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return database.User{}, ErrDuplicateUser
		}
		return database.User{}, fmt.Errorf("create account: %w", err)
	}

	return user, nil
}

// VerifyCredentials resolves a username and password to a user. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials.
func (ms *MessengerService) VerifyCredentials(username, password string) (database.User, error) {
	user, err := ms.db.GetAccountByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.User{}, ErrInvalidCredentials
		}
		return database.User{}, fmt.Errorf("get account: %w", err)
	}

	if !verifyPassword(user.PasswordHash, password) {
		return database.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// UpdateAccount changes the username and rehashes the password of an
// existing user.
func (ms *MessengerService) UpdateAccount(userId int, username, password string) (database.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return database.User{}, fmt.Errorf("%w: username must be specified", ErrValidation)
	}
	if len(password) < minPasswordLen {
		return database.User{}, fmt.Errorf("%w: password must be at least %d characters long", ErrValidation, minPasswordLen)
	}

	pwdHash, err := hashPassword(password)
	if err != nil {
		return database.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := ms.db.UpdateAccount(database.UpdateAccountParams{
		UserId:       userId,
		Username:     username,
		PasswordHash: pwdHash,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return database.User{}, ErrDuplicateUser
		}
		return database.User{}, fmt.Errorf("update account: %w", err)
	}

	return user, nil
}

// DeleteAccount removes the user along with every conversation the user
// participates in and all of their messages.
func (ms *MessengerService) DeleteAccount(userId int) error {
	if err := ms.db.DeleteAccount(userId); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	return nil
}

func hashPassword(passwd string) (string, error) {
	passwdHash, err := bcrypt.GenerateFromPassword([]byte(passwd), bcrypt.DefaultCost)
	return string(passwdHash), err
}

func verifyPassword(passwdHash, passwd string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(passwdHash), []byte(passwd))
	return err == nil
}
