package messaging

import (
	"log"

	"github.com/npezzotti/go-messenger/internal/database"
	"github.com/teris-io/shortid"
)

// MessengerService owns the messaging domain logic: accounts and
// credentials, conversation identity, the message ledger, and the read-side
// projections. All state lives in the repository; the service holds nothing
// across calls.
type MessengerService struct {
	log *log.Logger
	db  database.MessengerRepository

	// overridable for tests
	generateShortId func() (string, error)
}

func NewMessengerService(logger *log.Logger, db database.MessengerRepository) *MessengerService {
	return &MessengerService{
		log:             logger,
		db:              db,
		generateShortId: shortid.Generate,
	}
}
