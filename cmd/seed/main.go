// Command seed loads fixture data through the same code paths as signup and
// send: two users and a two-message conversation between them.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/npezzotti/go-messenger/internal/database"
	"github.com/npezzotti/go-messenger/internal/messaging"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	godotenv.Load()

	var dsn string
	flag.StringVar(&dsn, "dsn", envOr("MESSENGER_DSN",
		"host=localhost user=postgres password=postgres dbname=postgres sslmode=disable"), "database connection string")
	flag.Parse()

	logger := log.New(os.Stderr, "[go-messenger-seed] ", log.LstdFlags)

	dbConn, err := database.NewPgMessengerRepository(dsn)
	if err != nil {
		logger.Fatal("db open:", err)
	}
	defer dbConn.Close()

	if err := dbConn.Migrate(); err != nil {
		logger.Fatal("migrate:", err)
	}

	ms := messaging.NewMessengerService(logger, dbConn)

	john, err := ms.CreateAccount("john_doe", "john@example.com", "password123")
	if err != nil {
		logger.Fatal("create john_doe:", err)
	}
	logger.Println("added user:", john.Username)

	jane, err := ms.CreateAccount("jane_smith", "jane@example.com", "password456")
	if err != nil {
		logger.Fatal("create jane_smith:", err)
	}
	logger.Println("added user:", jane.Username)

	conv, msg, err := ms.StartConversation(john.Id, jane.Username, "Hello, world!")
	if err != nil {
		logger.Fatal("start conversation:", err)
	}
	logger.Println("added message:", msg.Content)

	reply, err := ms.SendMessage(jane.Id, conv.ExternalId, "This is a test message.")
	if err != nil {
		logger.Fatal("send reply:", err)
	}
	logger.Println("added message:", reply.Content)

	logger.Printf("seeded conversation %s with %d users\n", conv.ExternalId, 2)
}
