package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/npezzotti/go-messenger/internal/config"
	"github.com/npezzotti/go-messenger/internal/database"
	"github.com/npezzotti/go-messenger/internal/messaging"
	"github.com/npezzotti/go-messenger/internal/stats"
)

type MessengerApp struct {
	log        *log.Logger
	db         database.MessengerRepository
	ms         *messaging.MessengerService
	stats      stats.StatsProvider
	mux        *http.Server
	signingKey []byte
}

func NewMessengerApp(mux *http.ServeMux, logger *log.Logger, ms *messaging.MessengerService,
	db database.MessengerRepository, statsProvider stats.StatsProvider, cfg *config.Config) *MessengerApp {
	s := &MessengerApp{
		log:        logger,
		db:         db,
		ms:         ms,
		stats:      statsProvider,
		signingKey: cfg.SigningKey,
	}

	s.stats.RegisterMetric("AccountsCreated")
	s.stats.RegisterMetric("ConversationsCreated")
	s.stats.RegisterMetric("MessagesSent")

	mux.HandleFunc("GET /healthz", s.healthCheck)
	mux.HandleFunc("POST /signup", s.createAccount)
	mux.HandleFunc("POST /login", s.login)
	mux.Handle("GET /logout", s.authMiddleware(s.logout))
	mux.Handle("GET /{$}", s.authMiddleware(s.index))
	mux.Handle("GET /conversations", s.authMiddleware(s.listConversations))
	mux.Handle("GET /conversation/{id}/messages", s.authMiddleware(s.listMessages))
	mux.Handle("POST /conversation/{id}/message/create", s.authMiddleware(s.createMessage))
	mux.Handle("POST /message/create", s.authMiddleware(s.startConversation))
	mux.Handle("PUT /user/update", s.authMiddleware(s.updateAccount))
	mux.Handle("POST /user/delete", s.authMiddleware(s.deleteAccount))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(mux)

	h = handlers.LoggingHandler(logger.Writer(), h)
	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *MessengerApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *MessengerApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
