package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/npezzotti/go-messenger/internal/config"
	"github.com/npezzotti/go-messenger/internal/database"
	"github.com/npezzotti/go-messenger/internal/messaging"
	"github.com/npezzotti/go-messenger/internal/stats"
	"github.com/npezzotti/go-messenger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewMessengerApp(t *testing.T) {
	mux := http.NewServeMux()
	logger := testutil.TestLogger(t)
	db := &database.MockMessengerRepository{}
	ms := messaging.NewMessengerService(logger, db)
	statsProvider := &stats.MockStatsUpdater{}
	statsProvider.On("RegisterMetric", mock.AnythingOfType("string")).Times(3)
	cfg := &config.Config{
		ServerAddr:     "localhost:8080",
		DatabaseDSN:    "dsn",
		SigningKey:     []byte("secret"),
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	app := NewMessengerApp(mux, logger, ms, db, statsProvider, cfg)
	statsProvider.AssertExpectations(t)

	assert.NotNil(t, app, "expected app to be initialized")
	assert.NotNil(t, app.mux, "expected mux to be initialized")
	assert.NotNil(t, app.log, "expected logger to be set")
	assert.NotNil(t, app.db, "expected db to be set")
	assert.Equal(t, app.log, logger, "expected logger to be set")
	assert.Equal(t, app.ms, ms, "expected messaging service to be set")
	assert.Equal(t, app.signingKey, cfg.SigningKey, "expected signing key to be set")
	assert.Equal(t, app.mux.Addr, cfg.ServerAddr, "expected server address to match config")

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/signup"},
		{http.MethodPost, "/login"},
		{http.MethodGet, "/logout"},
		{http.MethodGet, "/conversations"},
		{http.MethodGet, "/conversation/abc123/messages"},
		{http.MethodPost, "/conversation/abc123/message/create"},
		{http.MethodPost, "/message/create"},
		{http.MethodPut, "/user/update"},
		{http.MethodPost, "/user/delete"},
	}
	for _, route := range routes {
		handler, pattern := mux.Handler(&http.Request{
			URL:    &url.URL{Path: route.path},
			Method: route.method,
		})
		assert.NotNil(t, handler, "expected handler for %s %s", route.method, route.path)
		assert.NotEmpty(t, pattern, "expected pattern for %s %s", route.method, route.path)
	}
}
