//go:build e2e

// Package e2e exercises the assembled HTTP stack: router, session
// middleware, handlers, services, and repositories over a real database.
// Run with: go test -tags=e2e ./tests/e2e/... -v
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/bookswap/bookswap-backend/internal/api"
	applogger "github.com/bookswap/bookswap-backend/internal/logger"
	"github.com/bookswap/bookswap-backend/internal/models"
	"github.com/bookswap/bookswap-backend/internal/session"
	"github.com/bookswap/bookswap-backend/internal/storage"
	"github.com/bookswap/bookswap-backend/tests/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ExchangeFlowTestSuite drives complete user journeys through the API
type ExchangeFlowTestSuite struct {
	suite.Suite
	db     *gorm.DB
	server *httptest.Server
}

func TestExchangeFlowTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeFlowTestSuite))
}

func (s *ExchangeFlowTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)
	require.NoError(s.T(), db.AutoMigrate(&models.Account{}, &models.Book{}, &models.Message{}))
	s.db = db

	fileStorage, err := storage.NewLocalStorage(s.T().TempDir())
	require.NoError(s.T(), err)

	e := api.NewRouter(&api.RouterConfig{
		DB:          db,
		FileStorage: fileStorage,
		Sessions:    session.NewManager("e2e-test-secret-key-32-characters!", false),
		SecLog:      applogger.NewSecurityLogger(),
		RateLimit:   100,
		RateBurst:   200,
	})
	s.server = httptest.NewServer(e)
}

func (s *ExchangeFlowTestSuite) TearDownTest() {
	s.server.Close()
}

// client returns an HTTP client with its own cookie jar, i.e. one browser
func (s *ExchangeFlowTestSuite) client() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(s.T(), err)
	return &http.Client{Jar: jar}
}

func (s *ExchangeFlowTestSuite) do(client *http.Client, method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reqBody)
	require.NoError(s.T(), err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(s.T(), err)
	return resp
}

func (s *ExchangeFlowTestSuite) parse(resp *http.Response, target interface{}) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	require.NoError(s.T(), json.Unmarshal(data, target))
}

// register creates an account and returns a logged-in client plus the account id
func (s *ExchangeFlowTestSuite) register(displayName, email string) (*http.Client, uint) {
	client := s.client()
	resp := s.do(client, http.MethodPost, "/api/auth/register", map[string]string{
		"display_name": displayName,
		"email":        email,
		"password":     "long-enough-password",
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	var body struct {
		Data models.Account `json:"data"`
	}
	s.parse(resp, &body)
	require.NotZero(s.T(), body.Data.ID)
	return client, body.Data.ID
}

func (s *ExchangeFlowTestSuite) TestExchangeNegotiationFlow() {
	alice, aliceID := s.register("alice", "alice@example.com")
	bob, bobID := s.register("bob", "bob@example.com")

	// Bob lists a book
	resp := s.do(bob, http.MethodPost, "/api/books", map[string]string{
		"title":  "The Dispossessed",
		"author": "Ursula K. Le Guin",
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	var bookResp struct {
		Data models.Book `json:"data"`
	}
	s.parse(resp, &bookResp)

	// Alice finds it in the public catalogue without logging in
	anon := s.client()
	resp = s.do(anon, http.MethodGet, "/api/books/search?q=Dispossessed", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	var searchResp struct {
		Data []models.BookWithOwner `json:"data"`
	}
	s.parse(resp, &searchResp)
	require.Len(s.T(), searchResp.Data, 1)
	assert.Equal(s.T(), bobID, searchResp.Data[0].OwnerID)

	// Alice opens the negotiation, referencing the book
	resp = s.do(alice, http.MethodPost, "/api/messages", map[string]interface{}{
		"recipient_id":     bobID,
		"body":             "Would you trade this one?",
		"exchange_book_id": bookResp.Data.ID,
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Bob sees one conversation with one unread message
	resp = s.do(bob, http.MethodGet, "/api/conversations", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	var listResp struct {
		Data []models.ConversationSummary `json:"data"`
	}
	s.parse(resp, &listResp)
	require.Len(s.T(), listResp.Data, 1)
	assert.Equal(s.T(), aliceID, listResp.Data[0].Other.ID)
	assert.True(s.T(), listResp.Data[0].Unread)
	assert.Equal(s.T(), int64(1), listResp.Data[0].UnreadCount)

	// Bob reads the thread and marks it read
	resp = s.do(bob, http.MethodGet, fmt.Sprintf("/api/conversations/%d", aliceID), nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	var threadResp struct {
		Data []models.ThreadMessage `json:"data"`
	}
	s.parse(resp, &threadResp)
	require.Len(s.T(), threadResp.Data, 1)
	assert.False(s.T(), threadResp.Data[0].Mine)
	require.NotNil(s.T(), threadResp.Data[0].ExchangeBookID)
	assert.Equal(s.T(), bookResp.Data.ID, *threadResp.Data[0].ExchangeBookID)

	resp = s.do(bob, http.MethodPost, fmt.Sprintf("/api/conversations/%d/read", aliceID), nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Bob replies; now alice has the unread badge
	resp = s.do(bob, http.MethodPost, "/api/messages", map[string]interface{}{
		"recipient_id": aliceID,
		"body":         "Sure, send me your list.",
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(alice, http.MethodGet, "/api/messages/unread/count", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	var unreadResp struct {
		Data map[string]int64 `json:"data"`
	}
	s.parse(resp, &unreadResp)
	assert.Equal(s.T(), int64(1), unreadResp.Data["unread"])
}

func (s *ExchangeFlowTestSuite) TestRetractMessageFlow() {
	alice, aliceID := s.register("alice", "alice@example.com")
	bob, bobID := s.register("bob", "bob@example.com")
	carol, _ := s.register("carol", "carol@example.com")

	resp := s.do(alice, http.MethodPost, "/api/messages", map[string]interface{}{
		"recipient_id": bobID,
		"body":         "wrong person, sorry",
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	var sendResp struct {
		Data models.Message `json:"data"`
	}
	s.parse(resp, &sendResp)

	// Carol cannot delete a message she is not part of, and cannot tell it exists
	resp = s.do(carol, http.MethodDelete, fmt.Sprintf("/api/messages/%d", sendResp.Data.ID), nil)
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Alice retracts it
	resp = s.do(alice, http.MethodDelete, fmt.Sprintf("/api/messages/%d", sendResp.Data.ID), nil)
	assert.Equal(s.T(), http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// The conversation disappeared for both sides
	resp = s.do(bob, http.MethodGet, fmt.Sprintf("/api/conversations/%d/exists", aliceID), nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	var existsResp struct {
		Data map[string]bool `json:"data"`
	}
	s.parse(resp, &existsResp)
	assert.False(s.T(), existsResp.Data["exists"])
}

func (s *ExchangeFlowTestSuite) TestSessionLifecycle() {
	alice, _ := s.register("alice", "alice@example.com")

	resp := s.do(alice, http.MethodGet, "/api/me", nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(alice, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(alice, http.MethodGet, "/api/me", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func (s *ExchangeFlowTestSuite) TestSeededThreadOrdering() {
	alice, aliceID := s.register("alice", "alice@example.com")
	_, bobID := s.register("bob", "bob@example.com")

	// Seed an existing back-and-forth directly, oldest first
	for _, m := range fixtures.CreateThread(aliceID, bobID, 6) {
		m.ID = 0
		require.NoError(s.T(), s.db.Create(&m).Error)
	}

	resp := s.do(alice, http.MethodGet, fmt.Sprintf("/api/conversations/%d", bobID), nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	var threadResp struct {
		Data []models.ThreadMessage `json:"data"`
	}
	s.parse(resp, &threadResp)
	require.Len(s.T(), threadResp.Data, 6)
	for i := 1; i < len(threadResp.Data); i++ {
		assert.False(s.T(), threadResp.Data[i].SentAt.Before(threadResp.Data[i-1].SentAt))
	}
	// Alternating authorship survives the round trip
	assert.True(s.T(), threadResp.Data[0].Mine)
	assert.False(s.T(), threadResp.Data[1].Mine)
}
