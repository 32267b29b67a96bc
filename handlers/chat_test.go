package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"bakery-assistant-api/config"
	"bakery-assistant-api/dialogue"
	"bakery-assistant-api/models"
	"bakery-assistant-api/session"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newChatRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newChatRouterWithStore(t, session.NewMemoryStore())
}

func newChatRouterWithStore(t *testing.T, sessions session.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.Customer{}, &models.Order{}, &models.OrderItem{},
	))
	require.NoError(t, config.SeedCatalog(db))

	cfg := &config.Config{
		BakeryName: "Sunrise Bakery",
		TaxRate:    0.0825,
		OpenTime:   "08:00",
		CloseTime:  "18:00",
		Branches:   []config.Branch{{Name: "Downtown Location"}},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := dialogue.NewController(cfg, db, sessions, log)
	chat := NewChatHandler(ctrl, sessions, log)

	r := gin.New()
	r.POST("/api/chat", chat.Chat)
	r.GET("/api/sessions/:id/history", chat.History)
	r.GET("/api/sessions/:id/cart", chat.CartState)
	return r
}

func postChat(t *testing.T, r *gin.Engine, body map[string]any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var resp map[string]any
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestChatRequiresQuery(t *testing.T) {
	r := newChatRouter(t)
	w, _ := postChat(t, r, map[string]any{"session_id": "s1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatGeneratesSessionID(t *testing.T) {
	r := newChatRouter(t)
	w, resp := postChat(t, r, map[string]any{"query": "2 cheesecakes"})
	require.Equal(t, http.StatusOK, w.Code)

	assert.NotEmpty(t, resp["session_id"])
	assert.Equal(t, "order", resp["agent"])
	assert.Equal(t, "checkout_fulfillment", resp["intent"])
	assert.NotEmpty(t, resp["clarification_question"])
}

func TestChatKeepsSessionState(t *testing.T) {
	r := newChatRouter(t)

	_, resp := postChat(t, r, map[string]any{"session_id": "s1", "query": "2 cheesecakes"})
	assert.Equal(t, "checkout_fulfillment", resp["intent"])

	_, resp = postChat(t, r, map[string]any{"session_id": "s1", "query": "pickup"})
	assert.Equal(t, "checkout_missing_details", resp["intent"])
	facts := resp["facts"].(map[string]any)
	assert.Equal(t, "name", facts["asking_for"])

	// cart state endpoint sees the same session
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/s1/cart", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var cartResp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cartResp))
	cart := cartResp["cart"].(map[string]any)
	assert.Equal(t, "awaiting_details", cart["phase"])
	assert.Equal(t, float64(1), cart["cart_items"])
}

// brokenHistoryStore fails every append, like Redis going away mid-flight.
type brokenHistoryStore struct {
	session.Store
}

func (brokenHistoryStore) AppendTurn(context.Context, string, session.Turn) error {
	return errors.New("history backend down")
}

func TestChatSurvivesHistoryStoreFailure(t *testing.T) {
	r := newChatRouterWithStore(t, brokenHistoryStore{session.NewMemoryStore()})

	w, resp := postChat(t, r, map[string]any{"session_id": "s1", "query": "2 cheesecakes"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "checkout_fulfillment", resp["intent"])
}

func TestChatRecordsHistory(t *testing.T) {
	r := newChatRouter(t)

	postChat(t, r, map[string]any{"session_id": "s1", "query": "2 cheesecakes"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/s1/history", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	history := resp["history"].([]any)
	require.Len(t, history, 2)
	first := history[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "2 cheesecakes", first["message"])
}
