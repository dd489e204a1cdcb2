package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillbarter/config"
	"skillbarter/internal/database"
	"skillbarter/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	cfg := config.Load()
	cfg.Credits.StartingCredits = 10
	return router.Setup(cfg, db)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerUser(t *testing.T, r *gin.Engine, name string) (token string, userID uint) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     name,
		"email":    name + "@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decode(t, w)
	token = out["access_token"].(string)
	user := out["user"].(map[string]interface{})
	userID = uint(user["id"].(float64))
	return token, userID
}

func TestRegisterLoginAndBalance(t *testing.T) {
	r := newTestRouter(t)
	token, _ := registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodGet, "/api/v1/credits/balance", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(10), decode(t, w)["balance"])

	// duplicate email is rejected
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "alice2", "email": "alice@example.com", "password": "secret-password",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// login round-trip
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "secret-password",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBalanceRequiresAuth(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/v1/credits/balance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTransferEndpoint(t *testing.T) {
	r := newTestRouter(t)
	aliceToken, _ := registerUser(t, r, "alice")
	registerUser(t, r, "bob")

	w := doJSON(t, r, http.MethodPost, "/api/v1/credits/transfer", aliceToken, gin.H{
		"receiver_email": "bob@example.com", "amount": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/credits/balance", aliceToken, nil)
	assert.Equal(t, float64(6), decode(t, w)["balance"])

	// self-transfer rejected
	w = doJSON(t, r, http.MethodPost, "/api/v1/credits/transfer", aliceToken, gin.H{
		"receiver_email": "alice@example.com", "amount": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown receiver
	w = doJSON(t, r, http.MethodPost, "/api/v1/credits/transfer", aliceToken, gin.H{
		"receiver_email": "nobody@example.com", "amount": 1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// more than the balance
	w = doJSON(t, r, http.MethodPost, "/api/v1/credits/transfer", aliceToken, gin.H{
		"receiver_email": "bob@example.com", "amount": 1000,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/credits/history", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "SENT", history[0]["type"])
	assert.Equal(t, "bob", history[0]["other_party"])
}

func TestSessionFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	studentToken, _ := registerUser(t, r, "student")
	teacherToken, teacherID := registerUser(t, r, "teacher")
	outsiderToken, _ := registerUser(t, r, "outsider")

	w := doJSON(t, r, http.MethodPost, "/api/v1/skills", teacherToken, gin.H{
		"name": "go", "total_sessions": 1, "payment_plan": "per_session",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	skillID := uint(decode(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPost, "/api/v1/sessions", studentToken, gin.H{
		"teacher_id":       teacherID,
		"skill_id":         skillID,
		"scheduled_time":   time.Now().Add(time.Hour).Format(time.RFC3339),
		"duration_minutes": 60,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decode(t, w)
	sessionID := out["session_id"].(string)
	assert.Equal(t, float64(2), out["credit_amount"])

	// an outsider may neither join nor update
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/join", sessionID), outsiderToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/sessions/%s/status", sessionID), outsiderToken, gin.H{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// student joins, credits go to escrow
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/join", sessionID), studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	join := decode(t, w)
	assert.Equal(t, true, join["escrowed"])
	assert.NotEmpty(t, join["room_name"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/credits/balance", studentToken, nil)
	assert.Equal(t, float64(8), decode(t, w)["balance"])

	// invalid status value
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/sessions/%s/status", sessionID), teacherToken, gin.H{"status": "done"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// completion pays the teacher
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/sessions/%s/status", sessionID), teacherToken, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/credits/balance", teacherToken, nil)
	assert.Equal(t, float64(12), decode(t, w)["balance"])
	w = doJSON(t, r, http.MethodGet, "/api/v1/credits/balance", studentToken, nil)
	assert.Equal(t, float64(8), decode(t, w)["balance"])

	// unknown session id
	w = doJSON(t, r, http.MethodPost, "/api/v1/sessions/no-such-id/join", studentToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
