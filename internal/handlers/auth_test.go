package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"planeteye/backend/internal/handlers"
	"planeteye/backend/internal/middleware"
	"planeteye/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthRouter(db *gorm.DB) *gin.Engine {
	handler := handlers.NewAuthHandler(db, services.NewSessionService(time.Hour, 24*time.Hour))

	engine := gin.New()
	engine.POST("/api/auth/login", handler.Login)
	engine.POST("/api/auth/refresh", handler.Refresh)
	engine.POST("/api/auth/logout", handler.Logout)
	engine.GET("/api/me", middleware.AuthMiddleware(db), handler.Me)
	return engine
}

func TestLogin_SelectsRosterUser(t *testing.T) {
	db := newTestDB(t)
	engine := newAuthRouter(db)

	recorder := performJSON(t, engine, http.MethodPost, "/api/auth/login", gin.H{"user_id": "u3"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp handlers.LoginResponse
	decodeBody(t, recorder, &resp)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Alex Leader", resp.User.Name)
}

func TestLogin_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	engine := newAuthRouter(db)

	recorder := performJSON(t, engine, http.MethodPost, "/api/auth/login", gin.H{"user_id": "u99"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestLogin_MissingBody(t *testing.T) {
	db := newTestDB(t)
	engine := newAuthRouter(db)

	recorder := performJSON(t, engine, http.MethodPost, "/api/auth/login", gin.H{})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRefresh_RotatesSession(t *testing.T) {
	db := newTestDB(t)
	engine := newAuthRouter(db)

	recorder := performJSON(t, engine, http.MethodPost, "/api/auth/login", gin.H{"user_id": "u4"})
	require.Equal(t, http.StatusOK, recorder.Code)
	var login handlers.LoginResponse
	decodeBody(t, recorder, &login)

	recorder = performJSON(t, engine, http.MethodPost, "/api/auth/refresh", gin.H{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, recorder.Code)

	var refreshed struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	decodeBody(t, recorder, &refreshed)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, int64(3600), refreshed.ExpiresIn)

	// Spent token is rejected.
	recorder = performJSON(t, engine, http.MethodPost, "/api/auth/refresh", gin.H{"refresh_token": login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	db := newTestDB(t)
	engine := newAuthRouter(db)

	recorder := performJSON(t, engine, http.MethodPost, "/api/auth/login", gin.H{"user_id": "u4"})
	require.Equal(t, http.StatusOK, recorder.Code)
	var login handlers.LoginResponse
	decodeBody(t, recorder, &login)

	recorder = performJSON(t, engine, http.MethodPost, "/api/auth/logout", gin.H{"refresh_token": login.RefreshToken})
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = performJSON(t, engine, http.MethodPost, "/api/auth/refresh", gin.H{"refresh_token": login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = performJSON(t, engine, http.MethodPost, "/api/auth/logout", gin.H{"refresh_token": "not-a-real-token"})
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestMe_WithBearerToken(t *testing.T) {
	db := newTestDB(t)
	engine := newAuthRouter(db)

	recorder := performJSON(t, engine, http.MethodPost, "/api/auth/login", gin.H{"user_id": "u2"})
	require.Equal(t, http.StatusOK, recorder.Code)
	var login handlers.LoginResponse
	decodeBody(t, recorder, &login)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		User         map[string]interface{} `json:"user"`
		Capabilities map[string]bool        `json:"capabilities"`
	}
	decodeBody(t, rec, &me)
	assert.Equal(t, "u2", me.User["id"])
	assert.True(t, me.Capabilities["can_create_group"])
	assert.True(t, me.Capabilities["can_manage_employees"])
}

func TestMe_RejectsBadTokens(t *testing.T) {
	db := newTestDB(t)
	engine := newAuthRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
