package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"planeteye/backend/internal/cache"
	"planeteye/backend/internal/handlers"
	"planeteye/backend/internal/models"
	"planeteye/backend/internal/quote"
	"planeteye/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDashboardRouter(db *gorm.DB, actor *models.User) *gin.Engine {
	handler := handlers.NewDashboardHandler(db, services.NewDashboardService(cache.NewMemoryCache()))

	engine := gin.New()
	engine.GET("/api/dashboard", withActor(actor), handler.GetDashboard)
	return engine
}

func TestGetDashboard_VariantFollowsRole(t *testing.T) {
	db := newTestDB(t)

	cases := []struct {
		actorID string
		variant string
	}{
		{actorID: "u1", variant: "admin"},
		{actorID: "u2", variant: "boss"},
		{actorID: "u3", variant: "team_leader"},
		{actorID: "u4", variant: "default"},
		{actorID: "u5", variant: "default"},
	}

	for _, tc := range cases {
		t.Run(tc.variant+"_"+tc.actorID, func(t *testing.T) {
			engine := newDashboardRouter(db, loadActor(t, db, tc.actorID))
			recorder := performJSON(t, engine, http.MethodGet, "/api/dashboard", nil)
			require.Equal(t, http.StatusOK, recorder.Code)

			var dash services.Dashboard
			decodeBody(t, recorder, &dash)
			assert.Equal(t, tc.variant, dash.Variant)
			assert.NotEmpty(t, dash.Leaderboard)
		})
	}
}

type fixedQuoteProvider struct {
	text string
	err  error
}

func (p *fixedQuoteProvider) MotivationalThought(ctx context.Context) (string, error) {
	return p.text, p.err
}

func newQuoteRouter(provider quote.Provider) *gin.Engine {
	service := quote.NewService(provider, cache.NewMemoryCache(), time.Hour)
	handler := handlers.NewQuoteHandler(service)

	engine := gin.New()
	engine.GET("/api/quote", handler.GetQuote)
	return engine
}

func TestGetQuote_LiveValue(t *testing.T) {
	engine := newQuoteRouter(&fixedQuoteProvider{text: "Great work compounds."})

	recorder := performJSON(t, engine, http.MethodGet, "/api/quote", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Quote    string `json:"quote"`
		Fallback bool   `json:"fallback"`
	}
	decodeBody(t, recorder, &resp)
	assert.Equal(t, "Great work compounds.", resp.Quote)
	assert.False(t, resp.Fallback)
}

func TestGetQuote_FallbackOnFailure(t *testing.T) {
	engine := newQuoteRouter(&fixedQuoteProvider{err: errors.New("upstream down")})

	recorder := performJSON(t, engine, http.MethodGet, "/api/quote", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Quote    string `json:"quote"`
		Fallback bool   `json:"fallback"`
	}
	decodeBody(t, recorder, &resp)
	assert.Equal(t, quote.Fallback, resp.Quote)
	assert.True(t, resp.Fallback)
}
