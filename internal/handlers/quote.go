package handlers

import (
	"net/http"

	"planeteye/backend/internal/quote"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	quoteService *quote.Service
}

func NewQuoteHandler(quoteService *quote.Service) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// GetQuote returns the current motivational thought. It always succeeds:
// upstream failure degrades to the fixed fallback, flagged so the client
// can tell the difference.
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	text, live := h.quoteService.Current(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"quote":    text,
		"fallback": !live,
	})
}
