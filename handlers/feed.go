package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Asadganteng/ruang-iklim-scada/services"
)

type FeedHandler struct {
	feed *services.LiveFeed
}

func NewFeedHandler(feed *services.LiveFeed) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// GetFeed handles GET /api/v1/feed, returning the current buffer snapshot.
// An empty buffer after a failed historical load is simply count 0, meaning
// "no data yet".
func (h *FeedHandler) GetFeed(c *gin.Context) {
	readings := h.feed.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"data":  readings,
		"count": len(readings),
	})
}

// GetFeedStats handles GET /api/v1/feed/stats
func (h *FeedHandler) GetFeedStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"stats":  h.feed.Stats(),
	})
}
