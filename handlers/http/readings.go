package httpHandler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Asadganteng/ruang-iklim-scada/entities"
	"github.com/Asadganteng/ruang-iklim-scada/usecases"
)

type ReadingHandler struct {
	useCase *usecases.ReadingUseCase
}

func NewReadingHandler(useCase *usecases.ReadingUseCase) *ReadingHandler {
	return &ReadingHandler{useCase: useCase}
}

// CreateReading handles POST /api/v1/readings
func (h *ReadingHandler) CreateReading(c *gin.Context) {
	var reading entities.Reading

	if err := c.ShouldBindJSON(&reading); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.useCase.Ingest(&reading); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Reading stored",
		"data":    reading,
	})
}

// GetRecentReadings handles GET /api/v1/readings/recent?limit=500
func (h *ReadingHandler) GetRecentReadings(c *gin.Context) {
	limit := 500
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit must be a positive integer",
			})
			return
		}
		limit = n
	}

	readings, err := h.useCase.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve readings",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  readings,
		"count": len(readings),
	})
}
