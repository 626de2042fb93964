package httpHandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Asadganteng/ruang-iklim-scada/entities"
	"github.com/Asadganteng/ruang-iklim-scada/usecases"
)

type SetpointHandler struct {
	useCase *usecases.SetpointUseCase
}

func NewSetpointHandler(useCase *usecases.SetpointUseCase) *SetpointHandler {
	return &SetpointHandler{useCase: useCase}
}

// Pointer fields distinguish "absent" from a legitimate zero target.
type setpointRequest struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Light       *float64 `json:"light"`
	Sound       *float64 `json:"sound"`
}

// GetSetpoints handles GET /api/v1/setpoints
func (h *SetpointHandler) GetSetpoints(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data":   h.useCase.Current(),
		"saving": h.useCase.Saving(),
	})
}

// SaveSetpoints handles PUT /api/v1/setpoints. A store failure surfaces as
// 502 so the operator sees it; the in-memory targets stay as they were.
func (h *SetpointHandler) SaveSetpoints(c *gin.Context) {
	var req setpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.Temperature == nil || req.Humidity == nil || req.Light == nil || req.Sound == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "temperature, humidity, light and sound are all required",
		})
		return
	}

	setpoint := entities.Setpoint{
		Temperature: *req.Temperature,
		Humidity:    *req.Humidity,
		Light:       *req.Light,
		Sound:       *req.Sound,
	}

	if err := h.useCase.Save(setpoint); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to save setpoints: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Setpoints saved",
		"data":    h.useCase.Current(),
	})
}
