package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/floor"
	"github.com/yeremiapane/reservation-app/utils"
)

type FloorController struct {
	Hub *floor.Hub
}

func NewFloorController(hub *floor.Hub) *FloorController {
	return &FloorController{Hub: hub}
}

// FloorFeed -> websocket stream of seat, finish and reservation events
func (fc *FloorController) FloorFeed(c *gin.Context) {
	if err := fc.Hub.Serve(c.Writer, c.Request, c.GetString("role")); err != nil {
		utils.ErrorLogger.WithField("ip", c.ClientIP()).Errorf("floor websocket upgrade failed: %v", err)
	}
}
