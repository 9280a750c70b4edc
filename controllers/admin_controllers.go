package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/reports"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
)

type AdminController struct {
	Tables       *services.TableService
	Reservations *services.ReservationService
}

func NewAdminController(tables *services.TableService, reservations *services.ReservationService) *AdminController {
	return &AdminController{Tables: tables, Reservations: reservations}
}

// GetDashboardStats -> floor occupancy counters
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	counts, err := ac.Tables.Stats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, counts)
}

// ExportDay -> xlsx of every reservation on ?date=
func (ac *AdminController) ExportDay(c *gin.Context) {
	date := c.DefaultQuery("date", ac.Reservations.Today())
	list, err := ac.Reservations.Day(c.Request.Context(), date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="reservations-%s.xlsx"`, date))
	c.Status(http.StatusOK)
	if err := reports.WriteDaySheet(c.Writer, date, list); err != nil {
		utils.ErrorLogger.WithField("date", date).Errorf("export failed: %v", err)
	}
}
