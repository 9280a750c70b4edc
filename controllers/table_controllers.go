package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
)

type TableController struct {
	Service *services.TableService
}

func NewTableController(service *services.TableService) *TableController {
	return &TableController{Service: service}
}

func (tc *TableController) CreateTable(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	table, err := tc.Service.Create(c.Request.Context(), body)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, table)
}

// GetAllTables -> tables ordered by name
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Service.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, tables)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := pathID(c, "table_id")
	if !ok {
		return
	}
	table, err := tc.Service.Read(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, table)
}

// SeatTable -> PUT /tables/:table_id/seat
func (tc *TableController) SeatTable(c *gin.Context) {
	id, ok := pathID(c, "table_id")
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	result, err := tc.Service.Seat(c.Request.Context(), id, body)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, result.Table)
}

// FinishTable -> DELETE /tables/:table_id/seat
func (tc *TableController) FinishTable(c *gin.Context) {
	id, ok := pathID(c, "table_id")
	if !ok {
		return
	}
	result, err := tc.Service.Finish(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, result.Table)
}
