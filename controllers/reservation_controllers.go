package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
)

type ReservationController struct {
	Service *services.ReservationService
}

func NewReservationController(service *services.ReservationService) *ReservationController {
	return &ReservationController{Service: service}
}

// ListReservations -> GET /reservations?date=YYYY-MM-DD or ?mobile_number=
func (rc *ReservationController) ListReservations(c *gin.Context) {
	list, err := rc.Service.List(c.Request.Context(), services.ListFilter{
		Date:         c.Query("date"),
		MobileNumber: c.Query("mobile_number"),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, list)
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	reservation, err := rc.Service.Create(c.Request.Context(), body)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, reservation)
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, ok := pathID(c, "reservation_id")
	if !ok {
		return
	}
	reservation, err := rc.Service.Read(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservation)
}

// UpdateReservation -> edit a booked reservation
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := pathID(c, "reservation_id")
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	reservation, err := rc.Service.Update(c.Request.Context(), id, body)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservation)
}

func (rc *ReservationController) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "reservation_id")
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	status, err := rc.Service.UpdateStatus(c.Request.Context(), id, body)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, gin.H{"status": status})
}
