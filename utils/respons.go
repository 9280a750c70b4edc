package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/reservation-app/apperrors"
)

const internalErrorMessage = "Internal server error"

type DataResponse struct {
	Data interface{} `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondJSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, DataResponse{Data: data})
}

// RespondError derives the status from the error kind. Internal failures are logged
// and answered with a generic message.
func RespondError(c *gin.Context, err error) {
	code := apperrors.Status(err)
	if code == http.StatusInternalServerError {
		ErrorLogger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error(err)
		RespondStatus(c, code, internalErrorMessage)
		return
	}
	RespondStatus(c, code, err.Error())
}

func RespondStatus(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}
