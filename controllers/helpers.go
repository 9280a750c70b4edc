package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/utils"
	"github.com/yeremiapane/reservation-app/validators"
)

// readBody decodes the `data` envelope. A request without a body decodes to an empty one.
// On malformed JSON it responds 400 and returns false.
func readBody(c *gin.Context) (validators.Body, bool) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return validators.Body{}, true
	}
	raw, err := c.GetRawData()
	if err != nil {
		utils.RespondStatus(c, http.StatusBadRequest, "Request body could not be read")
		return nil, false
	}
	body, err := validators.DecodeBody(raw)
	if err != nil {
		utils.RespondStatus(c, http.StatusBadRequest, "Request body must be valid JSON")
		return nil, false
	}
	return body, true
}

// pathID reads a positive integer route parameter. Anything else cannot name a row,
// so it responds 404.
func pathID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.RespondStatus(c, http.StatusNotFound, fmt.Sprintf("Cannot find %s %s", param, raw))
		return 0, false
	}
	return uint(id), true
}
