package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/utils"
)

// AuthMiddleware accepts a bearer token in the Authorization header, or in the `token`
// query parameter for websocket clients that cannot set headers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			utils.RespondStatus(c, http.StatusUnauthorized, "Authorization header missing")
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil || claims.StaffID == 0 {
			utils.RespondStatus(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set("staffID", claims.StaffID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RoleCheck must run after AuthMiddleware.
func RoleCheck(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		utils.RespondStatus(c, http.StatusForbidden, strings.Join(roles, " or ")+" access required")
	}
}
