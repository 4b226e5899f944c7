package middlewares

import (
	"net/http"

	"github.com/CellHub/models"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route to users at or above min in the role hierarchy.
// Must run after CheckAuth.
func RequireRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("currentUser").(models.User)

		if !user.Role.AtLeast(min) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}
