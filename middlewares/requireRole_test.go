package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CellHub/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// TestRequireRole tests the hierarchy gate
func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		userRole       models.Role
		minRole        models.Role
		expectedStatus int
	}{
		{"member blocked from leader route", models.RoleMember, models.RoleLeader, http.StatusForbidden},
		{"leader passes leader route", models.RoleLeader, models.RoleLeader, http.StatusOK},
		{"pastor passes supervisor route", models.RolePastor, models.RoleSupervisor, http.StatusOK},
		{"supervisor blocked from pastor route", models.RoleSupervisor, models.RolePastor, http.StatusForbidden},
		{"admin passes everything", models.RoleAdmin, models.RolePastor, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.GET("/gated",
				func(c *gin.Context) {
					c.Set("currentUser", models.User{User_ID: 1, Role: tt.userRole})
				},
				RequireRole(tt.minRole),
				func(c *gin.Context) {
					c.JSON(http.StatusOK, gin.H{"ok": true})
				},
			)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/gated", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
