package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CellHub/database"
	"go.uber.org/zap"
)

type HealthController struct {
	DB  *database.DB
	Log *zap.Logger
}

func NewHealthController(db *database.DB, log *zap.Logger) *HealthController {
	return &HealthController{DB: db, Log: log}
}

// Check reports liveness and datastore reachability. GET /health
func (ctrl *HealthController) Check(c *gin.Context) {
	if err := ctrl.DB.Ping(); err != nil {
		ctrl.Log.Error("database ping failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}
