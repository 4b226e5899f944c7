package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CellHub/config"
	"github.com/CellHub/controllers"
	"github.com/CellHub/database"
	"github.com/CellHub/logger"
	"github.com/CellHub/middlewares"
	"github.com/CellHub/models"
	"github.com/CellHub/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, cleanup := logger.New(cfg.LogLevel, cfg.LogJSON)
	defer cleanup()

	db, err := database.Open(cfg.DBDriver, cfg.DBURL)
	if err != nil {
		zl.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		zl.Fatal("failed to migrate database", zap.Error(err))
	}

	email := services.NewEmailService(cfg.ResendAPIKey, cfg.ResendFromEmail, zl)

	authCtrl := controllers.NewAuthController(db.Database, zl, cfg.Secret)
	resetCtrl := controllers.NewPasswordResetController(db.Database, zl, email, cfg.Secret)
	userCtrl := controllers.NewUserController(db.Database, zl)
	cellCtrl := controllers.NewCellController(db.Database, zl)
	prayerCtrl := controllers.NewPrayerController(db.Database, zl)
	requestCtrl := controllers.NewPrayerRequestController(db.Database, zl)
	dependentCtrl := controllers.NewDependentController(db.Database, zl)
	profileCtrl := controllers.NewProfileController(db.Database, zl)
	dashboardCtrl := controllers.NewDashboardController(db.Database, zl)
	healthCtrl := controllers.NewHealthController(db, zl)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(ginzap.Ginzap(zl, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(zl, true))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	getKey := func(c *gin.Context) string {
		if gin.Mode() == gin.DebugMode {
			return c.FullPath()
		}
		return c.ClientIP()
	}

	router.GET("/health", healthCtrl.Check)
	router.GET("/cells/public", cellCtrl.ListPublic)

	router.POST("/auth/login", middlewares.RateLimit(2, 2, getKey), authCtrl.Login)
	router.POST("/auth/register", middlewares.RateLimit(2, 2, getKey), authCtrl.Register)
	router.POST("/auth/forgot-password", middlewares.RateLimit(2, 2, getKey), resetCtrl.ForgotPassword)
	router.POST("/auth/verify-reset-code", middlewares.RateLimit(5, 5, getKey), resetCtrl.VerifyResetCode)
	router.POST("/auth/reset-password", middlewares.RateLimit(2, 2, getKey), resetCtrl.ResetPassword)

	auth := router.Group("/")
	auth.Use(middlewares.CheckAuth(db.Database, cfg.Secret))
	{
		auth.GET("/auth/verify", authCtrl.Verify)

		auth.GET("/users", middlewares.RequireRole(models.RoleLeader), userCtrl.List)
		auth.GET("/users/:user_id", userCtrl.Get)
		auth.POST("/users", middlewares.RequireRole(models.RolePastor), userCtrl.Create)
		auth.PUT("/users/:user_id", userCtrl.Update)
		auth.DELETE("/users/:user_id", middlewares.RequireRole(models.RolePastor), userCtrl.Delete)
		auth.PUT("/users/:user_id/password", userCtrl.ChangePassword)
		auth.GET("/users/:user_id/prayer-stats", prayerCtrl.StatsForUser)
		auth.PUT("/users/:user_id/cell", middlewares.RequireRole(models.RoleSupervisor), cellCtrl.Reassign)

		auth.GET("/cells", cellCtrl.List)
		auth.GET("/cells/:cell_id", cellCtrl.Get)
		auth.GET("/cells/:cell_id/members", middlewares.RequireRole(models.RoleLeader), cellCtrl.Members)
		auth.POST("/cells", middlewares.RequireRole(models.RolePastor), cellCtrl.Create)
		auth.PUT("/cells/:cell_id", middlewares.RequireRole(models.RolePastor), cellCtrl.Update)
		auth.DELETE("/cells/:cell_id", middlewares.RequireRole(models.RolePastor), cellCtrl.Delete)
		auth.POST("/cells/:cell_id/members", middlewares.RequireRole(models.RoleSupervisor), cellCtrl.AssignMember)

		auth.POST("/prayers/log", prayerCtrl.LogPrayer)
		auth.GET("/prayers/status/today", prayerCtrl.StatusToday)
		auth.GET("/prayers/stats", prayerCtrl.Stats)

		auth.GET("/prayer-requests", requestCtrl.List)
		auth.POST("/prayer-requests", requestCtrl.Create)
		auth.GET("/prayer-requests/public", requestCtrl.ListPublic)
		auth.PUT("/prayer-requests/:request_id", requestCtrl.Update)
		auth.DELETE("/prayer-requests/:request_id", requestCtrl.Delete)
		auth.POST("/prayer-requests/:request_id/pray", requestCtrl.Pray)

		auth.GET("/dependents", dependentCtrl.List)
		auth.POST("/dependents", dependentCtrl.Create)
		auth.PUT("/dependents/:dependent_id", dependentCtrl.Update)
		auth.DELETE("/dependents/:dependent_id", dependentCtrl.Delete)

		auth.GET("/profile", profileCtrl.Get)
		auth.PUT("/profile", profileCtrl.Update)
		auth.GET("/profile/complete", profileCtrl.Complete)

		auth.GET("/dashboard", dashboardCtrl.Get)
	}

	zl.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := router.Run(":" + cfg.Port); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
}
