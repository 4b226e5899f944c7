package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CellHub/database"
	"github.com/CellHub/models"
	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// today is the server-local calendar day. The whole system assumes one
// canonical timezone for day boundaries.
func today() string {
	return time.Now().Format(dateLayout)
}

// mondayOf returns the Monday of t's week; Sunday belongs to the previous week.
func mondayOf(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

type PrayerController struct {
	DB  *goqu.Database
	Log *zap.Logger
}

func NewPrayerController(db *goqu.Database, log *zap.Logger) *PrayerController {
	return &PrayerController{DB: db, Log: log}
}

// LogPrayer records the caller's daily check-in. A second call on the same
// day is a benign 409, and the race between two concurrent calls is settled
// by the unique constraint. POST /prayers/log
func (ctrl *PrayerController) LogPrayer(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)
	date := today()

	existing, err := ctrl.DB.From("prayer_logs").
		Where(goqu.C("user_id").Eq(user.User_ID), goqu.C("prayer_date").Eq(date)).
		Count()
	if err != nil {
		ctrl.Log.Error("failed to check prayer log", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log prayer"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already prayed today"})
		return
	}

	record := goqu.Record{"user_id": user.User_ID, "prayer_date": date}

	var logID int
	_, err = ctrl.DB.Insert("prayer_logs").Rows(record).Returning("prayer_log_id").Executor().ScanVal(&logID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already prayed today"})
			return
		}
		ctrl.Log.Error("failed to insert prayer log", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log prayer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": logID, "date": date})
}

// StatusToday reports whether the caller already checked in. GET /prayers/status/today
func (ctrl *PrayerController) StatusToday(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)
	date := today()

	count, err := ctrl.DB.From("prayer_logs").
		Where(goqu.C("user_id").Eq(user.User_ID), goqu.C("prayer_date").Eq(date)).
		Count()
	if err != nil {
		ctrl.Log.Error("failed to check prayer status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check prayer status"})
		return
	}

	c.JSON(http.StatusOK, models.PrayerStatus{AlreadyPrayed: count > 0, Date: date})
}

// Stats returns the caller's rollups. GET /prayers/stats
func (ctrl *PrayerController) Stats(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	stats, err := ctrl.statsFor(user.User_ID)
	if err != nil {
		ctrl.Log.Error("failed to compute prayer stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// StatsForUser returns another user's rollups; callers below Leader may only
// read their own. GET /users/:user_id/prayer-stats
func (ctrl *PrayerController) StatsForUser(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if userID != currentUser.User_ID && !currentUser.Role.AtLeast(models.RoleLeader) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to view these stats"})
		return
	}

	userCount, err := ctrl.DB.From("users").Where(goqu.C("user_id").Eq(userID)).Count()
	if err != nil {
		ctrl.Log.Error("failed to check user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer stats"})
		return
	}
	if userCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	stats, err := ctrl.statsFor(userID)
	if err != nil {
		ctrl.Log.Error("failed to compute prayer stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (ctrl *PrayerController) statsFor(userID int) (models.PrayerStats, error) {
	now := time.Now()
	date := now.Format(dateLayout)
	weekStart := mondayOf(now).Format(dateLayout)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(dateLayout)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()).Format(dateLayout)

	var stats models.PrayerStats

	base := func() *goqu.SelectDataset {
		return ctrl.DB.From("prayer_logs").Where(goqu.C("user_id").Eq(userID))
	}

	todayCount, err := base().Where(goqu.C("prayer_date").Eq(date)).Count()
	if err != nil {
		return stats, err
	}
	stats.PrayedToday = todayCount > 0

	if stats.WeeklyCount, err = base().Where(goqu.C("prayer_date").Gte(weekStart)).Count(); err != nil {
		return stats, err
	}
	if stats.MonthlyCount, err = base().Where(goqu.C("prayer_date").Gte(monthStart)).Count(); err != nil {
		return stats, err
	}
	if stats.YearlyCount, err = base().Where(goqu.C("prayer_date").Gte(yearStart)).Count(); err != nil {
		return stats, err
	}
	if stats.TotalCount, err = base().Count(); err != nil {
		return stats, err
	}

	return stats, nil
}
