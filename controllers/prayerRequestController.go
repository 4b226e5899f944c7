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

// anonymousAuthor replaces the author name on anonymous public requests.
const anonymousAuthor = "Anônimo"

type PrayerRequestController struct {
	DB  *goqu.Database
	Log *zap.Logger
}

func NewPrayerRequestController(db *goqu.Database, log *zap.Logger) *PrayerRequestController {
	return &PrayerRequestController{DB: db, Log: log}
}

// List returns the caller's own requests, newest first. GET /prayer-requests
func (ctrl *PrayerRequestController) List(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	var requests []models.PrayerRequest
	err := ctrl.DB.From("prayer_requests").
		Where(goqu.C("user_id").Eq(user.User_ID)).
		Order(goqu.C("datetime_create").Desc()).
		ScanStructs(&requests)
	if err != nil {
		ctrl.Log.Error("failed to fetch prayer requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// Create adds a request; status starts active with a zero counter.
// POST /prayer-requests
func (ctrl *PrayerRequestController) Create(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	var body models.PrayerRequestCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	urgency := body.Urgency
	if urgency == "" {
		urgency = "normal"
	}
	isPublic := true
	if body.Is_Public != nil {
		isPublic = *body.Is_Public
	}

	record := goqu.Record{
		"user_id":      user.User_ID,
		"title":        body.Title,
		"description":  body.Description,
		"category":     body.Category,
		"urgency":      urgency,
		"status":       "active",
		"is_anonymous": body.Is_Anonymous,
		"is_public":    isPublic,
		"prayer_count": 0,
	}

	var requestID int
	_, err := ctrl.DB.Insert("prayer_requests").Rows(record).Returning("prayer_request_id").Executor().ScanVal(&requestID)
	if err != nil {
		ctrl.Log.Error("failed to insert prayer request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create prayer request"})
		return
	}

	request := models.PrayerRequest{
		Prayer_Request_ID: requestID,
		User_ID:           user.User_ID,
		Title:             body.Title,
		Description:       body.Description,
		Category:          body.Category,
		Urgency:           urgency,
		Status:            "active",
		Is_Anonymous:      body.Is_Anonymous,
		Is_Public:         isPublic,
	}

	c.JSON(http.StatusCreated, request)
}

// ListPublic serves the paginated public feed with author names suppressed on
// anonymous requests. GET /prayer-requests/public
func (ctrl *PrayerRequestController) ListPublic(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}

	query := ctrl.DB.From("prayer_requests").
		Select(
			goqu.I("prayer_requests.prayer_request_id"),
			goqu.I("prayer_requests.title"),
			goqu.I("prayer_requests.description"),
			goqu.I("prayer_requests.category"),
			goqu.I("prayer_requests.urgency"),
			goqu.I("prayer_requests.is_anonymous"),
			goqu.I("prayer_requests.prayer_count"),
			goqu.I("users.name").As("author_name"),
			goqu.I("prayer_requests.datetime_create"),
		).
		InnerJoin(
			goqu.T("users"),
			goqu.On(goqu.Ex{"prayer_requests.user_id": goqu.I("users.user_id")}),
		).
		Where(
			goqu.C("is_public").Table("prayer_requests").IsTrue(),
			goqu.C("status").Table("prayer_requests").Eq("active"),
		)

	if category := c.Query("category"); category != "" {
		query = query.Where(goqu.C("category").Table("prayer_requests").Eq(category))
	}

	query = query.
		Order(goqu.I("prayer_requests.datetime_create").Desc()).
		Limit(uint(pageSize)).
		Offset(uint((page - 1) * pageSize))

	var requests []models.PublicPrayerRequest
	if err := query.ScanStructs(&requests); err != nil {
		ctrl.Log.Error("failed to fetch public prayer requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prayer requests"})
		return
	}

	for i := range requests {
		if requests[i].Is_Anonymous {
			requests[i].Author_Name = anonymousAuthor
		}
	}

	c.JSON(http.StatusOK, requests)
}

// Update edits a request; only its author may touch it. PUT /prayer-requests/:request_id
func (ctrl *PrayerRequestController) Update(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	requestID, err := strconv.Atoi(c.Param("request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer request ID"})
		return
	}

	var body models.PrayerRequestUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, status, msg := ctrl.loadOwned(requestID, user.User_ID)
	if request == nil {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	record := goqu.Record{"datetime_update": time.Now()}
	if body.Title != nil {
		record["title"] = *body.Title
	}
	if body.Description != nil {
		record["description"] = *body.Description
	}
	if body.Category != nil {
		record["category"] = *body.Category
	}
	if body.Urgency != nil {
		record["urgency"] = *body.Urgency
	}
	if body.Status != nil {
		record["status"] = *body.Status
	}
	if body.Is_Anonymous != nil {
		record["is_anonymous"] = *body.Is_Anonymous
	}
	if body.Is_Public != nil {
		record["is_public"] = *body.Is_Public
	}

	_, err = ctrl.DB.Update("prayer_requests").
		Set(record).
		Where(goqu.C("prayer_request_id").Eq(requestID)).
		Executor().Exec()
	if err != nil {
		ctrl.Log.Error("failed to update prayer request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update prayer request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prayer request updated successfully"})
}

// Delete removes a request and its logs. DELETE /prayer-requests/:request_id
func (ctrl *PrayerRequestController) Delete(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	requestID, err := strconv.Atoi(c.Param("request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer request ID"})
		return
	}

	request, status, msg := ctrl.loadOwned(requestID, user.User_ID)
	if request == nil {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	tx, err := ctrl.DB.Begin()
	if err != nil {
		ctrl.Log.Error("failed to begin transaction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete prayer request"})
		return
	}

	err = tx.Wrap(func() error {
		if _, err := tx.Delete("prayer_request_logs").
			Where(goqu.C("prayer_request_id").Eq(requestID)).
			Executor().Exec(); err != nil {
			return err
		}
		_, err := tx.Delete("prayer_requests").
			Where(goqu.C("prayer_request_id").Eq(requestID)).
			Executor().Exec()
		return err
	})
	if err != nil {
		ctrl.Log.Error("failed to delete prayer request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete prayer request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prayer request deleted successfully"})
}

// Pray records that the caller prayed for a request today and recomputes the
// counter from the log table, so the stored value can never drift.
// POST /prayer-requests/:request_id/pray
func (ctrl *PrayerRequestController) Pray(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	requestID, err := strconv.Atoi(c.Param("request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer request ID"})
		return
	}

	var request models.PrayerRequest
	found, err := ctrl.DB.From("prayer_requests").
		Where(goqu.C("prayer_request_id").Eq(requestID)).
		ScanStruct(&request)
	if err != nil {
		ctrl.Log.Error("failed to fetch prayer request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register prayer"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prayer request not found"})
		return
	}
	if !request.Is_Public && request.User_ID != user.User_ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This prayer request is private"})
		return
	}

	date := today()

	existing, err := ctrl.DB.From("prayer_request_logs").
		Where(
			goqu.C("prayer_request_id").Eq(requestID),
			goqu.C("user_id").Eq(user.User_ID),
			goqu.C("log_date").Eq(date),
		).
		Count()
	if err != nil {
		ctrl.Log.Error("failed to check prayer request log", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register prayer"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have already prayed for this request today"})
		return
	}

	tx, err := ctrl.DB.Begin()
	if err != nil {
		ctrl.Log.Error("failed to begin transaction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register prayer"})
		return
	}

	// Log row and recomputed counter commit together.
	var count int64
	err = tx.Wrap(func() error {
		record := goqu.Record{
			"prayer_request_id": requestID,
			"user_id":           user.User_ID,
			"log_date":          date,
		}
		if _, err := tx.Insert("prayer_request_logs").Rows(record).Executor().Exec(); err != nil {
			return err
		}
		var err error
		count, err = tx.From("prayer_request_logs").
			Where(goqu.C("prayer_request_id").Eq(requestID)).
			Count()
		if err != nil {
			return err
		}
		_, err = tx.Update("prayer_requests").
			Set(goqu.Record{"prayer_count": count}).
			Where(goqu.C("prayer_request_id").Eq(requestID)).
			Executor().Exec()
		return err
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You have already prayed for this request today"})
			return
		}
		ctrl.Log.Error("failed to register prayer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register prayer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prayer registered", "prayerCount": count})
}

// loadOwned fetches a request and enforces the ownership check shared by
// Update and Delete.
func (ctrl *PrayerRequestController) loadOwned(requestID, userID int) (*models.PrayerRequest, int, string) {
	var request models.PrayerRequest
	found, err := ctrl.DB.From("prayer_requests").
		Where(goqu.C("prayer_request_id").Eq(requestID)).
		ScanStruct(&request)
	if err != nil {
		ctrl.Log.Error("failed to fetch prayer request", zap.Error(err))
		return nil, http.StatusInternalServerError, "Failed to fetch prayer request"
	}
	if !found {
		return nil, http.StatusNotFound, "Prayer request not found"
	}
	if request.User_ID != userID {
		return nil, http.StatusForbidden, "You can only modify your own prayer requests"
	}
	return &request, http.StatusOK, ""
}
