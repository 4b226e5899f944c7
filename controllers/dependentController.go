package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CellHub/models"
	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// DependentController is strictly owner-scoped: every query filters by the
// authenticated user's id, so one member can never touch another's dependents.
type DependentController struct {
	DB  *goqu.Database
	Log *zap.Logger
}

func NewDependentController(db *goqu.Database, log *zap.Logger) *DependentController {
	return &DependentController{DB: db, Log: log}
}

// List returns the caller's dependents. GET /dependents
func (ctrl *DependentController) List(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	var dependents []models.Dependent
	err := ctrl.DB.From("dependents").
		Where(goqu.C("user_id").Eq(user.User_ID)).
		Order(goqu.C("full_name").Asc()).
		ScanStructs(&dependents)
	if err != nil {
		ctrl.Log.Error("failed to fetch dependents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dependents"})
		return
	}

	c.JSON(http.StatusOK, dependents)
}

// Create adds a dependent for the caller. POST /dependents
func (ctrl *DependentController) Create(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	var body models.DependentCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record := goqu.Record{
		"user_id":      user.User_ID,
		"full_name":    body.Full_Name,
		"birth_date":   body.Birth_Date,
		"gender":       body.Gender,
		"observations": body.Observations,
	}

	var dependentID int
	_, err := ctrl.DB.Insert("dependents").Rows(record).Returning("dependent_id").Executor().ScanVal(&dependentID)
	if err != nil {
		ctrl.Log.Error("failed to insert dependent", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create dependent"})
		return
	}

	dependent := models.Dependent{
		Dependent_ID: dependentID,
		User_ID:      user.User_ID,
		Full_Name:    body.Full_Name,
		Birth_Date:   &body.Birth_Date,
		Gender:       &body.Gender,
		Observations: body.Observations,
	}

	c.JSON(http.StatusCreated, dependent)
}

// Update edits one of the caller's dependents. PUT /dependents/:dependent_id
func (ctrl *DependentController) Update(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	dependentID, err := strconv.Atoi(c.Param("dependent_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dependent ID"})
		return
	}

	var body models.DependentUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record := goqu.Record{"datetime_update": time.Now()}
	if body.Full_Name != nil {
		record["full_name"] = *body.Full_Name
	}
	if body.Birth_Date != nil {
		record["birth_date"] = *body.Birth_Date
	}
	if body.Gender != nil {
		record["gender"] = *body.Gender
	}
	if body.Observations != nil {
		record["observations"] = *body.Observations
	}

	result, err := ctrl.DB.Update("dependents").
		Set(record).
		Where(goqu.C("dependent_id").Eq(dependentID), goqu.C("user_id").Eq(user.User_ID)).
		Executor().Exec()
	if err != nil {
		ctrl.Log.Error("failed to update dependent", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update dependent"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dependent not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Dependent updated successfully"})
}

// Delete removes one of the caller's dependents. DELETE /dependents/:dependent_id
func (ctrl *DependentController) Delete(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	dependentID, err := strconv.Atoi(c.Param("dependent_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dependent ID"})
		return
	}

	result, err := ctrl.DB.Delete("dependents").
		Where(goqu.C("dependent_id").Eq(dependentID), goqu.C("user_id").Eq(user.User_ID)).
		Executor().Exec()
	if err != nil {
		ctrl.Log.Error("failed to delete dependent", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete dependent"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dependent not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Dependent deleted successfully"})
}
