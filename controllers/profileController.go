package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CellHub/database"
	"github.com/CellHub/models"
	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

type ProfileController struct {
	DB  *goqu.Database
	Log *zap.Logger
}

func NewProfileController(db *goqu.Database, log *zap.Logger) *ProfileController {
	return &ProfileController{DB: db, Log: log}
}

// Get returns the caller's extended profile. GET /profile
func (ctrl *ProfileController) Get(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	var profile models.Profile
	found, err := ctrl.DB.From("profiles").
		Where(goqu.C("user_id").Eq(user.User_ID)).
		ScanStruct(&profile)
	if err != nil {
		ctrl.Log.Error("failed to fetch profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Update upserts the caller's profile; the row is created lazily on the
// first save. PUT /profile
func (ctrl *ProfileController) Update(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	var body models.ProfileUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record := goqu.Record{
		"whatsapp":        body.Whatsapp,
		"gender":          body.Gender,
		"birth_date":      body.Birth_Date,
		"birth_city":      body.Birth_City,
		"birth_state":     body.Birth_State,
		"address":         body.Address,
		"address_number":  body.Address_Number,
		"district":        body.District,
		"city":            body.City,
		"state":           body.State,
		"zip_code":        body.Zip_Code,
		"father_name":     body.Father_Name,
		"mother_name":     body.Mother_Name,
		"marital_status":  body.Marital_Status,
		"spouse_name":     body.Spouse_Name,
		"education":       body.Education,
		"profession":      body.Profession,
		"conversion_date": body.Conversion_Date,
		"previous_church": body.Previous_Church,
		"oikos1":          body.Oikos1,
		"oikos2":          body.Oikos2,
	}

	count, err := ctrl.DB.From("profiles").Where(goqu.C("user_id").Eq(user.User_ID)).Count()
	if err != nil {
		ctrl.Log.Error("failed to check profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	if count > 0 {
		record["datetime_update"] = time.Now()
		_, err = ctrl.DB.Update("profiles").
			Set(record).
			Where(goqu.C("user_id").Eq(user.User_ID)).
			Executor().Exec()
	} else {
		record["user_id"] = user.User_ID
		_, err = ctrl.DB.Insert("profiles").Rows(record).Executor().Exec()
		if err != nil && database.IsUniqueViolation(err) {
			// A concurrent first save won the unique(user_id) race;
			// this one becomes an update.
			delete(record, "user_id")
			record["datetime_update"] = time.Now()
			_, err = ctrl.DB.Update("profiles").
				Set(record).
				Where(goqu.C("user_id").Eq(user.User_ID)).
				Executor().Exec()
		}
	}
	if err != nil {
		ctrl.Log.Error("failed to save profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile saved successfully"})
}

// Complete returns the caller's user row, profile and dependents in one
// payload. GET /profile/complete
func (ctrl *ProfileController) Complete(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	var profile models.Profile
	profileFound, err := ctrl.DB.From("profiles").
		Where(goqu.C("user_id").Eq(user.User_ID)).
		ScanStruct(&profile)
	if err != nil {
		ctrl.Log.Error("failed to fetch profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	var dependents []models.Dependent
	err = ctrl.DB.From("dependents").
		Where(goqu.C("user_id").Eq(user.User_ID)).
		Order(goqu.C("full_name").Asc()).
		ScanStructs(&dependents)
	if err != nil {
		ctrl.Log.Error("failed to fetch dependents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dependents"})
		return
	}

	response := gin.H{"user": user, "dependents": dependents}
	if profileFound {
		response["profile"] = profile
	} else {
		response["profile"] = nil
	}

	c.JSON(http.StatusOK, response)
}
