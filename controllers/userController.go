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
	"golang.org/x/crypto/bcrypt"
)

type UserController struct {
	DB  *goqu.Database
	Log *zap.Logger
}

func NewUserController(db *goqu.Database, log *zap.Logger) *UserController {
	return &UserController{DB: db, Log: log}
}

// List returns all users. GET /users
func (ctrl *UserController) List(c *gin.Context) {
	var users []models.User
	err := ctrl.DB.From("users").Order(goqu.C("name").Asc()).ScanStructs(&users)
	if err != nil {
		ctrl.Log.Error("failed to fetch users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// Get returns one user; callers below Leader may only read themselves.
// GET /users/:user_id
func (ctrl *UserController) Get(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if userID != currentUser.User_ID && !currentUser.Role.AtLeast(models.RoleLeader) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to view this user"})
		return
	}

	var user models.User
	found, err := ctrl.DB.From("users").Where(goqu.C("user_id").Eq(userID)).ScanStruct(&user)
	if err != nil {
		ctrl.Log.Error("failed to fetch user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Create adds a user with an explicit role and status. POST /users
func (ctrl *UserController) Create(c *gin.Context) {
	var body models.UserCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	emailCount, err := ctrl.DB.From("users").Where(goqu.C("email").Eq(body.Email)).Count()
	if err != nil {
		ctrl.Log.Error("failed to check email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	if emailCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already in use"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		ctrl.Log.Error("failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	role := body.Role
	if role == "" {
		role = models.RoleMember
	}
	status := body.Status
	if status == "" {
		status = models.StatusActive
	}

	record := goqu.Record{
		"name":     body.Name,
		"email":    body.Email,
		"password": string(passwordHash),
		"phone":    body.Phone,
		"role":     role,
		"status":   status,
		"cell_id":  body.Cell_ID,
	}

	tx, err := ctrl.DB.Begin()
	if err != nil {
		ctrl.Log.Error("failed to begin transaction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// The user row and its membership link land together or not at all.
	var userID int
	err = tx.Wrap(func() error {
		if _, err := tx.Insert("users").Rows(record).Returning("user_id").Executor().ScanVal(&userID); err != nil {
			return err
		}
		if body.Cell_ID == nil {
			return nil
		}
		link := goqu.Record{
			"user_id":      userID,
			"cell_id":      *body.Cell_ID,
			"role_in_cell": models.CellRoleMember,
		}
		_, err := tx.Insert("user_cells").Rows(link).Executor().Exec()
		return err
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already in use"})
			return
		}
		ctrl.Log.Error("failed to insert user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user := models.User{
		User_ID: userID,
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Role:    role,
		Status:  status,
		Cell_ID: body.Cell_ID,
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Update edits a user. Users may edit their own contact fields; role and
// status changes require Pastor. PUT /users/:user_id
func (ctrl *UserController) Update(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if userID != currentUser.User_ID && !currentUser.Role.AtLeast(models.RolePastor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this user"})
		return
	}

	var body models.UserUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if (body.Role != nil || body.Status != nil) && !currentUser.Role.AtLeast(models.RolePastor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a pastor can change roles or status"})
		return
	}

	record := goqu.Record{"datetime_update": time.Now()}
	if body.Name != nil {
		record["name"] = *body.Name
	}
	if body.Email != nil {
		emailCount, err := ctrl.DB.From("users").
			Where(goqu.C("email").Eq(*body.Email), goqu.C("user_id").Neq(userID)).
			Count()
		if err != nil {
			ctrl.Log.Error("failed to check email", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		if emailCount > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already in use"})
			return
		}
		record["email"] = *body.Email
	}
	if body.Phone != nil {
		record["phone"] = *body.Phone
	}
	if body.Role != nil {
		record["role"] = *body.Role
	}
	if body.Status != nil {
		record["status"] = *body.Status
	}

	result, err := ctrl.DB.Update("users").
		Set(record).
		Where(goqu.C("user_id").Eq(userID)).
		Executor().Exec()
	if err != nil {
		ctrl.Log.Error("failed to update user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

// Delete removes a user and everything scoped to them, and clears any
// leadership references, in one transaction. DELETE /users/:user_id
func (ctrl *UserController) Delete(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	tx, err := ctrl.DB.Begin()
	if err != nil {
		ctrl.Log.Error("failed to begin transaction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	var deleted int64
	err = tx.Wrap(func() error {
		result, err := tx.Delete("users").Where(goqu.C("user_id").Eq(userID)).Executor().Exec()
		if err != nil {
			return err
		}
		deleted, _ = result.RowsAffected()
		if deleted == 0 {
			return nil
		}

		for _, table := range []string{"user_cells", "profiles", "dependents", "prayer_logs", "prayer_request_logs", "password_reset_tokens"} {
			if _, err := tx.Delete(table).Where(goqu.C("user_id").Eq(userID)).Executor().Exec(); err != nil {
				return err
			}
		}

		// The user's own requests go away along with their logs.
		var requestIDs []int
		if err := tx.From("prayer_requests").
			Select("prayer_request_id").
			Where(goqu.C("user_id").Eq(userID)).
			ScanVals(&requestIDs); err != nil {
			return err
		}
		if len(requestIDs) > 0 {
			if _, err := tx.Delete("prayer_request_logs").
				Where(goqu.C("prayer_request_id").In(requestIDs)).
				Executor().Exec(); err != nil {
				return err
			}
			if _, err := tx.Delete("prayer_requests").
				Where(goqu.C("user_id").Eq(userID)).
				Executor().Exec(); err != nil {
				return err
			}
		}

		for _, column := range []string{"leader_id", "supervisor_id", "coordinator_id"} {
			if _, err := tx.Update("cells").
				Set(goqu.Record{column: nil}).
				Where(goqu.C(column).Eq(userID)).
				Executor().Exec(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		ctrl.Log.Error("failed to delete user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ChangePassword resets a user's password. PUT /users/:user_id/password
func (ctrl *UserController) ChangePassword(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if userID != currentUser.User_ID && !currentUser.Role.AtLeast(models.RolePastor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to change this password"})
		return
	}

	var body models.PasswordChange
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.New_Password), bcrypt.DefaultCost)
	if err != nil {
		ctrl.Log.Error("failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	result, err := ctrl.DB.Update("users").
		Set(goqu.Record{"password": string(passwordHash), "datetime_update": time.Now()}).
		Where(goqu.C("user_id").Eq(userID)).
		Executor().Exec()
	if err != nil {
		ctrl.Log.Error("failed to update password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
