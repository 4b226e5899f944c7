package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/CellHub/database"
	"github.com/CellHub/models"
	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	DB     *goqu.Database
	Log    *zap.Logger
	Secret string
}

func NewAuthController(db *goqu.Database, log *zap.Logger, secret string) *AuthController {
	return &AuthController{DB: db, Log: log, Secret: secret}
}

// Register creates a Member account. POST /auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	var signup models.UserSignup

	if err := c.ShouldBindJSON(&signup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	emailCount, err := ctrl.DB.From("users").Where(goqu.C("email").Eq(signup.Email)).Count()
	if err != nil {
		ctrl.Log.Error("failed to check email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	if emailCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already in use"})
		return
	}

	if signup.Cell_ID != nil {
		found, err := ctrl.cellExists(*signup.Cell_ID)
		if err != nil {
			ctrl.Log.Error("failed to check cell", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cell not found"})
			return
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(signup.Password), bcrypt.DefaultCost)
	if err != nil {
		ctrl.Log.Error("failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	var phone *string
	if signup.Phone != "" {
		phone = &signup.Phone
	}

	record := goqu.Record{
		"name":     signup.Name,
		"email":    signup.Email,
		"password": string(passwordHash),
		"phone":    phone,
		"role":     models.RoleMember,
		"status":   models.StatusActive,
		"cell_id":  signup.Cell_ID,
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
		if signup.Cell_ID == nil {
			return nil
		}
		link := goqu.Record{
			"user_id":      userID,
			"cell_id":      *signup.Cell_ID,
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
		Name:    signup.Name,
		Email:   signup.Email,
		Phone:   phone,
		Role:    models.RoleMember,
		Status:  models.StatusActive,
		Cell_ID: signup.Cell_ID,
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login exchanges credentials for a signed bearer token. POST /auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var login models.Login

	if err := c.ShouldBindJSON(&login); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	found, err := ctrl.DB.From("users").Where(goqu.C("email").Eq(login.Email)).ScanStruct(&user)
	if err != nil {
		ctrl.Log.Error("failed to fetch user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(login.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	claims := jwt.MapClaims{
		"id":    user.User_ID,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ctrl.Secret))
	if err != nil {
		ctrl.Log.Error("failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Verify resolves the caller's token back to a live user. GET /auth/verify
func (ctrl *AuthController) Verify(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ctrl *AuthController) cellExists(cellID int) (bool, error) {
	count, err := ctrl.DB.From("cells").Where(goqu.C("cell_id").Eq(cellID)).Count()
	return count > 0, err
}
