package controllers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/CellHub/models"
	"github.com/CellHub/services"
	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	resetCodeTTL    = 15 * time.Minute
	resetTokenTTL   = 5 * time.Minute
	maxCodeAttempts = 3
)

type PasswordResetController struct {
	DB     *goqu.Database
	Log    *zap.Logger
	Email  *services.EmailService
	Secret string
}

func NewPasswordResetController(db *goqu.Database, log *zap.Logger, email *services.EmailService, secret string) *PasswordResetController {
	return &PasswordResetController{DB: db, Log: log, Email: email, Secret: secret}
}

// ForgotPassword emails a 6-digit code. The response is identical whether or
// not the email exists, so the endpoint can't be used to probe accounts.
// POST /auth/forgot-password
func (ctrl *PasswordResetController) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email address is required"})
		return
	}

	genericResponse := gin.H{"message": "If this email exists, a verification code has been sent."}

	var user models.User
	found, err := ctrl.DB.From("users").Where(goqu.C("email").Eq(req.Email)).ScanStruct(&user)
	if err != nil || !found {
		c.JSON(http.StatusOK, genericResponse)
		return
	}

	code, err := generateCode()
	if err != nil {
		ctrl.Log.Error("failed to generate verification code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password reset request"})
		return
	}

	token := models.PasswordResetToken{
		User_ID:    user.User_ID,
		Code:       code,
		Expires_At: time.Now().Add(resetCodeTTL),
	}
	if _, err := ctrl.DB.Insert("password_reset_tokens").Rows(token).Executor().Exec(); err != nil {
		ctrl.Log.Error("failed to store reset token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password reset request"})
		return
	}

	if !ctrl.Email.Available() {
		ctrl.Log.Warn("password reset requested but email service unavailable")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Email service unavailable"})
		return
	}

	if err := ctrl.Email.SendPasswordResetEmail(user.Email, code, user.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	c.JSON(http.StatusOK, genericResponse)
}

// VerifyResetCode checks the emailed code and hands back a short-lived token
// for the final reset step. POST /auth/verify-reset-code
func (ctrl *PasswordResetController) VerifyResetCode(c *gin.Context) {
	var req models.VerifyResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and 6-digit code are required"})
		return
	}

	var user models.User
	found, err := ctrl.DB.From("users").Where(goqu.C("email").Eq(req.Email)).ScanStruct(&user)
	if err != nil || !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or verification code"})
		return
	}

	var token models.PasswordResetToken
	found, err = ctrl.DB.From("password_reset_tokens").
		Where(
			goqu.C("user_id").Eq(user.User_ID),
			goqu.C("code").Eq(req.Code),
			goqu.C("used").Eq(false),
			goqu.C("expires_at").Gt(time.Now()),
		).
		Order(goqu.C("created_at").Desc()).
		ScanStruct(&token)
	if err != nil || !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired verification code"})
		return
	}

	if token.Attempts >= maxCodeAttempts {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Maximum verification attempts exceeded. Please request a new code."})
		return
	}

	_, err = ctrl.DB.Update("password_reset_tokens").
		Set(goqu.Record{"attempts": token.Attempts + 1}).
		Where(goqu.C("password_reset_token_id").Eq(token.Password_Reset_Token_ID)).
		Executor().Exec()
	if err != nil {
		ctrl.Log.Warn("failed to update attempt count", zap.Error(err))
	}

	resetToken, err := ctrl.signResetToken(user.User_ID)
	if err != nil {
		ctrl.Log.Error("failed to sign reset token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code is valid", "token": resetToken})
}

// ResetPassword sets a new password using the token from VerifyResetCode.
// POST /auth/reset-password
func (ctrl *PasswordResetController) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token and new password are required"})
		return
	}

	userID, ok := ctrl.parseResetToken(req.Token)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.New_Password), bcrypt.DefaultCost)
	if err != nil {
		ctrl.Log.Error("failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	result, err := ctrl.DB.Update("users").
		Set(goqu.Record{"password": string(passwordHash), "datetime_update": time.Now()}).
		Where(goqu.C("user_id").Eq(userID)).
		Executor().Exec()
	if err != nil {
		ctrl.Log.Error("failed to update password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}
	if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	_, err = ctrl.DB.Update("password_reset_tokens").
		Set(goqu.Record{"used": true}).
		Where(goqu.C("user_id").Eq(userID)).
		Executor().Exec()
	if err != nil {
		ctrl.Log.Warn("failed to mark reset tokens used", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully. You can now log in with your new password."})
}

func (ctrl *PasswordResetController) signResetToken(userID int) (string, error) {
	claims := jwt.MapClaims{
		"id":      userID,
		"purpose": "password_reset",
		"exp":     time.Now().Add(resetTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ctrl.Secret))
}

func (ctrl *PasswordResetController) parseResetToken(tokenString string) (int, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ctrl.Secret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["purpose"] != "password_reset" {
		return 0, false
	}

	id, ok := claims["id"].(float64)
	if !ok {
		return 0, false
	}
	return int(id), true
}

// generateCode returns a cryptographically random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
