package controllers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/CellHub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateCode tests the verification code format
func TestGenerateCode(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 20; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

// TestResetTokenRoundTrip tests that a signed reset token parses back
func TestResetTokenRoundTrip(t *testing.T) {
	ctrl := &PasswordResetController{Secret: "test-secret"}

	token, err := ctrl.signResetToken(42)
	require.NoError(t, err)

	userID, ok := ctrl.parseResetToken(token)
	assert.True(t, ok)
	assert.Equal(t, 42, userID)
}

// TestParseResetTokenRejectsLoginTokens tests that an ordinary auth token
// cannot be used for the reset step
func TestParseResetTokenRejectsLoginTokens(t *testing.T) {
	resetCtrl := &PasswordResetController{Secret: "test-secret"}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", func() string {
			other := &PasswordResetController{Secret: "other-secret"}
			token, _ := other.signResetToken(42)
			return token
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := resetCtrl.parseResetToken(tt.token)
			assert.False(t, ok)
		})
	}
}

// TestVerifyResetCode tests the code verification step
func TestVerifyResetCode(t *testing.T) {
	tests := []struct {
		name           string
		userFound      bool
		tokenFound     bool
		attempts       int
		expectedStatus int
		expectToken    bool
		expectedError  string
	}{
		{
			name:           "valid code yields a reset token",
			userFound:      true,
			tokenFound:     true,
			attempts:       0,
			expectedStatus: http.StatusOK,
			expectToken:    true,
		},
		{
			name:           "too many attempts",
			userFound:      true,
			tokenFound:     true,
			attempts:       3,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Maximum verification attempts exceeded. Please request a new code.",
		},
		{
			name:           "expired or wrong code",
			userFound:      true,
			tokenFound:     false,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid or expired verification code",
		},
		{
			name:           "unknown email",
			userFound:      false,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid email or verification code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			db, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			c, w := SetupTestContext()
			SetJSONRequest(c, "POST", "/auth/verify-reset-code", models.VerifyResetCodeRequest{
				Email: "ana@example.com",
				Code:  "123456",
			})

			if tt.userFound {
				mock.ExpectQuery(`SELECT .* FROM "users"`).
					WillReturnRows(userRows(MockUser()))
			} else {
				mock.ExpectQuery(`SELECT .* FROM "users"`).
					WillReturnRows(userRows())
			}

			if tt.userFound {
				tokenRows := sqlmock.NewRows([]string{
					"password_reset_token_id", "user_id", "code",
					"expires_at", "used", "attempts", "created_at",
				})
				if tt.tokenFound {
					tokenRows.AddRow(1, 1, "123456", time.Now().Add(10*time.Minute), false, tt.attempts, time.Now())
				}
				mock.ExpectQuery(`SELECT .* FROM "password_reset_tokens"`).
					WillReturnRows(tokenRows)
			}

			if tt.tokenFound && tt.attempts < maxCodeAttempts {
				mock.ExpectExec(`UPDATE "password_reset_tokens"`).
					WillReturnResult(sqlmock.NewResult(0, 1))
			}

			ctrl := NewPasswordResetController(db, testLogger(), nil, "test-secret")

			// Execute
			ctrl.VerifyResetCode(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			if tt.expectToken {
				assert.NotEmpty(t, response["token"])
			} else {
				assert.Equal(t, tt.expectedError, response["error"])
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestResetPassword tests the final reset step
func TestResetPassword(t *testing.T) {
	signed := func(secret string, userID int) string {
		ctrl := &PasswordResetController{Secret: secret}
		token, _ := ctrl.signResetToken(userID)
		return token
	}

	tests := []struct {
		name           string
		token          string
		rowsAffected   int64
		expectUpdate   bool
		expectedStatus int
	}{
		{
			name:           "resets the password",
			token:          signed("test-secret", 1),
			rowsAffected:   1,
			expectUpdate:   true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "rejects a forged token",
			token:          signed("other-secret", 1),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "token for a deleted user",
			token:          signed("test-secret", 99),
			rowsAffected:   0,
			expectUpdate:   true,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			c, w := SetupTestContext()
			SetJSONRequest(c, "POST", "/auth/reset-password", models.ResetPasswordRequest{
				Token:        tt.token,
				New_Password: "newpassword123",
			})

			if tt.expectUpdate {
				mock.ExpectExec(`UPDATE "users"`).
					WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
				if tt.rowsAffected > 0 {
					mock.ExpectExec(`UPDATE "password_reset_tokens"`).
						WillReturnResult(sqlmock.NewResult(0, 1))
				}
			}

			ctrl := NewPasswordResetController(db, testLogger(), nil, "test-secret")
			ctrl.ResetPassword(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestForgotPasswordUnknownEmail tests that account existence never leaks
func TestForgotPasswordUnknownEmail(t *testing.T) {
	db, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	c, w := SetupTestContext()
	SetJSONRequest(c, "POST", "/auth/forgot-password", models.ForgotPasswordRequest{
		Email: "ghost@example.com",
	})

	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(userRows())

	ctrl := NewPasswordResetController(db, testLogger(), nil, "test-secret")
	ctrl.ForgotPassword(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "If this email exists, a verification code has been sent.", response["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
