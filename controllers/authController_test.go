package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/CellHub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegister tests the Register endpoint
func TestRegister(t *testing.T) {
	cellID := 1

	tests := []struct {
		name           string
		requestBody    models.UserSignup
		emailCount     int64
		linkFails      bool
		expectedStatus int
		expectedError  string
	}{
		{
			name: "successful registration without cell",
			requestBody: models.UserSignup{
				Name:     "Ana Souza",
				Email:    "ana@example.com",
				Password: "password123",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "successful registration with cell",
			requestBody: models.UserSignup{
				Name:     "Ana Souza",
				Email:    "ana@example.com",
				Password: "password123",
				Cell_ID:  &cellID,
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			requestBody: models.UserSignup{
				Name:     "Ana Souza",
				Email:    "ana@example.com",
				Password: "password123",
			},
			emailCount:     1,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Email already in use",
		},
		{
			name: "membership link failure rolls the user back",
			requestBody: models.UserSignup{
				Name:     "Ana Souza",
				Email:    "ana@example.com",
				Password: "password123",
				Cell_ID:  &cellID,
			},
			linkFails:      true,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to create user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			db, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			c, w := SetupTestContext()
			SetJSONRequest(c, "POST", "/auth/register", tt.requestBody)

			mock.ExpectQuery("SELECT COUNT").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.emailCount))
			if tt.emailCount == 0 {
				if tt.requestBody.Cell_ID != nil {
					mock.ExpectQuery("SELECT COUNT").
						WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				}
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO "users"`).
					WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(1))
				switch {
				case tt.requestBody.Cell_ID == nil:
					mock.ExpectCommit()
				case tt.linkFails:
					mock.ExpectExec(`INSERT INTO "user_cells"`).
						WillReturnError(errors.New("connection reset"))
					mock.ExpectRollback()
				default:
					mock.ExpectExec(`INSERT INTO "user_cells"`).
						WillReturnResult(sqlmock.NewResult(1, 1))
					mock.ExpectCommit()
				}
			}

			ctrl := NewAuthController(db, testLogger(), "test-secret")

			// Execute
			ctrl.Register(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			require.NoError(t, err)

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, response["error"])
			} else {
				user := response["user"].(map[string]interface{})
				assert.Equal(t, tt.requestBody.Email, user["email"])
				assert.Equal(t, string(models.RoleMember), user["role"])
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestRegisterValidation tests binding failures on the Register endpoint
func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "missing name",
			body: map[string]interface{}{"email": "ana@example.com", "password": "password123"},
		},
		{
			name: "invalid email",
			body: map[string]interface{}{"name": "Ana", "email": "not-an-email", "password": "password123"},
		},
		{
			name: "short password",
			body: map[string]interface{}{"name": "Ana", "email": "ana@example.com", "password": "123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, cleanup := SetupTestDB(t)
			defer cleanup()

			c, w := SetupTestContext()
			SetJSONRequest(c, "POST", "/auth/register", tt.body)

			ctrl := NewAuthController(db, testLogger(), "test-secret")
			ctrl.Register(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// TestLogin tests the Login endpoint
func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    models.Login
		mockUser       *models.User
		expectedStatus int
		expectToken    bool
	}{
		{
			name: "successful login",
			requestBody: models.Login{
				Email:    "ana@example.com",
				Password: "password123",
			},
			mockUser:       userPtr(MockUserWithPassword()),
			expectedStatus: http.StatusOK,
			expectToken:    true,
		},
		{
			name: "wrong password",
			requestBody: models.Login{
				Email:    "ana@example.com",
				Password: "wrongpassword",
			},
			mockUser:       userPtr(MockUserWithPassword()),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown email",
			requestBody: models.Login{
				Email:    "ghost@example.com",
				Password: "password123",
			},
			mockUser:       nil,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			db, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			c, w := SetupTestContext()
			SetJSONRequest(c, "POST", "/auth/login", tt.requestBody)

			if tt.mockUser != nil {
				mock.ExpectQuery(`SELECT .* FROM "users"`).
					WillReturnRows(userRows(*tt.mockUser))
			} else {
				mock.ExpectQuery(`SELECT .* FROM "users"`).
					WillReturnRows(userRows())
			}

			ctrl := NewAuthController(db, testLogger(), "test-secret")

			// Execute
			ctrl.Login(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			require.NoError(t, err)

			if tt.expectToken {
				assert.NotEmpty(t, response["token"])
				assert.NotNil(t, response["user"])
			} else {
				assert.Equal(t, "Invalid email or password", response["error"])
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestVerify tests the Verify endpoint
func TestVerify(t *testing.T) {
	db, _, cleanup := SetupTestDB(t)
	defer cleanup()

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockUser())

	ctrl := NewAuthController(db, testLogger(), "test-secret")
	ctrl.Verify(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	user := response["user"].(map[string]interface{})
	assert.Equal(t, "ana@example.com", user["email"])
}

func userPtr(u models.User) *models.User {
	return &u
}
