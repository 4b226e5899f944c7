package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/CellHub/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetUser tests the visibility rules on reading a user
func TestGetUser(t *testing.T) {
	tests := []struct {
		name           string
		caller         models.User
		paramID        string
		expectQuery    bool
		found          bool
		expectedStatus int
	}{
		{
			name:           "member reads themselves",
			caller:         MockUser(),
			paramID:        "1",
			expectQuery:    true,
			found:          true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "member cannot read another user",
			caller:         MockUser(),
			paramID:        "2",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "leader reads another user",
			caller:         MockLeaderUser(),
			paramID:        "1",
			expectQuery:    true,
			found:          true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown user is 404",
			caller:         MockLeaderUser(),
			paramID:        "99",
			expectQuery:    true,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, tt.caller)
			c.Params = gin.Params{{Key: "user_id", Value: tt.paramID}}

			if tt.expectQuery {
				if tt.found {
					mock.ExpectQuery(`SELECT .* FROM "users"`).
						WillReturnRows(userRows(MockUser()))
				} else {
					mock.ExpectQuery(`SELECT .* FROM "users"`).
						WillReturnRows(userRows())
				}
			}

			ctrl := NewUserController(db, testLogger())
			ctrl.Get(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestCreateUser tests the admin-side creation endpoint
func TestCreateUser(t *testing.T) {
	db, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockPastorUser())
	SetJSONRequest(c, "POST", "/users", models.UserCreate{
		Name:     "Novo Líder",
		Email:    "lider@example.com",
		Password: "password123",
		Role:     models.RoleLeader,
	})

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(10))
	mock.ExpectCommit()

	ctrl := NewUserController(db, testLogger())
	ctrl.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	user := response["user"].(map[string]interface{})
	assert.Equal(t, float64(10), user["userId"])
	assert.Equal(t, string(models.RoleLeader), user["role"])
	assert.Equal(t, models.StatusActive, user["status"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCreateUserLinkFailure tests that a failed membership link insert
// rolls the whole creation back
func TestCreateUserLinkFailure(t *testing.T) {
	cellID := 1

	db, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockPastorUser())
	SetJSONRequest(c, "POST", "/users", models.UserCreate{
		Name:     "Novo Membro",
		Email:    "membro@example.com",
		Password: "password123",
		Cell_ID:  &cellID,
	})

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(10))
	mock.ExpectExec(`INSERT INTO "user_cells"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	ctrl := NewUserController(db, testLogger())
	ctrl.Create(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Failed to create user", response["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestUpdateUser tests the role-change gate
func TestUpdateUser(t *testing.T) {
	newName := "Ana Maria Souza"
	newRole := models.RoleLeader

	tests := []struct {
		name           string
		caller         models.User
		paramID        string
		body           models.UserUpdate
		expectUpdate   bool
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "user updates their own name",
			caller:         MockUser(),
			paramID:        "1",
			body:           models.UserUpdate{Name: &newName},
			expectUpdate:   true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "member cannot promote themselves",
			caller:         MockUser(),
			paramID:        "1",
			body:           models.UserUpdate{Role: &newRole},
			expectedStatus: http.StatusForbidden,
			expectedError:  "Only a pastor can change roles or status",
		},
		{
			name:           "member cannot edit another user",
			caller:         MockUser(),
			paramID:        "2",
			body:           models.UserUpdate{Name: &newName},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "pastor promotes a member",
			caller:         MockPastorUser(),
			paramID:        "1",
			body:           models.UserUpdate{Role: &newRole},
			expectUpdate:   true,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, tt.caller)
			c.Params = gin.Params{{Key: "user_id", Value: tt.paramID}}
			SetJSONRequest(c, "PUT", "/users/"+tt.paramID, tt.body)

			if tt.expectUpdate {
				mock.ExpectExec(`UPDATE "users"`).
					WillReturnResult(sqlmock.NewResult(0, 1))
			}

			ctrl := NewUserController(db, testLogger())
			ctrl.Update(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, tt.expectedError, response["error"])
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestChangePassword tests the password change permission rules
func TestChangePassword(t *testing.T) {
	tests := []struct {
		name           string
		caller         models.User
		paramID        string
		rowsAffected   int64
		expectUpdate   bool
		expectedStatus int
	}{
		{
			name:           "user changes their own password",
			caller:         MockUser(),
			paramID:        "1",
			rowsAffected:   1,
			expectUpdate:   true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "member cannot change another user's password",
			caller:         MockUser(),
			paramID:        "2",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "pastor resets any password",
			caller:         MockPastorUser(),
			paramID:        "1",
			rowsAffected:   1,
			expectUpdate:   true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown user is 404",
			caller:         MockPastorUser(),
			paramID:        "99",
			rowsAffected:   0,
			expectUpdate:   true,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, tt.caller)
			c.Params = gin.Params{{Key: "user_id", Value: tt.paramID}}
			SetJSONRequest(c, "PUT", "/users/"+tt.paramID+"/password", models.PasswordChange{
				New_Password: "newpassword123",
			})

			if tt.expectUpdate {
				mock.ExpectExec(`UPDATE "users"`).
					WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			}

			ctrl := NewUserController(db, testLogger())
			ctrl.ChangePassword(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestDeleteUser tests the cascading transactional delete
func TestDeleteUser(t *testing.T) {
	tests := []struct {
		name           string
		rowsDeleted    int64
		expectedStatus int
	}{
		{
			name:           "deletes user and scoped data",
			rowsDeleted:    1,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown user is 404",
			rowsDeleted:    0,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockPastorUser())
			c.Params = gin.Params{{Key: "user_id", Value: "1"}}

			mock.ExpectBegin()
			mock.ExpectExec(`DELETE FROM "users"`).
				WillReturnResult(sqlmock.NewResult(0, tt.rowsDeleted))
			if tt.rowsDeleted > 0 {
				// user_cells, profiles, dependents, prayer_logs,
				// prayer_request_logs, password_reset_tokens
				for i := 0; i < 6; i++ {
					mock.ExpectExec("DELETE FROM").
						WillReturnResult(sqlmock.NewResult(0, 1))
				}
				mock.ExpectQuery(`SELECT "prayer_request_id" FROM "prayer_requests"`).
					WillReturnRows(sqlmock.NewRows([]string{"prayer_request_id"}).AddRow(4))
				mock.ExpectExec(`DELETE FROM "prayer_request_logs"`).
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec(`DELETE FROM "prayer_requests"`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				// leader_id, supervisor_id, coordinator_id
				for i := 0; i < 3; i++ {
					mock.ExpectExec(`UPDATE "cells"`).
						WillReturnResult(sqlmock.NewResult(0, 0))
				}
			}
			mock.ExpectCommit()

			ctrl := NewUserController(db, testLogger())
			ctrl.Delete(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
