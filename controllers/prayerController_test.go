package controllers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMondayOf tests the week-start helper
func TestMondayOf(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"wednesday maps to its monday", "2024-01-10", "2024-01-08"},
		{"monday maps to itself", "2024-01-08", "2024-01-08"},
		{"sunday belongs to the previous week", "2024-01-14", "2024-01-08"},
		{"saturday maps to its monday", "2024-01-13", "2024-01-08"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, err := time.Parse(dateLayout, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mondayOf(day).Format(dateLayout))
		})
	}
}

// TestLogPrayer tests the daily check-in endpoint
func TestLogPrayer(t *testing.T) {
	tests := []struct {
		name           string
		existingCount  int64
		expectInsert   bool
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "first check-in of the day",
			existingCount:  0,
			expectInsert:   true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "second check-in is a conflict",
			existingCount:  1,
			expectedStatus: http.StatusConflict,
			expectedError:  "You have already prayed today",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			db, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockUser())

			mock.ExpectQuery("SELECT COUNT").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.existingCount))
			if tt.expectInsert {
				mock.ExpectQuery(`INSERT INTO "prayer_logs"`).
					WillReturnRows(sqlmock.NewRows([]string{"prayer_log_id"}).AddRow(42))
			}

			ctrl := NewPrayerController(db, testLogger())

			// Execute
			ctrl.LogPrayer(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, response["error"])
			} else {
				assert.Equal(t, float64(42), response["id"])
				assert.Equal(t, today(), response["date"])
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestStatusToday tests the check-in status endpoint
func TestStatusToday(t *testing.T) {
	tests := []struct {
		name          string
		count         int64
		alreadyPrayed bool
	}{
		{"already prayed", 1, true},
		{"not yet prayed", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockUser())

			mock.ExpectQuery("SELECT COUNT").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))

			ctrl := NewPrayerController(db, testLogger())
			ctrl.StatusToday(c)

			assert.Equal(t, http.StatusOK, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.alreadyPrayed, response["alreadyPrayed"])
			assert.Equal(t, today(), response["date"])
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestStats tests the caller's rollup endpoint
func TestStats(t *testing.T) {
	db, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockUser())

	// today, weekly, monthly, yearly, total
	counts := []int64{1, 3, 10, 80, 120}
	for _, n := range counts {
		mock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
	}

	ctrl := NewPrayerController(db, testLogger())
	ctrl.Stats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["prayedToday"])
	assert.Equal(t, float64(3), response["weeklyCount"])
	assert.Equal(t, float64(10), response["monthlyCount"])
	assert.Equal(t, float64(80), response["yearlyCount"])
	assert.Equal(t, float64(120), response["totalCount"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestStatsForUser tests the permission gate on reading another user's stats
func TestStatsForUser(t *testing.T) {
	tests := []struct {
		name           string
		paramID        string
		userExists     bool
		expectQueries  bool
		expectedStatus int
	}{
		{
			name:           "member cannot read another user's stats",
			paramID:        "9",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "member can read their own stats",
			paramID:        "1",
			userExists:     true,
			expectQueries:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid id is 400",
			paramID:        "abc",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockUser())
			c.Params = gin.Params{{Key: "user_id", Value: tt.paramID}}

			if tt.expectQueries {
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				for i := 0; i < 5; i++ {
					mock.ExpectQuery("SELECT COUNT").
						WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				}
			}

			ctrl := NewPrayerController(db, testLogger())
			ctrl.StatsForUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestStatsForUserUnknownTarget tests that a leader asking about a missing user gets 404
func TestStatsForUserUnknownTarget(t *testing.T) {
	db, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockLeaderUser())
	c.Params = gin.Params{{Key: "user_id", Value: "99"}}

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ctrl := NewPrayerController(db, testLogger())
	ctrl.StatsForUser(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
