package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/CellHub/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupTestDB creates a mock database ready to inject into a controller
func SetupTestDB(t *testing.T) (*goqu.Database, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	goquDB := goqu.New("postgres", db)

	cleanup := func() {
		db.Close()
	}

	return goquDB, mock, cleanup
}

// SetupTestContext creates a test Gin context with a response recorder
func SetupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

// SetAuthenticatedUser sets the currentUser value in the Gin context
// This simulates what the CheckAuth middleware does
func SetAuthenticatedUser(c *gin.Context, user models.User) {
	c.Set("currentUser", user)
}

// SetJSONRequest attaches a JSON body to the test context's request
func SetJSONRequest(c *gin.Context, method, url string, body interface{}) {
	data, _ := json.Marshal(body)
	c.Request = httptest.NewRequest(method, url, bytes.NewBuffer(data))
	c.Request.Header.Set("Content-Type", "application/json")
}

// testLogger discards everything; controller tests assert on responses, not logs
func testLogger() *zap.Logger {
	return zap.NewNop()
}
