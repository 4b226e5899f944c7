package controllers

import (
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/CellHub/models"
	"golang.org/x/crypto/bcrypt"
)

// Test fixture data for use in tests

// MockUser creates a sample Member for testing
func MockUser() models.User {
	phone := "11999990000"
	cellID := 1
	return models.User{
		User_ID:         1,
		Name:            "Ana Souza",
		Email:           "ana@example.com",
		Phone:           &phone,
		Role:            models.RoleMember,
		Status:          models.StatusActive,
		Cell_ID:         &cellID,
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}

// MockUserWithPassword creates a sample Member with a bcrypt hashed password
// Password is "password123" - use this in tests
func MockUserWithPassword() models.User {
	user := MockUser()
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user.Password = string(hashedPassword)
	return user
}

// MockLeaderUser creates a sample Leader for testing
func MockLeaderUser() models.User {
	phone := "11988880000"
	cellID := 1
	return models.User{
		User_ID:         2,
		Name:            "Bruno Lima",
		Email:           "bruno@example.com",
		Phone:           &phone,
		Role:            models.RoleLeader,
		Status:          models.StatusActive,
		Cell_ID:         &cellID,
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}

// MockPastorUser creates a sample Pastor for testing
func MockPastorUser() models.User {
	phone := "11977770000"
	return models.User{
		User_ID:         3,
		Name:            "Carlos Dias",
		Email:           "carlos@example.com",
		Phone:           &phone,
		Role:            models.RolePastor,
		Status:          models.StatusActive,
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}

// MockCell creates a sample cell for testing
func MockCell() models.Cell {
	name := "Célula 1"
	leaderID := 2
	return models.Cell{
		Cell_ID:         1,
		Number:          "1",
		Name:            &name,
		Leader_ID:       &leaderID,
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}

// userRows builds the sqlmock row set a SELECT on users would return
func userRows(users ...models.User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"user_id", "name", "email", "password", "phone",
		"role", "status", "cell_id", "datetime_create", "datetime_update",
	})
	for _, u := range users {
		rows.AddRow(
			u.User_ID, u.Name, u.Email, u.Password, u.Phone,
			string(u.Role), u.Status, u.Cell_ID, u.Datetime_Create, u.Datetime_Update,
		)
	}
	return rows
}

// prayerRequestRows builds the sqlmock row set a SELECT on prayer_requests would return
func prayerRequestRows(requests ...models.PrayerRequest) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"prayer_request_id", "user_id", "title", "description", "category",
		"urgency", "status", "is_anonymous", "is_public", "prayer_count",
		"datetime_create", "datetime_update",
	})
	for _, r := range requests {
		rows.AddRow(
			r.Prayer_Request_ID, r.User_ID, r.Title, r.Description, r.Category,
			r.Urgency, r.Status, r.Is_Anonymous, r.Is_Public, r.Prayer_Count,
			r.Datetime_Create, r.Datetime_Update,
		)
	}
	return rows
}

// MockPrayerRequest creates a sample public prayer request owned by MockUser
func MockPrayerRequest() models.PrayerRequest {
	return models.PrayerRequest{
		Prayer_Request_ID: 1,
		User_ID:           1,
		Title:             "Pela minha família",
		Description:       "Oração pela saúde da minha mãe",
		Category:          "health",
		Urgency:           "normal",
		Status:            "active",
		Is_Anonymous:      false,
		Is_Public:         true,
		Prayer_Count:      0,
		Datetime_Create:   time.Now(),
		Datetime_Update:   time.Now(),
	}
}
