package models

import "time"

type User struct {
	User_ID         int       `json:"userId" goqu:"skipinsert"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Password        string    `json:"-"`
	Phone           *string   `json:"phone"`
	Role            Role      `json:"role"`
	Status          string    `json:"status"`
	Cell_ID         *int      `json:"cellId"`
	Datetime_Create time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
}

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// UserSignup is the public self-registration body. New accounts are always
// plain Members.
type UserSignup struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Cell_ID  *int   `json:"cellId"`
}

type Login struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserCreate is the admin-side creation body, which may set role and status.
type UserCreate struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Phone    *string `json:"phone"`
	Role     Role    `json:"role" binding:"omitempty,oneof=Member Leader Supervisor Coordinator Pastor Admin"`
	Status   string  `json:"status" binding:"omitempty,oneof=Active Inactive"`
	Cell_ID  *int    `json:"cellId"`
}

type UserUpdate struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Phone  *string `json:"phone"`
	Role   *Role   `json:"role" binding:"omitempty,oneof=Member Leader Supervisor Coordinator Pastor Admin"`
	Status *string `json:"status" binding:"omitempty,oneof=Active Inactive"`
}

type PasswordChange struct {
	New_Password string `json:"newPassword" binding:"required,min=6"`
}
