package models

import "time"

type PasswordResetToken struct {
	Password_Reset_Token_ID int       `json:"-" goqu:"skipinsert"`
	User_ID                 int       `json:"userId"`
	Code                    string    `json:"-"`
	Expires_At              time.Time `json:"expiresAt"`
	Used                    bool      `json:"used"`
	Attempts                int       `json:"attempts"`
	Created_At              time.Time `json:"createdAt" goqu:"skipinsert"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyResetCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type ResetPasswordRequest struct {
	Token        string `json:"token" binding:"required"`
	New_Password string `json:"newPassword" binding:"required,min=6"`
}
