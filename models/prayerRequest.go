package models

import "time"

type PrayerRequest struct {
	Prayer_Request_ID int       `json:"prayerRequestId" goqu:"skipinsert"`
	User_ID           int       `json:"userId"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	Urgency           string    `json:"urgency"`
	Status            string    `json:"status"`
	Is_Anonymous      bool      `json:"isAnonymous"`
	Is_Public         bool      `json:"isPublic"`
	Prayer_Count      int       `json:"prayerCount"`
	Datetime_Create   time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update   time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
}

// PublicPrayerRequest is a feed row with the author name resolved, or
// replaced with "Anônimo" for anonymous requests.
type PublicPrayerRequest struct {
	Prayer_Request_ID int       `json:"prayerRequestId"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	Urgency           string    `json:"urgency"`
	Is_Anonymous      bool      `json:"isAnonymous"`
	Prayer_Count      int       `json:"prayerCount"`
	Author_Name       string    `json:"authorName"`
	Datetime_Create   time.Time `json:"datetimeCreate"`
}

// PrayerRequestLog records that one user prayed for one request on one day.
// The (request, user, log_date) triple is unique.
type PrayerRequestLog struct {
	Prayer_Request_Log_ID int       `json:"prayerRequestLogId" goqu:"skipinsert"`
	Prayer_Request_ID     int       `json:"prayerRequestId"`
	User_ID               int       `json:"userId"`
	Log_Date              string    `json:"logDate"`
	Datetime_Create       time.Time `json:"datetimeCreate" goqu:"skipinsert"`
}

type PrayerRequestCreate struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Category     string `json:"category" binding:"required,oneof=health family work spiritual financial other"`
	Urgency      string `json:"urgency" binding:"omitempty,oneof=low normal high urgent"`
	Is_Anonymous bool   `json:"isAnonymous"`
	Is_Public    *bool  `json:"isPublic"`
}

type PrayerRequestUpdate struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Category     *string `json:"category" binding:"omitempty,oneof=health family work spiritual financial other"`
	Urgency      *string `json:"urgency" binding:"omitempty,oneof=low normal high urgent"`
	Status       *string `json:"status" binding:"omitempty,oneof=active answered canceled"`
	Is_Anonymous *bool   `json:"isAnonymous"`
	Is_Public    *bool   `json:"isPublic"`
}
