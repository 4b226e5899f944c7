package models

import "time"

// PrayerLog marks that a user completed their daily prayer on a calendar day.
// At most one row exists per (user, prayer_date).
type PrayerLog struct {
	Prayer_Log_ID   int       `json:"prayerLogId" goqu:"skipinsert"`
	User_ID         int       `json:"userId"`
	Prayer_Date     string    `json:"prayerDate"`
	Datetime_Create time.Time `json:"datetimeCreate" goqu:"skipinsert"`
}

type PrayerStatus struct {
	AlreadyPrayed bool   `json:"alreadyPrayed"`
	Date          string `json:"date"`
}

// PrayerStats are the rolling check-in counts. Weekly runs from the Monday of
// the current week, monthly from the 1st, yearly from Jan 1.
type PrayerStats struct {
	PrayedToday  bool  `json:"prayedToday"`
	WeeklyCount  int64 `json:"weeklyCount"`
	MonthlyCount int64 `json:"monthlyCount"`
	YearlyCount  int64 `json:"yearlyCount"`
	TotalCount   int64 `json:"totalCount"`
}
