package models

import "time"

// Dependent is a child or dependent record, scoped strictly to its owner.
type Dependent struct {
	Dependent_ID    int       `json:"dependentId" goqu:"skipinsert"`
	User_ID         int       `json:"userId"`
	Full_Name       string    `json:"fullName"`
	Birth_Date      *string   `json:"birthDate"`
	Gender          *string   `json:"gender"`
	Observations    *string   `json:"observations"`
	Datetime_Create time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
}

type DependentCreate struct {
	Full_Name    string  `json:"fullName" binding:"required"`
	Birth_Date   string  `json:"birthDate" binding:"required"`
	Gender       string  `json:"gender" binding:"required,oneof=M F"`
	Observations *string `json:"observations"`
}

type DependentUpdate struct {
	Full_Name    *string `json:"fullName"`
	Birth_Date   *string `json:"birthDate"`
	Gender       *string `json:"gender" binding:"omitempty,oneof=M F"`
	Observations *string `json:"observations"`
}
