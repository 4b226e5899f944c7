package models

import "time"

// UserCell links a user to a cell. The (user, cell) pair is unique.
type UserCell struct {
	User_Cell_ID    int       `json:"userCellId" goqu:"skipinsert"`
	User_ID         int       `json:"userId"`
	Cell_ID         int       `json:"cellId"`
	Role_In_Cell    string    `json:"roleInCell"`
	Datetime_Create time.Time `json:"datetimeCreate" goqu:"skipinsert"`
}

type CellAssignment struct {
	User_ID      int    `json:"userId" binding:"required"`
	Role_In_Cell string `json:"roleInCell" binding:"required,oneof=Leader Member"`
}

// CellReassignment moves a user to a new cell, or out of any cell when
// cellId is null.
type CellReassignment struct {
	Cell_ID      *int   `json:"cellId"`
	Role_In_Cell string `json:"roleInCell" binding:"omitempty,oneof=Leader Member"`
}
