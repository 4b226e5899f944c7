package models

import "time"

type Cell struct {
	Cell_ID         int       `json:"cellId" goqu:"skipinsert"`
	Number          string    `json:"number"`
	Name            *string   `json:"name"`
	Description     *string   `json:"description"`
	Leader_ID       *int      `json:"leaderId"`
	Supervisor_ID   *int      `json:"supervisorId"`
	Coordinator_ID  *int      `json:"coordinatorId"`
	Datetime_Create time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
}

// CellPublic is the unauthenticated listing shape (registration page picker).
type CellPublic struct {
	Cell_ID int     `json:"cellId"`
	Number  string  `json:"number"`
	Name    *string `json:"name"`
}

type CellCreate struct {
	Number         string  `json:"number" binding:"required"`
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Leader_ID      *int    `json:"leaderId"`
	Supervisor_ID  *int    `json:"supervisorId"`
	Coordinator_ID *int    `json:"coordinatorId"`
}

// CellMember is one roster row: the linked user plus a few profile fields.
type CellMember struct {
	User_ID      int     `json:"userId"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	Role_In_Cell string  `json:"roleInCell"`
	Whatsapp     *string `json:"whatsapp"`
	Birth_Date   *string `json:"birthDate"`
}
