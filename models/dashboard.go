package models

// Dashboard shapes are read-side aggregations; nothing here is persisted.

type RoleCount struct {
	Role  Role  `json:"role" db:"role"`
	Count int64 `json:"count" db:"count"`
}

type PastorDashboard struct {
	TotalUsers int64       `json:"totalUsers"`
	TotalCells int64       `json:"totalCells"`
	RoleCounts []RoleCount `json:"roleCounts"`
}

// SupervisorSummary is one row of a Coordinator's view: a supervisor they
// coordinate with cell and member totals.
type SupervisorSummary struct {
	User_ID     int    `json:"userId" db:"user_id"`
	Name        string `json:"name" db:"name"`
	CellCount   int64  `json:"cellCount" db:"cell_count"`
	MemberCount int64  `json:"memberCount" db:"member_count"`
}

// CellSummary is one row of a Supervisor's view: a cell they supervise with
// its leader and member count.
type CellSummary struct {
	Cell_ID     int     `json:"cellId" db:"cell_id"`
	Number      string  `json:"number" db:"number"`
	Name        *string `json:"name" db:"name"`
	LeaderName  *string `json:"leaderName" db:"leader_name"`
	MemberCount int64   `json:"memberCount" db:"member_count"`
}

type MemberDashboard struct {
	Cell       *Cell   `json:"cell"`
	LeaderName *string `json:"leaderName"`
}
