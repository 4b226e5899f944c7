package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CellHub/models"
	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// DashboardController serves the role-conditional summary views. Everything
// here is read-only derivation over the other stores.
type DashboardController struct {
	DB  *goqu.Database
	Log *zap.Logger
}

func NewDashboardController(db *goqu.Database, log *zap.Logger) *DashboardController {
	return &DashboardController{DB: db, Log: log}
}

// Get dispatches on the caller's role. GET /dashboard
func (ctrl *DashboardController) Get(c *gin.Context) {
	user := c.MustGet("currentUser").(models.User)

	switch user.Role {
	case models.RolePastor, models.RoleAdmin:
		ctrl.pastorView(c)
	case models.RoleCoordinator:
		ctrl.coordinatorView(c, user)
	case models.RoleSupervisor:
		ctrl.supervisorView(c, user)
	case models.RoleLeader:
		ctrl.leaderView(c, user)
	default:
		ctrl.memberView(c, user)
	}
}

func (ctrl *DashboardController) pastorView(c *gin.Context) {
	totalUsers, err := ctrl.DB.From("users").Count()
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	totalCells, err := ctrl.DB.From("cells").Count()
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	var roleCounts []models.RoleCount
	err = ctrl.DB.From("users").
		Select(goqu.C("role"), goqu.COUNT("*").As("count")).
		GroupBy("role").
		ScanStructs(&roleCounts)
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PastorDashboard{
		TotalUsers: totalUsers,
		TotalCells: totalCells,
		RoleCounts: roleCounts,
	})
}

func (ctrl *DashboardController) coordinatorView(c *gin.Context, user models.User) {
	var supervisors []models.SupervisorSummary
	err := ctrl.DB.From("cells").
		Select(
			goqu.I("users.user_id"),
			goqu.I("users.name"),
			goqu.COUNT(goqu.DISTINCT(goqu.I("cells.cell_id"))).As("cell_count"),
			goqu.COUNT(goqu.I("user_cells.user_cell_id")).As("member_count"),
		).
		InnerJoin(
			goqu.T("users"),
			goqu.On(goqu.Ex{"users.user_id": goqu.I("cells.supervisor_id")}),
		).
		LeftJoin(
			goqu.T("user_cells"),
			goqu.On(goqu.Ex{"user_cells.cell_id": goqu.I("cells.cell_id")}),
		).
		Where(goqu.C("coordinator_id").Table("cells").Eq(user.User_ID)).
		GroupBy(goqu.I("users.user_id"), goqu.I("users.name")).
		Order(goqu.I("users.name").Asc()).
		ScanStructs(&supervisors)
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"supervisors": supervisors})
}

func (ctrl *DashboardController) supervisorView(c *gin.Context, user models.User) {
	var cells []models.CellSummary
	err := ctrl.DB.From("cells").
		Select(
			goqu.I("cells.cell_id"),
			goqu.I("cells.number"),
			goqu.I("cells.name"),
			goqu.I("leaders.name").As("leader_name"),
			goqu.COUNT(goqu.I("user_cells.user_cell_id")).As("member_count"),
		).
		LeftJoin(
			goqu.T("users").As("leaders"),
			goqu.On(goqu.Ex{"leaders.user_id": goqu.I("cells.leader_id")}),
		).
		LeftJoin(
			goqu.T("user_cells"),
			goqu.On(goqu.Ex{"user_cells.cell_id": goqu.I("cells.cell_id")}),
		).
		Where(goqu.C("supervisor_id").Table("cells").Eq(user.User_ID)).
		GroupBy(
			goqu.I("cells.cell_id"),
			goqu.I("cells.number"),
			goqu.I("cells.name"),
			goqu.I("leaders.name"),
		).
		Order(goqu.I("cells.cell_id").Asc()).
		ScanStructs(&cells)
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cells": cells})
}

func (ctrl *DashboardController) leaderView(c *gin.Context, user models.User) {
	var cell models.Cell
	found, err := ctrl.DB.From("cells").
		Where(goqu.C("leader_id").Eq(user.User_ID)).
		ScanStruct(&cell)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"cell": nil, "members": []models.CellMember{}})
		return
	}

	var members []models.CellMember
	err = ctrl.DB.From("user_cells").
		Select(
			goqu.I("users.user_id"),
			goqu.I("users.name"),
			goqu.I("users.email"),
			goqu.I("users.phone"),
			goqu.I("user_cells.role_in_cell"),
			goqu.I("profiles.whatsapp"),
			goqu.I("profiles.birth_date"),
		).
		InnerJoin(
			goqu.T("users"),
			goqu.On(goqu.Ex{"user_cells.user_id": goqu.I("users.user_id")}),
		).
		LeftJoin(
			goqu.T("profiles"),
			goqu.On(goqu.Ex{"profiles.user_id": goqu.I("users.user_id")}),
		).
		Where(goqu.C("cell_id").Table("user_cells").Eq(cell.Cell_ID)).
		Order(
			goqu.L("CASE WHEN user_cells.role_in_cell = 'Leader' THEN 0 ELSE 1 END").Asc(),
			goqu.I("users.name").Asc(),
		).
		ScanStructs(&members)
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cell": cell, "members": members})
}

func (ctrl *DashboardController) memberView(c *gin.Context, user models.User) {
	dashboard := models.MemberDashboard{}

	if user.Cell_ID != nil {
		var cell models.Cell
		found, err := ctrl.DB.From("cells").
			Where(goqu.C("cell_id").Eq(*user.Cell_ID)).
			ScanStruct(&cell)
		if err != nil {
			ctrl.fail(c, err)
			return
		}
		if found {
			dashboard.Cell = &cell
			if cell.Leader_ID != nil {
				var leaderName string
				found, err := ctrl.DB.From("users").
					Select("name").
					Where(goqu.C("user_id").Eq(*cell.Leader_ID)).
					ScanVal(&leaderName)
				if err != nil {
					ctrl.fail(c, err)
					return
				}
				if found {
					dashboard.LeaderName = &leaderName
				}
			}
		}
	}

	c.JSON(http.StatusOK, dashboard)
}

func (ctrl *DashboardController) fail(c *gin.Context, err error) {
	ctrl.Log.Error("failed to build dashboard", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
}
