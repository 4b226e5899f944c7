package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CellHub/database"
	"github.com/CellHub/models"
	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

type CellController struct {
	DB  *goqu.Database
	Log *zap.Logger
}

func NewCellController(db *goqu.Database, log *zap.Logger) *CellController {
	return &CellController{DB: db, Log: log}
}

// normalizeCellNumber parses the human-facing number so "01" and "1" refer to
// the same cell.
func normalizeCellNumber(raw string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return "", false
	}
	return strconv.Itoa(n), true
}

// ListPublic serves the unauthenticated cell picker. GET /cells/public
func (ctrl *CellController) ListPublic(c *gin.Context) {
	var cells []models.CellPublic
	err := ctrl.DB.From("cells").
		Select("cell_id", "number", "name").
		Order(goqu.C("cell_id").Asc()).
		ScanStructs(&cells)
	if err != nil {
		ctrl.Log.Error("failed to fetch cells", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cells"})
		return
	}

	c.JSON(http.StatusOK, cells)
}

// List returns all cells. GET /cells
func (ctrl *CellController) List(c *gin.Context) {
	var cells []models.Cell
	err := ctrl.DB.From("cells").Order(goqu.C("cell_id").Asc()).ScanStructs(&cells)
	if err != nil {
		ctrl.Log.Error("failed to fetch cells", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cells"})
		return
	}

	c.JSON(http.StatusOK, cells)
}

// Get returns one cell. GET /cells/:cell_id
func (ctrl *CellController) Get(c *gin.Context) {
	cellID, err := strconv.Atoi(c.Param("cell_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cell ID"})
		return
	}

	var cell models.Cell
	found, err := ctrl.DB.From("cells").Where(goqu.C("cell_id").Eq(cellID)).ScanStruct(&cell)
	if err != nil {
		ctrl.Log.Error("failed to fetch cell", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cell"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cell not found"})
		return
	}

	c.JSON(http.StatusOK, cell)
}

// Create adds a cell with a normalized, unique number. POST /cells
func (ctrl *CellController) Create(c *gin.Context) {
	var body models.CellCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	number, ok := normalizeCellNumber(body.Number)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cell number must be numeric"})
		return
	}

	dupCount, err := ctrl.DB.From("cells").Where(goqu.C("number").Eq(number)).Count()
	if err != nil {
		ctrl.Log.Error("failed to check cell number", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cell"})
		return
	}
	if dupCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cell number already exists"})
		return
	}

	record := goqu.Record{
		"number":         number,
		"name":           body.Name,
		"description":    body.Description,
		"leader_id":      body.Leader_ID,
		"supervisor_id":  body.Supervisor_ID,
		"coordinator_id": body.Coordinator_ID,
	}

	var cellID int
	_, err = ctrl.DB.Insert("cells").Rows(record).Returning("cell_id").Executor().ScanVal(&cellID)
	if err != nil {
		ctrl.Log.Error("failed to insert cell", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cell"})
		return
	}

	cell := models.Cell{
		Cell_ID:        cellID,
		Number:         number,
		Name:           body.Name,
		Description:    body.Description,
		Leader_ID:      body.Leader_ID,
		Supervisor_ID:  body.Supervisor_ID,
		Coordinator_ID: body.Coordinator_ID,
	}

	c.JSON(http.StatusCreated, cell)
}

// Update edits a cell, keeping the normalized-number uniqueness. PUT /cells/:cell_id
func (ctrl *CellController) Update(c *gin.Context) {
	cellID, err := strconv.Atoi(c.Param("cell_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cell ID"})
		return
	}

	var body models.CellCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	number, ok := normalizeCellNumber(body.Number)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cell number must be numeric"})
		return
	}

	dupCount, err := ctrl.DB.From("cells").
		Where(goqu.C("number").Eq(number), goqu.C("cell_id").Neq(cellID)).
		Count()
	if err != nil {
		ctrl.Log.Error("failed to check cell number", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cell"})
		return
	}
	if dupCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cell number already exists"})
		return
	}

	update := ctrl.DB.Update("cells").
		Set(goqu.Record{
			"number":          number,
			"name":            body.Name,
			"description":     body.Description,
			"leader_id":       body.Leader_ID,
			"supervisor_id":   body.Supervisor_ID,
			"coordinator_id":  body.Coordinator_ID,
			"datetime_update": time.Now(),
		}).
		Where(goqu.C("cell_id").Eq(cellID))

	result, err := update.Executor().Exec()
	if err != nil {
		ctrl.Log.Error("failed to update cell", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cell"})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cell not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cell updated successfully"})
}

// Delete removes a cell and its membership links. Members keep their
// historical records; only the cell_id linkage is cleared. DELETE /cells/:cell_id
func (ctrl *CellController) Delete(c *gin.Context) {
	cellID, err := strconv.Atoi(c.Param("cell_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cell ID"})
		return
	}

	tx, err := ctrl.DB.Begin()
	if err != nil {
		ctrl.Log.Error("failed to begin transaction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cell"})
		return
	}

	var deleted int64
	err = tx.Wrap(func() error {
		result, err := tx.Delete("cells").Where(goqu.C("cell_id").Eq(cellID)).Executor().Exec()
		if err != nil {
			return err
		}
		deleted, _ = result.RowsAffected()
		if deleted == 0 {
			return nil
		}
		if _, err := tx.Delete("user_cells").Where(goqu.C("cell_id").Eq(cellID)).Executor().Exec(); err != nil {
			return err
		}
		_, err = tx.Update("users").
			Set(goqu.Record{"cell_id": nil}).
			Where(goqu.C("cell_id").Eq(cellID)).
			Executor().Exec()
		return err
	})
	if err != nil {
		ctrl.Log.Error("failed to delete cell", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cell"})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cell not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cell deleted successfully"})
}

// Members returns the roster, leader first then alphabetical. GET /cells/:cell_id/members
func (ctrl *CellController) Members(c *gin.Context) {
	cellID, err := strconv.Atoi(c.Param("cell_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cell ID"})
		return
	}

	var cell models.Cell
	found, err := ctrl.DB.From("cells").Where(goqu.C("cell_id").Eq(cellID)).ScanStruct(&cell)
	if err != nil {
		ctrl.Log.Error("failed to fetch cell", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cell"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cell not found"})
		return
	}

	var members []models.CellMember
	query := ctrl.DB.From("user_cells").
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
		Where(goqu.C("cell_id").Table("user_cells").Eq(cellID)).
		Order(
			goqu.L("CASE WHEN user_cells.role_in_cell = 'Leader' THEN 0 ELSE 1 END").Asc(),
			goqu.I("users.name").Asc(),
		)

	if err := query.ScanStructs(&members); err != nil {
		ctrl.Log.Error("failed to fetch members", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cell": cell, "members": members})
}

// AssignMember links a user to a cell. Assigning a Leader moves the cell's
// leader_id and clears any cell the user previously led. POST /cells/:cell_id/members
func (ctrl *CellController) AssignMember(c *gin.Context) {
	cellID, err := strconv.Atoi(c.Param("cell_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cell ID"})
		return
	}

	var body models.CellAssignment
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cellCount, err := ctrl.DB.From("cells").Where(goqu.C("cell_id").Eq(cellID)).Count()
	if err != nil {
		ctrl.Log.Error("failed to check cell", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign user"})
		return
	}
	if cellCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cell not found"})
		return
	}

	userCount, err := ctrl.DB.From("users").Where(goqu.C("user_id").Eq(body.User_ID)).Count()
	if err != nil {
		ctrl.Log.Error("failed to check user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign user"})
		return
	}
	if userCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	linkCount, err := ctrl.DB.From("user_cells").
		Where(goqu.C("user_id").Eq(body.User_ID), goqu.C("cell_id").Eq(cellID)).
		Count()
	if err != nil {
		ctrl.Log.Error("failed to check membership", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign user"})
		return
	}
	if linkCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is already assigned to this cell"})
		return
	}

	tx, err := ctrl.DB.Begin()
	if err != nil {
		ctrl.Log.Error("failed to begin transaction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign user"})
		return
	}

	err = tx.Wrap(func() error {
		link := goqu.Record{
			"user_id":      body.User_ID,
			"cell_id":      cellID,
			"role_in_cell": body.Role_In_Cell,
		}
		if _, err := tx.Insert("user_cells").Rows(link).Executor().Exec(); err != nil {
			return err
		}
		if _, err := tx.Update("users").
			Set(goqu.Record{"cell_id": cellID}).
			Where(goqu.C("user_id").Eq(body.User_ID)).
			Executor().Exec(); err != nil {
			return err
		}
		if body.Role_In_Cell == models.CellRoleLeader {
			if _, err := tx.Update("cells").
				Set(goqu.Record{"leader_id": nil}).
				Where(goqu.C("leader_id").Eq(body.User_ID), goqu.C("cell_id").Neq(cellID)).
				Executor().Exec(); err != nil {
				return err
			}
			if _, err := tx.Update("cells").
				Set(goqu.Record{"leader_id": body.User_ID}).
				Where(goqu.C("cell_id").Eq(cellID)).
				Executor().Exec(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Two concurrent assignments can both pass the pre-check; the
		// unique (user, cell) constraint settles it.
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User is already assigned to this cell"})
			return
		}
		ctrl.Log.Error("failed to assign user to cell", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User assigned to cell successfully"})
}

// Reassign moves a user to a new cell (or out of any cell) in one
// transaction: old links removed, stale leadership cleared, new link
// inserted. PUT /users/:user_id/cell
func (ctrl *CellController) Reassign(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var body models.CellReassignment
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roleInCell := body.Role_In_Cell
	if roleInCell == "" {
		roleInCell = models.CellRoleMember
	}

	userCount, err := ctrl.DB.From("users").Where(goqu.C("user_id").Eq(userID)).Count()
	if err != nil {
		ctrl.Log.Error("failed to check user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reassign user"})
		return
	}
	if userCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if body.Cell_ID != nil {
		cellCount, err := ctrl.DB.From("cells").Where(goqu.C("cell_id").Eq(*body.Cell_ID)).Count()
		if err != nil {
			ctrl.Log.Error("failed to check cell", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reassign user"})
			return
		}
		if cellCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cell not found"})
			return
		}
	}

	tx, err := ctrl.DB.Begin()
	if err != nil {
		ctrl.Log.Error("failed to begin transaction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reassign user"})
		return
	}

	err = tx.Wrap(func() error {
		if _, err := tx.Delete("user_cells").Where(goqu.C("user_id").Eq(userID)).Executor().Exec(); err != nil {
			return err
		}
		if _, err := tx.Update("cells").
			Set(goqu.Record{"leader_id": nil}).
			Where(goqu.C("leader_id").Eq(userID)).
			Executor().Exec(); err != nil {
			return err
		}
		if _, err := tx.Update("users").
			Set(goqu.Record{"cell_id": body.Cell_ID}).
			Where(goqu.C("user_id").Eq(userID)).
			Executor().Exec(); err != nil {
			return err
		}
		if body.Cell_ID == nil {
			return nil
		}
		link := goqu.Record{
			"user_id":      userID,
			"cell_id":      *body.Cell_ID,
			"role_in_cell": roleInCell,
		}
		if _, err := tx.Insert("user_cells").Rows(link).Executor().Exec(); err != nil {
			return err
		}
		if roleInCell == models.CellRoleLeader {
			if _, err := tx.Update("cells").
				Set(goqu.Record{"leader_id": userID}).
				Where(goqu.C("cell_id").Eq(*body.Cell_ID)).
				Executor().Exec(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User is already assigned to this cell"})
			return
		}
		ctrl.Log.Error("failed to reassign user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reassign user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User reassigned successfully"})
}
