package models

// Role is the global hierarchy position of a user. Comparisons go through
// AtLeast so handlers never chain string equality checks.
type Role string

const (
	RoleMember      Role = "Member"
	RoleLeader      Role = "Leader"
	RoleSupervisor  Role = "Supervisor"
	RoleCoordinator Role = "Coordinator"
	RolePastor      Role = "Pastor"
	RoleAdmin       Role = "Admin"
)

var roleLevels = map[Role]int{
	RoleMember:      0,
	RoleLeader:      1,
	RoleSupervisor:  2,
	RoleCoordinator: 3,
	RolePastor:      4,
	RoleAdmin:       5,
}

func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// AtLeast reports whether r sits at or above min in the hierarchy.
// Unknown roles never qualify.
func (r Role) AtLeast(min Role) bool {
	level, ok := roleLevels[r]
	if !ok {
		return false
	}
	return level >= roleLevels[min]
}

// Role-in-cell values for membership links, distinct from the global Role.
const (
	CellRoleLeader = "Leader"
	CellRoleMember = "Member"
)
