package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		min      Role
		expected bool
	}{
		{"member is at least member", RoleMember, RoleMember, true},
		{"member is not a leader", RoleMember, RoleLeader, false},
		{"leader is at least member", RoleLeader, RoleMember, true},
		{"supervisor is not a pastor", RoleSupervisor, RolePastor, false},
		{"pastor is at least leader", RolePastor, RoleLeader, true},
		{"admin outranks pastor", RoleAdmin, RolePastor, true},
		{"unknown role never qualifies", Role("Bishop"), RoleMember, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.AtLeast(tt.min))
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleMember, RoleLeader, RoleSupervisor, RoleCoordinator, RolePastor, RoleAdmin} {
		assert.True(t, role.Valid(), string(role))
	}

	assert.False(t, Role("").Valid())
	assert.False(t, Role("Bishop").Valid())
	assert.False(t, Role("member").Valid(), "roles are case sensitive")
}
