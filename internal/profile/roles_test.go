package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want AccessRole
	}{
		{"admin", RoleAdmin},
		{"ADMIN", RoleAdmin},
		{"Admin", RoleAdmin},
		{"super admin", RoleSuperAdmin},
		{"building manager", RoleBuildingManager},
		{"hr", RoleHR},
		{"hq", RoleHQ},
		{"lead", RoleLead},
		{"supervisor", RoleSupervisor},
		{"worker", RoleWorker},
		{"  Worker  ", RoleWorker},
		// anything outside the closed set falls back to Worker
		{"CEO", RoleWorker},
		{"", RoleWorker},
		{"admin2", RoleWorker},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, SanitizeRole(c.in), "input %q", c.in)
	}
}
