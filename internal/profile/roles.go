package profile

import "strings"

// AccessRole is the closed role set shown across the dashboard.
type AccessRole string

const (
	RoleWorker          AccessRole = "Worker"
	RoleLead            AccessRole = "Lead"
	RoleSupervisor      AccessRole = "Supervisor"
	RoleBuildingManager AccessRole = "Building Manager"
	RoleHR              AccessRole = "HR"
	RoleHQ              AccessRole = "HQ"
	RoleAdmin           AccessRole = "Admin"
	RoleSuperAdmin      AccessRole = "Super Admin"
)

var Roles = []AccessRole{
	RoleWorker,
	RoleLead,
	RoleSupervisor,
	RoleBuildingManager,
	RoleHR,
	RoleHQ,
	RoleAdmin,
	RoleSuperAdmin,
}

// SanitizeRole maps free-form role text onto the closed set,
// case-insensitive. Unknown or empty input falls back to Worker
// (least privilege).
func SanitizeRole(s string) AccessRole {
	t := strings.TrimSpace(s)
	for _, r := range Roles {
		if strings.EqualFold(string(r), t) {
			return r
		}
	}
	return RoleWorker
}
