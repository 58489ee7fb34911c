package model

// Permissions granted to each role. Partners get everything.
const (
	PermAssignTask       = "assign_task"
	PermViewReports      = "view_reports"
	PermExportReports    = "export_reports"
	PermManageCompliance = "manage_compliance"
	PermViewStaff        = "view_staff"
	PermAnnounce         = "announce"
)

var rolePermissions = map[string][]string{
	RolePartner: {PermAssignTask, PermViewReports, PermExportReports, PermManageCompliance, PermViewStaff, PermAnnounce},
	RoleStaff:   {},
	RoleArticle: {},
}

func HasPermission(role, perm string) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// PermissionsFor returns a copy of the permissions granted to role.
func PermissionsFor(role string) []string {
	return append([]string{}, rolePermissions[role]...)
}
