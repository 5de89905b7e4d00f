package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionDashboardRead allows viewing stats and the activity log.
	PermissionDashboardRead Permission = "dashboard:read"

	// PermissionOperatorsRead allows viewing the operator list.
	PermissionOperatorsRead Permission = "operators:read"

	// PermissionOperatorsWrite allows creating and deleting operators.
	PermissionOperatorsWrite Permission = "operators:write"

	// PermissionContentAuthor allows creating news and events and editing own items.
	PermissionContentAuthor Permission = "content:author"

	// PermissionContentModerate allows editing news and events of any author.
	PermissionContentModerate Permission = "content:moderate"

	// PermissionCoursesWrite allows managing courses.
	PermissionCoursesWrite Permission = "courses:write"

	// PermissionCodesWrite allows managing admin-issued verification codes.
	PermissionCodesWrite Permission = "codes:write"

	// PermissionStudyWrite allows managing study categories, programs and updates.
	PermissionStudyWrite Permission = "study:write"

	// PermissionSettingsRead allows viewing application settings.
	PermissionSettingsRead Permission = "settings:read"

	// PermissionSettingsWrite allows editing application settings.
	PermissionSettingsWrite Permission = "settings:write"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionDashboardRead,
	PermissionOperatorsRead,
	PermissionOperatorsWrite,
	PermissionContentAuthor,
	PermissionContentModerate,
	PermissionCoursesWrite,
	PermissionCodesWrite,
	PermissionStudyWrite,
	PermissionSettingsRead,
	PermissionSettingsWrite,
}

var adminPermissions = []Permission{
	PermissionDashboardRead,
	PermissionOperatorsRead,
	PermissionContentAuthor,
	PermissionCoursesWrite,
	PermissionCodesWrite,
	PermissionStudyWrite,
	PermissionSettingsRead,
}

var editorPermissions = []Permission{
	PermissionContentAuthor,
}

// PermissionsFor returns the static permission set granted to a role.
func PermissionsFor(r Role) []Permission {
	switch r {
	case RoleMaster:
		return AllPermissions
	case RoleAdmin:
		return adminPermissions
	case RoleEditor:
		return editorPermissions
	}
	return nil
}

// HasPermission reports whether role r grants p.
func HasPermission(r Role, p Permission) bool {
	for _, granted := range PermissionsFor(r) {
		if granted == p {
			return true
		}
	}
	return false
}

// PermissionCodes converts a role's permissions to plain strings for API output.
func PermissionCodes(r Role) []string {
	perms := PermissionsFor(r)
	codes := make([]string, len(perms))
	for i, p := range perms {
		codes[i] = string(p)
	}
	return codes
}
