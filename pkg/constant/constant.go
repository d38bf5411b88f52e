package constant

// Roles form a closed set; anything outside it is rejected at registration
// and denied by the role guard.
const (
	RoleAdmin   = "admin"
	RoleHR      = "hr"
	RoleStudent = "student"
)

// DefaultRole is assigned at self-registration. Elevated roles are only
// granted through the admin surface.
const DefaultRole = RoleStudent

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleHR, RoleStudent:
		return true
	}
	return false
}

const MinPasswordLength = 8
