// Package rbac decides whether a resolved role may perform an operation.
// Blocked and soft-deleted identities never reach these checks; access-token
// resolution excludes them first.
package rbac

// Check reports whether role is a member of the required role set. An empty
// required set denies everything.
func Check(role string, required ...string) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}
