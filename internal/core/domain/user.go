package domain

// Roles accepted from the identity service's JWT. The cargo gateway does
// not manage users itself; it only authorizes actions by role claim.
const (
	RoleAdmin = "admin"
	RoleOps   = "ops"
)
