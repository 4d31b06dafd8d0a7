package models

// Role of a profile. Ward heads can read the ward dashboard.
type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleWardHead Role = "ward_head"
)

func (r Role) Valid() bool {
	return r == RoleCitizen || r == RoleWardHead
}
