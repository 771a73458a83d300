package model

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// RolesFromStrings converts raw database values into roles.
func RolesFromStrings(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	for _, s := range raw {
		roles = append(roles, Role(s))
	}
	return roles
}

// RoleStrings is the inverse of RolesFromStrings.
func RoleStrings(roles []Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}
