package model

import "time"

// User is an account record. Password holds the bcrypt digest and is never
// serialized.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	Roles     []Role     `json:"roles"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// HasAnyRole reports whether the user holds at least one of roles.
func (u *User) HasAnyRole(roles []Role) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if want == have {
				return true
			}
		}
	}
	return false
}
