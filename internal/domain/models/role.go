package models

// Role is the authorization role stored on a user record.
type Role string

const (
	RoleAdmin  Role = "admin"
	RolePlayer Role = "player"
)

// DefaultRole is assigned to every newly registered user.
const DefaultRole = RolePlayer

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePlayer:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
