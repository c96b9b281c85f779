package domain

const RoleAdmin = "admin"

// Actor is the resolved caller identity. A zero UserID means nobody is signed in.
type Actor struct {
	UserID uint64
	Role   string
}

func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated() && a.Role == RoleAdmin
}

// Owns reports whether the actor may act on a record belonging to userID.
func (a Actor) Owns(userID uint64) bool {
	return a.Authenticated() && a.UserID == userID
}
