package model

// Actor is the already-authenticated identity performing an operation.
// Authentication itself happens at the transport edge; the core only
// ever sees this pair.
type Actor struct {
	ID   UserID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
