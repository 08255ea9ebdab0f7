package domain

// Identity is the caller a request acts as. It is derived per request from a
// validated token plus a Credential Store lookup and is never persisted.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IdentityOf derives the request identity from a stored account.
func IdentityOf(u *User) Identity {
	return Identity{Username: u.Username, Role: u.Role}
}
