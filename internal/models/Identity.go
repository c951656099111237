package models

// Identity is the caller decoded from a bearer token.
type Identity struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"rol"`
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
