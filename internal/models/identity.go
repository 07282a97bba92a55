package models

// Identity is the authenticated operator's profile as returned by the
// upstream back-office API.
type Identity struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name,omitempty"`
	Role        string   `json:"role"` // "superadmin", "admin", "customer", "driver", or a custom role
	RoleName    string   `json:"roleName,omitempty"`
	Permissions []string `json:"permissions"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
