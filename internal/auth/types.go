package auth

// Role is the display role of an identity. Roles are not enforced.
type Role string

const (
	RoleSuperAdmin Role = "Super Admin"
	RoleEditor     Role = "Editor"
	RoleViewer     Role = "Viewer"
)

// Roles lists the roles in the order the admin console offers them.
func Roles() []Role { return []Role{RoleSuperAdmin, RoleEditor, RoleViewer} }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// Identity is an administrator able to sign in to the console.
type Identity struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"passwordHash"`
}

// Redacted returns a copy without the stored secret.
func (i Identity) Redacted() Identity {
	i.PasswordHash = ""
	return i
}

// SeedIdentityID is the id of the bundled administrator.
const SeedIdentityID = "1"

// DefaultIdentities returns the bundled roster used when storage holds none.
// The secret is plain text here and hashed when the store is built.
func DefaultIdentities() []Identity {
	return []Identity{{
		ID:           SeedIdentityID,
		Name:         "Admin User",
		Email:        "admin@darew.com",
		Role:         RoleSuperAdmin,
		PasswordHash: "admin123",
	}}
}
