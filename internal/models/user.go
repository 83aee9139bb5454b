package models

// UserRole represents the closed set of portal roles.
type UserRole string

const (
	RoleSuperAdmin UserRole = "superadmin"
	RoleAdmin      UserRole = "admin"
	RoleUser       UserRole = "user"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// IsAdmin is true for admin and superadmin.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// UserMe is the authenticated user's profile.
type UserMe struct {
	ID        int64    `json:"id"`
	FullName  string   `json:"fullName"`
	Name      string   `json:"name"`
	NRP       string   `json:"nrp,omitempty"`
	Email     string   `json:"email"`
	Angkatan  *int     `json:"angkatan,omitempty"`
	Role      UserRole `json:"role"`
	AvatarURL *string  `json:"avatarUrl,omitempty"`
}

// UpdateProfileRequest is the profile edit payload; nil fields are left untouched.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName,omitempty"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Angkatan *int    `json:"angkatan,omitempty"`
}
