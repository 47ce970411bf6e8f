package domain

import "time"

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents a user of the application in the domain.
type User struct {
	UserID       string       `json:"userID"` // Primary Key (e.g., UUID)
	Username     string       `json:"username"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	AuthProvider AuthProvider `json:"authProvider"`
	// ProviderUserID is the external provider's identifier (e.g., Google's 'sub' claim).
	ProviderUserID string `json:"-"`
	EmailVerified  bool   `json:"emailVerified"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete

	// Refresh token state, hashed at rest.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}

// GetUserID implements the accessor used by response mapping.
func (u *User) GetUserID() string { return u.UserID }

// GetUsername implements the accessor used by response mapping.
func (u *User) GetUsername() string { return u.Username }

// GetName implements the accessor used by response mapping.
func (u *User) GetName() string { return u.Name }

// GoogleUserInfo mirrors the payload of Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
