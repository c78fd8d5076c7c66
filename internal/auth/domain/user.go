package domain

import "time"

// User is the locally owned application user. ID is the identity provider's
// subject id; we never generate it ourselves.
type User struct {
	ID            string
	Email         string
	EmailVerified bool
	GivenName     string
	FamilyName    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserUpdate is a partial update. Nil fields are left unchanged.
type UserUpdate struct {
	Email         *string
	EmailVerified *bool
	GivenName     *string
	FamilyName    *string
}

// IsEmpty reports whether the update would change nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.EmailVerified == nil && u.GivenName == nil && u.FamilyName == nil
}
