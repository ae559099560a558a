package domain

import (
	"time"
)

// Roles assignable to a user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ChallengeKind identifies which flow a pending verification code belongs to.
// A code issued for one kind cannot satisfy another.
type ChallengeKind string

const (
	ChallengeNone           ChallengeKind = ""
	ChallengeRegistration   ChallengeKind = "registration"
	ChallengeLogin          ChallengeKind = "login"
	ChallengePasswordChange ChallengeKind = "password_change"
)

// User represents a registered back-office user.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Phone            string    `json:"phone,omitempty"`
	Role             string    `json:"role"`
	EmailVerified    bool      `json:"email_verified"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`

	// Pending challenge. The three fields are all set or all unset.
	ChallengeKind      ChallengeKind `json:"-"`
	ChallengeCode      string        `json:"-"`
	ChallengeExpiresAt *time.Time    `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasChallenge reports whether the user has a pending challenge of the given kind.
func (u *User) HasChallenge(kind ChallengeKind) bool {
	return u.ChallengeKind == kind && u.ChallengeCode != "" && u.ChallengeExpiresAt != nil
}

// SetChallenge installs a new pending challenge, overwriting any prior one.
func (u *User) SetChallenge(kind ChallengeKind, code string, expiresAt time.Time) {
	u.ChallengeKind = kind
	u.ChallengeCode = code
	u.ChallengeExpiresAt = &expiresAt
}

// ClearChallenge removes the pending challenge after consumption.
func (u *User) ClearChallenge() {
	u.ChallengeKind = ChallengeNone
	u.ChallengeCode = ""
	u.ChallengeExpiresAt = nil
}

// AuthToken is a signed access token with its expiry.
type AuthToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResult is the outcome of a credential check. Exactly one branch is
// populated: either a token, or a 2FA challenge the caller must complete.
type LoginResult struct {
	Requires2FA bool       `json:"requires_2fa"`
	Email       string     `json:"email,omitempty"`
	Token       *AuthToken `json:"token,omitempty"`
}
