package domain

import "time"

type User struct {
	ID           string
	Name         string
	Email        string
	PhoneNumber  string
	PasswordHash string
	Role         string
	Blocked      bool
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	IPAddress string
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
	Revoked   bool
}

// IdentitySummary carries only what authorization decisions need. It never
// holds the password hash, so it is safe to cache.
type IdentitySummary struct {
	ID        string     `json:"id"`
	Role      string     `json:"role"`
	Blocked   bool       `json:"blocked"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Summary projects a user onto its cacheable identity summary.
func (u *User) Summary() *IdentitySummary {
	return &IdentitySummary{
		ID:        u.ID,
		Role:      u.Role,
		Blocked:   u.Blocked,
		DeletedAt: u.DeletedAt,
	}
}

// Active reports whether the identity may participate in authorization.
func (s *IdentitySummary) Active() bool {
	return !s.Blocked && s.DeletedAt == nil
}
