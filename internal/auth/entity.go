// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Session is one link of a refresh token chain. Each refresh writes a new
// row in the same family and marks the previous one used, so a family is
// one signed-in device.
type Session struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

type SessionState string

const (
	SessionActive  SessionState = "active"
	SessionUsed    SessionState = "used"
	SessionRevoked SessionState = "revoked"
	SessionExpired SessionState = "expired"
)

// StateAt reports revocation first, then rotation, then expiry.
func (s *Session) StateAt(now time.Time) SessionState {
	switch {
	case s.RevokedAt != nil:
		return SessionRevoked
	case s.IsUsed:
		return SessionUsed
	case !now.Before(s.ExpiresAt):
		return SessionExpired
	default:
		return SessionActive
	}
}

// Info renders the session for its owner. current is the family of the
// access token making the request.
func (s *Session) Info(current string) SessionInfo {
	return SessionInfo{
		ID:        s.ID,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		Current:   current != "" && s.FamilyID == current,
	}
}
