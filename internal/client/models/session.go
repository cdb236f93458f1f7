// Package models holds the client-side data types of the auth core.
package models

import (
	"time"

	"github.com/fgodoybr/frotacontrol/internal/identity"
)

// User is the authenticated principal carried by a session. DriverID is set
// only for driver-role sessions and scopes which trips the session may see.
type User struct {
	Name     string
	Role     identity.Role
	DriverID string
	UserID   string
}

// Session is the client-held proof of authentication. A zero Session means
// unauthenticated. The expiry check is time-based, not storage-based: stale
// persisted user data past ExpiresAt counts as no session.
type Session struct {
	User      *User
	ExpiresAt time.Time
}

// Authenticated reports whether the session holds a user whose expiry is
// still in the future at the given instant.
func (s Session) Authenticated(now time.Time) bool {
	return s.User != nil && now.Before(s.ExpiresAt)
}
