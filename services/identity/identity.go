package identity

import (
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand"
)

// Identity is who a request acts as: a registered user (JWT) or an anonymous
// guest session (cookie). Exactly one side is set.
type Identity struct {
	Username string `json:"username,omitempty"`
	GuestID  string `json:"guest_id,omitempty"`
}

func ForUser(username string) Identity { return Identity{Username: username} }
func ForGuest(guestID string) Identity { return Identity{GuestID: guestID} }

func (id Identity) IsGuest() bool { return id.Username == "" && id.GuestID != "" }
func (id Identity) IsZero() bool  { return id.Username == "" && id.GuestID == "" }

// Key is the stable player identifier persisted on participants, scores and
// pools. The prefixes keep registered and guest namespaces from colliding.
func (id Identity) Key() string {
	if id.Username != "" {
		return "user:" + id.Username
	}
	if id.GuestID != "" {
		return "guest:" + id.GuestID
	}
	return ""
}

// NewGuestID mints a random guest identifier.
func NewGuestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// Weaker source is fine, guest ids only need uniqueness
		for i := range b {
			b[i] = byte(mrand.Intn(256))
		}
	}
	return hex.EncodeToString(b)
}
