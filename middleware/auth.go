package middleware

import (
	"net/http"

	"smrutimap/services/identity"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	identityKey     = "smrutimap_identity"
	guestSessionKey = "guest_id"
)

// Identity resolves who the request acts as. A bearer token outranks the
// guest cookie; no token and no cookie means anonymous.
func Identity(c *gin.Context) identity.Identity {
	if username, err := JWT_decoder(c); err == nil && username != "" {
		return identity.ForUser(username)
	}
	session := sessions.Default(c)
	if guestID, ok := session.Get(guestSessionKey).(string); ok && guestID != "" {
		return identity.ForGuest(guestID)
	}
	return identity.Identity{}
}

// IdentityRequired admits registered users and guests alike, rejecting only
// the anonymous. Game endpoints use this: guests play too.
func IdentityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := Identity(c)
		if id.IsZero() {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": "unauthorized: log in or request a guest session first"})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// AuthRequired is the stricter gate: a valid JWT only, no guest sessions.
func AuthRequired(c *gin.Context) {
	username, err := JWT_decoder(c)
	if err != nil || username == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(identityKey, identity.ForUser(username))
	c.Next()
}

// RequestIdentity returns the identity a gate middleware stored on the
// context. Zero when no gate ran.
func RequestIdentity(c *gin.Context) identity.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(identity.Identity); ok {
			return id
		}
	}
	return identity.Identity{}
}

// StoreGuestSession persists a guest id in the session cookie.
func StoreGuestSession(c *gin.Context, guestID string) error {
	session := sessions.Default(c)
	session.Set(guestSessionKey, guestID)
	return session.Save()
}

// GuestSessionID returns the guest id already minted into this session, if
// any. Lets the guest endpoint hand the same id back instead of re-minting.
func GuestSessionID(c *gin.Context) string {
	session := sessions.Default(c)
	if guestID, ok := session.Get(guestSessionKey).(string); ok {
		return guestID
	}
	return ""
}
