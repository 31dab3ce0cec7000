package socketio_utils

import (
	"fmt"
	"log"

	"smrutimap/middleware"
	models "smrutimap/models/postgres"
	"smrutimap/services/identity"
	"smrutimap/utils"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// Function that verifies a socket.io client connection. Registered users
// present a JWT on the handshake's 'authorization' field; guests present the
// 'guest_id' their session was minted with. Exactly one of the two is needed.
func VerifyConnection(client *socket.Socket, db *gorm.DB) (identity.Identity, bool) {
	// Checks if we have auth data in the connection
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		fmt.Println("No auth data provided in handshake!")
		client.Emit("error", gin.H{"error": "Authentication failed: missing auth data"})
		return identity.Identity{}, false
	}

	if _, hasToken := authData["authorization"]; hasToken {
		username, err := middleware.Socketio_JWT_decoder(authData)
		if err != nil {
			log.Println("Error decoding JWT:", err)
			client.Emit("error", gin.H{
				"error": "Authentication failed: invalid JWT. Remember to set it on the 'authorization' field and with the 'Bearer ' prefix.",
			})
			return identity.Identity{}, false
		}

		// The token only carries the username; make sure the account exists
		var user models.User
		if result := db.Where("username = ?", username).First(&user); result.Error != nil {
			log.Println("Error fetching user from database:", result.Error)
			client.Emit("error", gin.H{"error": "Authentication failed: could not find user"})
			return identity.Identity{}, false
		}
		return identity.ForUser(user.Username), true
	}

	if raw, hasGuest := authData["guest_id"]; hasGuest {
		guestID, _ := raw.(string)
		if !utils.ValidGuestID(guestID) {
			log.Printf("[AUTH-ERROR] malformed guest id in handshake: %v", raw)
			client.Emit("error", gin.H{"error": "Authentication failed: malformed guest id"})
			return identity.Identity{}, false
		}
		return identity.ForGuest(guestID), true
	}

	fmt.Println("No authorization token or guest_id provided in handshake!")
	client.Emit("error", gin.H{"error": "Authentication failed: provide an 'authorization' token or a 'guest_id'"})
	return identity.Identity{}, false
}
