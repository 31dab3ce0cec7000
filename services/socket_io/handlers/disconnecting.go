package handlers

import (
	"log"

	redis_models "smrutimap/models/redis"
	"smrutimap/services/identity"
	"smrutimap/services/redis"
	"smrutimap/services/rooms"
	socketio_types "smrutimap/services/socket_io/types"
	"smrutimap/services/sync"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleDisconnecting releases every live seat the player holds when their
// socket drops. Seats flip to disconnected rather than vanishing, so a
// reconnect lands back in the same game; host failover runs inside LeaveRoom.
func HandleDisconnecting(svc *rooms.Service, hub *sync.Hub, redisClient *redis.RedisClient,
	client *socket.Socket, id identity.Identity, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] player %s, socket %s", id.Key(), client.Id())

		ctx, cancel := eventContext()
		defer cancel()

		codes, err := svc.OpenRoomsFor(ctx, id)
		if err != nil {
			log.Printf("[DISCONNECT-ERROR] listing rooms for %s: %v", id.Key(), err)
		}

		for _, code := range codes {
			if err := svc.LeaveRoom(ctx, code, id); err != nil {
				log.Printf("[DISCONNECT-ERROR] releasing %s from %s: %v", id.Key(), code, err)
				continue
			}

			// Keep the presence row, flipped to disconnected, so a rejoin
			// within the TTL shows up as a reconnect instead of a stranger
			if redisClient != nil {
				if err := redisClient.SetPresenceStatus(ctx, code, id.Key(), redis_models.StatusDisconnected); err != nil {
					log.Printf("[DISCONNECT] presence update for %s in %s: %v", id.Key(), code, err)
				}
			}

			sio.Sio_server.To(socket.Room(code)).Emit("player_left", gin.H{
				"room_code":  code,
				"player_key": id.Key(),
				"reason":     "disconnected",
			})

			if err := hub.Refresh(ctx, code); err != nil {
				log.Printf("[DISCONNECT] refresh of %s failed: %v", code, err)
			}
			log.Printf("[DISCONNECT] %s released from %s", id.Key(), code)
		}

		sio.RemoveConnection(id.Key(), client)
		log.Printf("[DISCONNECT-DONE] %s", id.Key())
	}
}
