package handlers

import (
	"log"

	"smrutimap/services/identity"
	"smrutimap/services/redis"
	"smrutimap/services/rooms"
	socketio_types "smrutimap/services/socket_io/types"
	socketio_utils "smrutimap/services/socket_io/utils"
	"smrutimap/services/sync"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleLeaveRoom releases the player's seat voluntarily. Score history
// stays; presence is removed so readiness stops expecting them.
func HandleLeaveRoom(svc *rooms.Service, hub *sync.Hub, redisClient *redis.RedisClient,
	client *socket.Socket, id identity.Identity, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, ok := socketio_utils.RoomCodeArg(client, args)
		if !ok {
			return
		}

		ctx, cancel := eventContext()
		defer cancel()

		if err := svc.LeaveRoom(ctx, code, id); err != nil {
			log.Printf("[LEAVE-ERROR] %s from %s: %v", id.Key(), code, err)
			emitError(client, err)
			return
		}

		client.Leave(socket.Room(code))

		if redisClient != nil {
			if err := redisClient.RemovePresence(ctx, code, id.Key()); err != nil {
				log.Printf("[LEAVE] could not remove presence for %s in %s: %v", id.Key(), code, err)
			}
		}

		sio.Sio_server.To(socket.Room(code)).Emit("player_left", gin.H{
			"room_code":  code,
			"player_key": id.Key(),
			"reason":     "left",
		})

		if err := hub.Refresh(ctx, code); err != nil {
			log.Printf("[LEAVE] refresh of %s failed: %v", code, err)
		}
		log.Printf("[LEAVE-SUCCESS] %s left %s", id.Key(), code)
	}
}
