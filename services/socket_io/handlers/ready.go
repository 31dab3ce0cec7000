package handlers

import (
	"log"

	redis_models "smrutimap/models/redis"
	"smrutimap/services/identity"
	"smrutimap/services/redis"
	"smrutimap/services/rooms"
	socketio_types "smrutimap/services/socket_io/types"
	socketio_utils "smrutimap/services/socket_io/utils"
	"smrutimap/services/sync"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleSetReady toggles the lobby-ready flag while the room is waiting.
// args: code, optional {ready: bool} (absent means ready).
func HandleSetReady(svc *rooms.Service, hub *sync.Hub, redisClient *redis.RedisClient,
	client *socket.Socket, id identity.Identity, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, ok := socketio_utils.RoomCodeArg(client, args)
		if !ok {
			return
		}
		ready := true
		if len(args) > 1 {
			if payload, ok := args[1].(map[string]interface{}); ok {
				ready = socketio_utils.BoolField(payload, "ready", true)
			}
		}

		ctx, cancel := eventContext()
		defer cancel()

		if err := svc.SetReady(ctx, code, id, ready); err != nil {
			log.Printf("[READY-ERROR] %s in %s: %v", id.Key(), code, err)
			emitError(client, err)
			return
		}

		if redisClient != nil {
			status := redis_models.StatusConnected
			if ready {
				status = redis_models.StatusReady
			}
			if err := redisClient.SetPresenceStatus(ctx, code, id.Key(), status); err != nil {
				log.Printf("[READY] could not update presence for %s in %s: %v", id.Key(), code, err)
			}
		}

		sio.Sio_server.To(socket.Room(code)).Emit("player_ready", gin.H{
			"room_code":  code,
			"player_key": id.Key(),
			"ready":      ready,
		})

		if err := hub.Refresh(ctx, code); err != nil {
			log.Printf("[READY] refresh of %s failed: %v", code, err)
		}
	}
}
