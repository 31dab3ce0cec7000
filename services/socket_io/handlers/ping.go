package handlers

import (
	"log"
	"time"

	redis_models "smrutimap/models/redis"
	"smrutimap/services/identity"
	"smrutimap/services/redis"
	socketio_utils "smrutimap/services/socket_io/utils"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandlePresencePing stamps the caller's presence entry so readiness keeps
// counting them as live. A missing entry (expired, or Redis was down at join
// time) is recreated rather than erroring. args: code.
func HandlePresencePing(redisClient *redis.RedisClient,
	client *socket.Socket, id identity.Identity) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, ok := socketio_utils.RoomCodeArg(client, args)
		if !ok {
			return
		}

		ctx, cancel := eventContext()
		defer cancel()

		if redisClient != nil {
			err := redisClient.TouchPresence(ctx, code, id.Key(), string(client.Id()))
			if err != nil {
				p := &redis_models.PlayerPresence{
					PlayerKey: id.Key(),
					Status:    redis_models.StatusConnected,
					LastPing:  time.Now().Unix(),
					SocketID:  string(client.Id()),
				}
				if saveErr := redisClient.SavePresence(ctx, code, p); saveErr != nil {
					log.Printf("[PING] presence write for %s in %s failed: %v", id.Key(), code, saveErr)
				}
			}
		}

		client.Emit("pong", gin.H{"server_time": time.Now().UnixMilli()})
	}
}
