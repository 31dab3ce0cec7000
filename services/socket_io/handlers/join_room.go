package handlers

import (
	"log"
	"time"

	redis_models "smrutimap/models/redis"
	"smrutimap/services/identity"
	"smrutimap/services/redis"
	"smrutimap/services/rooms"
	socketio_types "smrutimap/services/socket_io/types"
	socketio_utils "smrutimap/services/socket_io/utils"
	"smrutimap/services/sync"
	"smrutimap/utils"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleJoinRoom seats the player, subscribes their socket to the room
// channel and registers advisory presence. args: code, optional
// {display_name, avatar_color}.
func HandleJoinRoom(svc *rooms.Service, hub *sync.Hub, redisClient *redis.RedisClient,
	client *socket.Socket, id identity.Identity, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[JOIN] player %s, args: %v, socket: %s", id.Key(), args, client.Id())

		code, ok := socketio_utils.RoomCodeArg(client, args)
		if !ok {
			return
		}

		var displayName, avatarColor string
		if len(args) > 1 {
			if payload, ok := args[1].(map[string]interface{}); ok {
				displayName = socketio_utils.StringField(payload, "display_name")
				avatarColor = socketio_utils.StringField(payload, "avatar_color")
			}
		}
		if !utils.ValidDisplayName(displayName) {
			client.Emit("error", gin.H{"error": "Display name is too long or blank"})
			return
		}

		ctx, cancel := eventContext()
		defer cancel()

		participant, err := svc.JoinRoom(ctx, code, id, displayName, avatarColor)
		if err != nil {
			log.Printf("[JOIN-ERROR] %s into %s: %v", id.Key(), code, err)
			emitError(client, err)
			return
		}

		client.Join(socket.Room(code))

		// Presence is advisory; a Redis hiccup must not undo the join
		if redisClient != nil {
			p := &redis_models.PlayerPresence{
				PlayerKey:   id.Key(),
				DisplayName: participant.DisplayName,
				Status:      redis_models.StatusConnected,
				LastPing:    time.Now().Unix(),
				SocketID:    string(client.Id()),
			}
			if err := redisClient.SavePresence(ctx, code, p); err != nil {
				log.Printf("[JOIN] could not record presence for %s in %s: %v", id.Key(), code, err)
			}
		}

		sio.Sio_server.To(socket.Room(code)).Emit("player_joined", gin.H{
			"room_code":    code,
			"player_key":   participant.PlayerKey,
			"display_name": participant.DisplayName,
			"avatar_color": participant.AvatarColor,
			"role":         participant.Role,
		})

		hub.Track(code)
		if err := hub.Refresh(ctx, code); err != nil {
			log.Printf("[JOIN] refresh of %s failed: %v", code, err)
		}

		client.Emit("room_joined", gin.H{
			"room_code":   code,
			"player_key":  participant.PlayerKey,
			"role":        participant.Role,
			"joined_at":   participant.JoinedAt,
			"server_time": time.Now().UnixMilli(),
		})
		log.Printf("[JOIN-SUCCESS] %s joined %s", id.Key(), code)
	}
}
