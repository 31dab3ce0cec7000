package handlers

import (
	"log"

	"smrutimap/services/identity"
	"smrutimap/services/rooms"
	socketio_types "smrutimap/services/socket_io/types"
	socketio_utils "smrutimap/services/socket_io/utils"
	"smrutimap/services/sync"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleStartGame moves a waiting room into playing. Host only; the image
// sequence for every round is fixed here so all clients see the same game.
func HandleStartGame(svc *rooms.Service, hub *sync.Hub,
	client *socket.Socket, id identity.Identity, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, ok := socketio_utils.RoomCodeArg(client, args)
		if !ok {
			return
		}

		ctx, cancel := eventContext()
		defer cancel()

		room, err := svc.StartGame(ctx, code, id)
		if err != nil {
			log.Printf("[START-ERROR] %s starting %s: %v", id.Key(), code, err)
			emitError(client, err)
			return
		}

		sio.Sio_server.To(socket.Room(code)).Emit("game_started", gin.H{
			"room_code":        code,
			"current_round":    room.CurrentRound,
			"total_rounds":     room.TotalRounds,
			"current_image_id": room.CurrentImageID,
			"time_per_round":   room.TimePerRound,
			"round_started_at": room.RoundStartedAt,
		})

		if err := hub.Refresh(ctx, code); err != nil {
			log.Printf("[START] refresh of %s failed: %v", code, err)
		}
		log.Printf("[START-SUCCESS] room %s started by %s", code, id.Key())
	}
}
