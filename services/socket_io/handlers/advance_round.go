package handlers

import (
	"log"

	game_constants "smrutimap/constants/game"
	"smrutimap/services/identity"
	"smrutimap/services/rooms"
	socketio_types "smrutimap/services/socket_io/types"
	socketio_utils "smrutimap/services/socket_io/utils"
	"smrutimap/services/sync"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleAdvanceRound moves the room to the next round, or finishes the game
// after the last one. Host only, gated on everyone having submitted or the
// round deadline having passed. args: code, {round: currentRound}. The round
// number makes the advance race-safe: two hosts clicking at once produce one
// transition.
func HandleAdvanceRound(svc *rooms.Service, hub *sync.Hub,
	client *socket.Socket, id identity.Identity, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, ok := socketio_utils.RoomCodeArg(client, args)
		if !ok {
			return
		}
		payload, ok := socketio_utils.PayloadArg(client, args, 1)
		if !ok {
			return
		}
		round, roundOK := socketio_utils.NumberField(payload, "round")
		if !roundOK {
			client.Emit("error", gin.H{"error": "Advance needs the round number being closed"})
			return
		}

		ctx, cancel := eventContext()
		defer cancel()

		room, err := svc.AdvanceRound(ctx, code, id, int(round))
		if err != nil {
			log.Printf("[ADVANCE-ERROR] %s in %s: %v", id.Key(), code, err)
			emitError(client, err)
			return
		}

		if room.Status == game_constants.StatusFinished {
			sio.Sio_server.To(socket.Room(code)).Emit("game_finished", gin.H{
				"room_code":    code,
				"total_rounds": room.TotalRounds,
			})
		} else {
			sio.Sio_server.To(socket.Room(code)).Emit("round_advanced", gin.H{
				"room_code":        code,
				"current_round":    room.CurrentRound,
				"total_rounds":     room.TotalRounds,
				"current_image_id": room.CurrentImageID,
				"round_started_at": room.RoundStartedAt,
			})
		}

		if err := hub.Refresh(ctx, code); err != nil {
			log.Printf("[ADVANCE] refresh of %s failed: %v", code, err)
		}
	}
}
