package handlers

import (
	"errors"
	"log"

	"smrutimap/services/identity"
	"smrutimap/services/rooms"
	"smrutimap/services/scoring"
	socketio_types "smrutimap/services/socket_io/types"
	socketio_utils "smrutimap/services/socket_io/utils"
	"smrutimap/services/sync"
	"smrutimap/utils"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleSubmitGuess scores the caller's answer for the current round. The
// scored row goes back to the guesser only; the rest of the room gets a
// lightweight trigger and the full picture on the next room_state.
// args: code, {year, lat, lng}.
func HandleSubmitGuess(svc *rooms.Service, hub *sync.Hub,
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

		year, yearOK := socketio_utils.NumberField(payload, "year")
		lat, latOK := socketio_utils.NumberField(payload, "lat")
		lng, lngOK := socketio_utils.NumberField(payload, "lng")
		if !yearOK || !latOK || !lngOK {
			client.Emit("error", gin.H{"error": "Guess needs numeric year, lat and lng"})
			return
		}
		if err := utils.ValidGuess(int(year), lat, lng); err != nil {
			emitError(client, err)
			return
		}

		ctx, cancel := eventContext()
		defer cancel()

		guess := scoring.Guess{Year: int(year), Lat: lat, Lng: lng}
		score, err := svc.SubmitGuess(ctx, code, id, guess)
		if errors.Is(err, rooms.ErrAlreadySubmitted) {
			// First write won; hand the original back instead of erroring
			client.Emit("guess_result", gin.H{"duplicate": true, "score": score})
			return
		}
		if err != nil {
			log.Printf("[GUESS-ERROR] %s in %s: %v", id.Key(), code, err)
			emitError(client, err)
			return
		}

		client.Emit("guess_result", gin.H{"duplicate": false, "score": score})
		sio.Sio_server.To(socket.Room(code)).Emit("guess_submitted", gin.H{
			"room_code":  code,
			"player_key": id.Key(),
			"round":      score.RoundNumber,
		})

		// The refresh picks up a results-phase flip when this was the last
		// outstanding guess
		if err := hub.Refresh(ctx, code); err != nil {
			log.Printf("[GUESS] refresh of %s failed: %v", code, err)
		}
		log.Printf("[GUESS-SUCCESS] %s round %d in %s: %d points",
			id.Key(), score.RoundNumber, code, score.TotalScore)
	}
}
