package handlers

import (
	"errors"
	"log"

	"smrutimap/services/identity"
	socketio_utils "smrutimap/services/socket_io/utils"
	"smrutimap/services/storage"
	"smrutimap/services/sync"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleRequestRoomState answers an explicit poll with the authoritative
// snapshot, skipping the material-change gate. Clients call this on mount and
// whenever they suspect they missed a push. args: code.
func HandleRequestRoomState(hub *sync.Hub,
	client *socket.Socket, id identity.Identity) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, ok := socketio_utils.RoomCodeArg(client, args)
		if !ok {
			return
		}

		ctx, cancel := eventContext()
		defer cancel()

		state, err := hub.State(ctx, code)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				client.Emit(sync.EventRoomGone, gin.H{"room_code": code})
				return
			}
			log.Printf("[STATE-ERROR] %s polling %s: %v", id.Key(), code, err)
			client.Emit("error", gin.H{"error": "Could not load room state"})
			return
		}
		client.Emit(sync.EventRoomState, state)
	}
}
