package socket_io

import (
	"fmt"
	"time"

	"smrutimap/services/redis"
	"smrutimap/services/rooms"
	"smrutimap/services/socket_io/handlers"
	socketio_types "smrutimap/services/socket_io/types"
	socketio_utils "smrutimap/services/socket_io/utils"
	"smrutimap/services/sync"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// Start mounts the socket.io server on the gin router and registers the game
// events. Clients authenticate on the handshake (JWT or guest id); every
// event after that is bound to the verified identity, never to client input.
func (sio *MySocketServer) Start(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient,
	roomsService *rooms.Service, hub *sync.Hub) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	// KEY: inicializar el map, sino panikea
	sio.UserConnections = make(map[string]*socket.Socket)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		// Check if the client is authenticated
		id, ok := socketio_utils.VerifyConnection(client, db)
		if !ok {
			return
		}

		// A fresh tab supersedes any socket this player already holds
		if old, exists := (*socketio_types.SocketServer)(sio).GetConnection(id.Key()); exists && old != client {
			old.Disconnect(true)
		}

		// Add connection to map
		(*socketio_types.SocketServer)(sio).AddConnection(id.Key(), client)
		fmt.Println("An individual just connected!: ", id.Key())

		// Seat in a room and subscribe the socket to its channel
		client.On("join_room", handlers.HandleJoinRoom(roomsService, hub, redisClient, client, id, (*socketio_types.SocketServer)(sio)))

		// Release the seat voluntarily
		client.On("leave_room", handlers.HandleLeaveRoom(roomsService, hub, redisClient, client, id, (*socketio_types.SocketServer)(sio)))

		// Lobby ready toggle while the room is waiting
		client.On("ready", handlers.HandleSetReady(roomsService, hub, redisClient, client, id, (*socketio_types.SocketServer)(sio)))

		// Start game (host only)
		client.On("start_game", handlers.HandleStartGame(roomsService, hub, client, id, (*socketio_types.SocketServer)(sio)))

		// Score a guess for the current round
		client.On("submit_guess", handlers.HandleSubmitGuess(roomsService, hub, client, id, (*socketio_types.SocketServer)(sio)))

		// Close the current round (host only, gated on readiness or deadline)
		client.On("advance_round", handlers.HandleAdvanceRound(roomsService, hub, client, id, (*socketio_types.SocketServer)(sio)))

		// Liveness stamp for the advisory presence record
		client.On("presence_ping", handlers.HandlePresencePing(redisClient, client, id))

		// Explicit poll: authoritative snapshot regardless of change gating
		client.On("request_room_state", handlers.HandleRequestRoomState(hub, client, id))

		// NOTE: will remove sio connection from map and release live seats
		client.On("disconnecting", handlers.HandleDisconnecting(roomsService, hub, redisClient, client, id, (*socketio_types.SocketServer)(sio)))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	fmt.Println("Socket server started")
}
