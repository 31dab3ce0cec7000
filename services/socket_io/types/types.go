package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer wraps the socket.io server with a registry of live
// connections keyed by player key ("user:<name>" or "guest:<id>").
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track playerKey -> socket connections
	UserConnections map[string]*socket.Socket
	mutex           sync.RWMutex
}

func (s *SocketServer) AddConnection(playerKey string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserConnections[playerKey] = client
}

// RemoveConnection drops the registry entry, but only if it still points at
// the given socket: a reconnect may already have replaced it.
func (s *SocketServer) RemoveConnection(playerKey string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if current, ok := s.UserConnections[playerKey]; ok && current == client {
		delete(s.UserConnections, playerKey)
	}
}

func (s *SocketServer) GetConnection(playerKey string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	client, exists := s.UserConnections[playerKey]
	return client, exists
}

// EmitToRoom broadcasts an event to every socket joined to a room channel.
// This is the sync hub's outlet to clients.
func (s *SocketServer) EmitToRoom(roomCode, event string, payload interface{}) {
	if s.Sio_server == nil {
		return
	}
	s.Sio_server.To(socket.Room(roomCode)).Emit(event, payload)
}
