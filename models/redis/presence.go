package redis

type PlayerStatus string

const (
	StatusConnected    PlayerStatus = "connected"
	StatusReady        PlayerStatus = "ready"
	StatusDisconnected PlayerStatus = "disconnected"
)

// PlayerPresence is the advisory liveness record kept per room. It drives
// readiness hints and host failover ordering, never scoring correctness.
type PlayerPresence struct {
	PlayerKey   string       `json:"player_key"`
	DisplayName string       `json:"display_name"`
	Status      PlayerStatus `json:"status"`
	LastPing    int64        `json:"last_ping"` // Unix timestamp
	SocketID    string       `json:"socket_id"` // For direct messaging
}

// Live reports whether this presence row should count toward readiness.
func (p PlayerPresence) Live() bool {
	return p.Status == StatusConnected || p.Status == StatusReady
}
