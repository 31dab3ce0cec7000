package storage

import (
	"context"
	"time"

	"smrutimap/models/postgres"
)

// DailyTotal is one row of the daily-challenge leaderboard aggregation.
type DailyTotal struct {
	PlayerKey    string `json:"player_key"`
	DisplayName  string `json:"display_name"`
	TotalScore   int    `json:"total_score"`
	RoundsPlayed int    `json:"rounds_played"`
}

// Repository is the authoritative store behind the game. Every call takes a
// context and runs under a bounded timeout; errors come back classified
// (ErrNotFound, ErrTimeout, ErrConflict, ErrStale).
type Repository interface {
	// Catalog
	ListImages(ctx context.Context) ([]postgres.HistoricalImage, error)
	ImagesByIDs(ctx context.Context, ids []string) ([]postgres.HistoricalImage, error)

	// Rooms
	CreateRoom(ctx context.Context, room *postgres.GameRoom) error
	RoomByCode(ctx context.Context, code string) (*postgres.GameRoom, error)
	// UpdateRoomGuarded applies updates only while every guard column still
	// holds its expected value; ErrStale means a racer got there first.
	UpdateRoomGuarded(ctx context.Context, code string, guard map[string]interface{}, updates map[string]interface{}) error
	ActiveTimedRooms(ctx context.Context) ([]postgres.GameRoom, error)
	IdleRoomsBefore(ctx context.Context, cutoff time.Time) ([]postgres.GameRoom, error)
	// DailyRoomForPlayer finds the player's existing daily-challenge room for
	// a date, so starting the same daily twice resumes instead of duplicating.
	DailyRoomForPlayer(ctx context.Context, playerKey, dailyKey string) (*postgres.GameRoom, error)

	// Participants
	AddParticipant(ctx context.Context, p *postgres.RoomParticipant) error
	ParticipantsByRoom(ctx context.Context, code string) ([]postgres.RoomParticipant, error)
	ParticipantByKey(ctx context.Context, code, playerKey string) (*postgres.RoomParticipant, error)
	UpdateParticipant(ctx context.Context, code, playerKey string, updates map[string]interface{}) error
	// OpenRoomCodesForPlayer lists unfinished rooms where the player still
	// holds a live seat. Drives disconnect cleanup.
	OpenRoomCodesForPlayer(ctx context.Context, playerKey string) ([]string, error)

	// Scores
	InsertScore(ctx context.Context, s *postgres.RoundScore) error
	ScoreByKey(ctx context.Context, code, playerKey string, round int) (*postgres.RoundScore, error)
	ScoresByRoom(ctx context.Context, code string) ([]postgres.RoundScore, error)
	ScoresByRoomRound(ctx context.Context, code string, round int) ([]postgres.RoundScore, error)
	DailyTotals(ctx context.Context, dailyKey string, limit int) ([]DailyTotal, error)

	// Image pools (registered users)
	PoolByKey(ctx context.Context, playerKey string) (*postgres.ImagePool, error)
	CreatePool(ctx context.Context, pool *postgres.ImagePool) error
	// SavePoolCAS persists the pool only if its stored version still equals
	// expectedVersion, bumping the version on success.
	SavePoolCAS(ctx context.Context, pool *postgres.ImagePool, expectedVersion int) error
	DeletePool(ctx context.Context, playerKey string) error

	// Users
	CreateUser(ctx context.Context, u *postgres.User) error
	UserByUsername(ctx context.Context, username string) (*postgres.User, error)
}
