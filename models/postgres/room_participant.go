package postgres

import (
	"time"
)

/*
 * 'RoomParticipant' is one player's seat in a room. PlayerKey is the stable
 * identity (username for registered users, minted id for guests); one seat
 * per player per room.
 */
type RoomParticipant struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomCode    string    `gorm:"size:12;not null;uniqueIndex:idx_participants_room_player" json:"room_code"`
	PlayerKey   string    `gorm:"size:100;not null;uniqueIndex:idx_participants_room_player" json:"player_key"`
	DisplayName string    `gorm:"size:50;not null" json:"display_name"`
	AvatarColor string    `gorm:"size:20" json:"avatar_color"`
	Role        string    `gorm:"size:20;not null;default:'player'" json:"role"`
	Status      string    `gorm:"size:20;not null;default:'connected'" json:"status"`
	JoinedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"joined_at"`

	// Relationship with the room
	GameRoom GameRoom `gorm:"foreignKey:RoomCode" json:"-"`
}
