package postgres

import (
	"math/rand"
	"time"

	game_constants "smrutimap/constants/game"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
 * 'GameRoom' is one game, multiplayer or solo. The image sequence is decided
 * once when the game starts and shared by every participant, so all players
 * see identical images in identical order.
 */
type GameRoom struct {
	Code           string         `gorm:"primaryKey;size:12;not null" json:"code"`
	HostKey        string         `gorm:"size:100;not null;index:idx_game_rooms_host" json:"host_key"`
	Status         string         `gorm:"size:20;not null;default:'waiting';index:idx_game_rooms_status" json:"status"`
	RoundPhase     string         `gorm:"size:20;not null;default:'not_active'" json:"round_phase"`
	CurrentRound   int            `gorm:"default:0" json:"current_round"`
	TotalRounds    int            `gorm:"default:5" json:"total_rounds"`
	TimePerRound   int            `gorm:"default:60" json:"time_per_round"` // seconds, 0 = untimed
	Mode           string         `gorm:"size:20;not null;default:'multiplayer'" json:"mode"`
	DailyKey       string         `gorm:"size:10;index:idx_game_rooms_daily" json:"daily_key,omitempty"` // YYYY-MM-DD, daily mode only
	CurrentImageID string         `gorm:"size:64" json:"current_image_id"`
	ImageSequence  datatypes.JSON `gorm:"default:'[]'" json:"image_sequence"`
	RoundStartedAt *time.Time     `json:"round_started_at"`
	CreatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Relationship with the players sitting in the room
	Participants []*RoomParticipant `gorm:"foreignKey:RoomCode;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"participants,omitempty"`
}

// Random room code generation
func generateRoomCode(length int) string {
	charset := game_constants.RoomCodeCharset
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// Ensure the code is truly unique. Codes are short so collisions do happen.
func (r *GameRoom) BeforeCreate(tx *gorm.DB) (err error) {
	if r.Code != "" {
		return nil
	}
	for {
		newCode := generateRoomCode(game_constants.RoomCodeLength)
		var existing GameRoom
		if err := tx.Where("code = ?", newCode).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				r.Code = newCode
				return nil
			}
			return err
		}
		// Taken, loop again for a fresh code
	}
}

// IsTimed reports whether rounds in this room run against a clock.
func (r *GameRoom) IsTimed() bool {
	return r.TimePerRound > 0 && (r.Mode == game_constants.ModeTimed ||
		r.Mode == game_constants.ModeMultiplayer || r.Mode == game_constants.ModeDaily)
}
