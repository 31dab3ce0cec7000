package postgres

import (
	"time"
)

/*
 * 'RoundScore' is one player's scored answer for one round. Immutable once
 * written. The composite unique index is the storage-level guard against
 * double submission: the first write wins, later ones violate the index.
 */
type RoundScore struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomCode      string    `gorm:"size:12;not null;uniqueIndex:idx_scores_room_player_round" json:"room_code"`
	PlayerKey     string    `gorm:"size:100;not null;uniqueIndex:idx_scores_room_player_round" json:"player_key"`
	RoundNumber   int       `gorm:"not null;uniqueIndex:idx_scores_room_player_round" json:"round_number"`
	ImageID       string    `gorm:"size:64;not null" json:"image_id"`
	YearGuess     int       `gorm:"not null" json:"year_guess"`
	ActualYear    int       `gorm:"not null" json:"actual_year"`
	GuessLat      float64   `gorm:"not null" json:"guess_lat"`
	GuessLng      float64   `gorm:"not null" json:"guess_lng"`
	YearScore     int       `gorm:"not null" json:"year_score"`
	LocationScore float64   `gorm:"not null" json:"location_score"`
	TimeBonus     int       `gorm:"default:0" json:"time_bonus"`
	TimeTaken     int       `gorm:"default:0" json:"time_taken"` // seconds between round start and submission
	TotalScore    int       `gorm:"not null" json:"total_score"` // display total, the number players compare
	SubmittedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"submitted_at"`

	// Relationship with the room
	GameRoom GameRoom `gorm:"foreignKey:RoomCode" json:"-"`
}
