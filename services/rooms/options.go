package rooms

import (
	game_constants "smrutimap/constants/game"
)

// RoomOptions are the host's knobs when opening a multiplayer room. Zero
// values mean "use the defaults"; out-of-range values are clamped rather
// than rejected, a bad slider should never block a game.
type RoomOptions struct {
	TotalRounds  int `json:"total_rounds"`
	TimePerRound int `json:"time_per_round"` // seconds
}

func (o RoomOptions) normalized() RoomOptions {
	if o.TotalRounds <= 0 {
		o.TotalRounds = game_constants.DefaultTotalRounds
	}
	if o.TotalRounds > game_constants.MaxTotalRounds {
		o.TotalRounds = game_constants.MaxTotalRounds
	}
	// Multiplayer rounds always run against a clock; the timeout path is
	// what keeps a room moving when players walk away.
	if o.TimePerRound <= 0 {
		o.TimePerRound = game_constants.DefaultTimePerRound
	}
	if o.TimePerRound < game_constants.MinTimePerRound {
		o.TimePerRound = game_constants.MinTimePerRound
	}
	if o.TimePerRound > game_constants.MaxTimePerRound {
		o.TimePerRound = game_constants.MaxTimePerRound
	}
	return o
}
