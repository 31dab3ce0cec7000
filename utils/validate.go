package utils

import (
	"fmt"
	"regexp"
	"strings"

	game_constants "smrutimap/constants/game"
)

// Input validation for everything that reaches the game from outside.
// Rejections happen here, before any store round trip.

var (
	roomCodePattern = regexp.MustCompile(
		fmt.Sprintf("^[%s]{%d}$", game_constants.RoomCodeCharset, game_constants.RoomCodeLength))
	guestIDPattern  = regexp.MustCompile("^[0-9a-f]{32}$")
	usernamePattern = regexp.MustCompile("^[a-zA-Z0-9_]{3,30}$")
)

const (
	MaxDisplayNameLength = 30
	MinYearGuess         = 1000
	MaxYearGuess         = 2100
)

// NormalizeRoomCode uppercases and trims a code so user input like
// " ab2c3d " matches the stored form.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func ValidRoomCode(code string) bool {
	return roomCodePattern.MatchString(code)
}

func ValidGuestID(id string) bool {
	return guestIDPattern.MatchString(id)
}

func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

// ValidDisplayName allows empty (the caller substitutes a default) but caps
// length and rejects names that are only whitespace.
func ValidDisplayName(name string) bool {
	if name == "" {
		return true
	}
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && len(name) <= MaxDisplayNameLength
}

// ValidGuess checks a guess submission's fields. Years far outside the
// catalog and coordinates off the globe are rejected outright.
func ValidGuess(year int, lat, lng float64) error {
	if year < MinYearGuess || year > MaxYearGuess {
		return fmt.Errorf("year %d out of range [%d, %d]", year, MinYearGuess, MaxYearGuess)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %.4f out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %.4f out of range [-180, 180]", lng)
	}
	return nil
}
