package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

// FormatRoomPresenceKey returns the hash key holding one presence entry
// per player for a room. Field = player key, value = JSON PlayerPresence.
func FormatRoomPresenceKey(roomCode string) string {
	return fmt.Sprintf("room:%s:presence", roomCode)
}

// FormatGuestPoolKey returns the key holding a guest's image pool. The
// player key already carries the "guest:" prefix, so the result reads
// like "guest:a1b2c3:pool".
func FormatGuestPoolKey(playerKey string) string {
	return fmt.Sprintf("%s:pool", playerKey)
}
