package sync

import (
	"smrutimap/models/postgres"
	redis_models "smrutimap/models/redis"
)

// Readiness decides whether every expected player has answered the given
// round. Participant bookkeeping is unreliable under reconnects, so the
// expected count is computed defensively as the largest of three signals:
// distinct players who have ever scored in this room (a lower bound on the
// real player count), the live presence list, and the configured floor.
// Over-counting only makes the room wait; under-counting would advance a
// round past a player who is still answering.
func Readiness(scores []postgres.RoundScore, currentRound int, present []redis_models.PlayerPresence, minViable int) (submitted, expected int, ready bool) {
	thisRound := make(map[string]bool)
	everScored := make(map[string]bool)
	for _, sc := range scores {
		everScored[sc.PlayerKey] = true
		if sc.RoundNumber == currentRound {
			thisRound[sc.PlayerKey] = true
		}
	}
	submitted = len(thisRound)

	live := 0
	for _, p := range present {
		if p.Live() {
			live++
		}
	}

	expected = len(everScored)
	if live > expected {
		expected = live
	}
	if minViable > expected {
		expected = minViable
	}

	return submitted, expected, expected > 0 && submitted >= expected
}
