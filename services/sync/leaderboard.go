package sync

import (
	"sort"
	"time"

	game_constants "smrutimap/constants/game"
	"smrutimap/models/postgres"
)

// LeaderboardEntry is one ranked row of a room's standings.
type LeaderboardEntry struct {
	Rank         int     `json:"rank"`
	PlayerKey    string  `json:"player_key"`
	DisplayName  string  `json:"display_name"`
	AvatarColor  string  `json:"avatar_color,omitempty"`
	TotalScore   int     `json:"total_score"`
	RoundsPlayed int     `json:"rounds_played"`
	AverageScore float64 `json:"average_score"`
}

// Aggregate derives a room's leaderboard from its score rows. Always computed
// from scratch, a stored leaderboard would be a second source of truth.
//
// Every seated non-spectator appears, players with no submissions at total 0.
// A scorer whose participant row has vanished still counts: scores are
// authoritative, seats are not. Ordering is total score descending, ties going
// to the earlier joined_at and then the smaller player key, so every instance
// lists the same board. Ranks are dense: equal totals share a rank.
func Aggregate(scores []postgres.RoundScore, participants []postgres.RoomParticipant) []LeaderboardEntry {
	type seat struct {
		displayName string
		avatarColor string
		joinedAt    time.Time
	}
	seats := make(map[string]seat, len(participants))
	order := make([]string, 0, len(participants))
	for _, p := range participants {
		if p.Role == game_constants.RoleSpectator {
			continue
		}
		if _, dup := seats[p.PlayerKey]; dup {
			continue
		}
		seats[p.PlayerKey] = seat{p.DisplayName, p.AvatarColor, p.JoinedAt}
		order = append(order, p.PlayerKey)
	}

	totals := make(map[string]*LeaderboardEntry, len(seats))
	for _, key := range order {
		s := seats[key]
		totals[key] = &LeaderboardEntry{
			PlayerKey:   key,
			DisplayName: s.displayName,
			AvatarColor: s.avatarColor,
		}
	}
	for _, sc := range scores {
		e, ok := totals[sc.PlayerKey]
		if !ok {
			e = &LeaderboardEntry{PlayerKey: sc.PlayerKey, DisplayName: sc.PlayerKey}
			totals[sc.PlayerKey] = e
			order = append(order, sc.PlayerKey)
		}
		e.TotalScore += sc.TotalScore
		e.RoundsPlayed++
	}

	entries := make([]LeaderboardEntry, 0, len(totals))
	for _, key := range order {
		e := totals[key]
		if e.RoundsPlayed > 0 {
			e.AverageScore = float64(e.TotalScore) / float64(e.RoundsPlayed)
		}
		entries = append(entries, *e)
	}

	// Seatless scorers carry the zero joinedAt guard below, not a real time.
	joined := func(key string) (time.Time, bool) {
		s, ok := seats[key]
		return s.joinedAt, ok
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		ji, iSeated := joined(entries[i].PlayerKey)
		jj, jSeated := joined(entries[j].PlayerKey)
		if iSeated != jSeated {
			return iSeated
		}
		if iSeated && !ji.Equal(jj) {
			return ji.Before(jj)
		}
		return entries[i].PlayerKey < entries[j].PlayerKey
	})

	rank := 0
	lastTotal := 0
	for i := range entries {
		if i == 0 || entries[i].TotalScore != lastTotal {
			rank++
			lastTotal = entries[i].TotalScore
		}
		entries[i].Rank = rank
	}
	return entries
}
