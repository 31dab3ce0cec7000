package rooms

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	game_constants "smrutimap/constants/game"
	"smrutimap/models/postgres"
	"smrutimap/services/identity"
	"smrutimap/services/storage"
)

const dailyKeyLayout = "2006-01-02"

// SoloSummary is the end-of-game recap for a single-player session. Images
// carries the full catalog entries for the played rounds, in round order, so
// the recap can show where each photo actually was.
type SoloSummary struct {
	Room         *postgres.GameRoom         `json:"room"`
	Rounds       []postgres.RoundScore      `json:"rounds"`
	Images       []postgres.HistoricalImage `json:"images"`
	TotalScore   int                        `json:"total_score"`
	AverageScore float64                    `json:"average_score"`
	BestRound    int                        `json:"best_round"` // round number, 0 when nothing was played
}

// StartSolo opens and immediately starts a one-player game. Classic and
// timed modes draw their images from the player's pool, so images never
// repeat across sessions until the catalog is exhausted. Daily mode derives
// the day's shared sequence from the date key; starting the same daily twice
// resumes the existing game.
func (s *Service) StartSolo(ctx context.Context, id identity.Identity, mode string, rounds, timePerRound int) (*postgres.GameRoom, error) {
	if id.IsZero() {
		return nil, ErrEmptyIdentity
	}

	switch mode {
	case game_constants.ModeClassic:
		timePerRound = 0
	case game_constants.ModeTimed:
		if timePerRound <= 0 {
			timePerRound = game_constants.DefaultTimePerRound
		}
		if timePerRound < game_constants.MinTimePerRound {
			timePerRound = game_constants.MinTimePerRound
		}
		if timePerRound > game_constants.MaxTimePerRound {
			timePerRound = game_constants.MaxTimePerRound
		}
	case game_constants.ModeDaily:
		rounds = game_constants.DefaultTotalRounds
		timePerRound = game_constants.DefaultTimePerRound
	default:
		return nil, fmt.Errorf("%w: %q is not a solo mode", ErrInvalidOptions, mode)
	}
	if rounds <= 0 {
		rounds = game_constants.DefaultTotalRounds
	}
	if rounds > game_constants.MaxTotalRounds {
		rounds = game_constants.MaxTotalRounds
	}

	now := time.Now()
	var sequence []string
	var dailyKey string
	if mode == game_constants.ModeDaily {
		dailyKey = now.UTC().Format(dailyKeyLayout)
		existing, err := s.repo.DailyRoomForPlayer(ctx, id.Key(), dailyKey)
		if err == nil {
			log.Printf("[SOLO-START] %s resuming daily %s in room %s", id.Key(), dailyKey, existing.Code)
			return existing, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		sequence = dailySequence(dailyKey, s.catalog.IDs(), rounds)
	} else {
		images, err := s.pool.GameImages(ctx, id, rounds)
		if err != nil {
			return nil, fmt.Errorf("drawing solo images: %w", err)
		}
		for _, img := range images {
			sequence = append(sequence, img.ID)
		}
	}
	if len(sequence) == 0 {
		return nil, ErrNoImages
	}

	encoded, err := encodeSequence(sequence)
	if err != nil {
		return nil, fmt.Errorf("encoding image sequence: %w", err)
	}

	started := now
	room := &postgres.GameRoom{
		HostKey:        id.Key(),
		Status:         game_constants.StatusPlaying,
		RoundPhase:     game_constants.PhaseActive,
		CurrentRound:   1,
		TotalRounds:    len(sequence),
		TimePerRound:   timePerRound,
		Mode:           mode,
		DailyKey:       dailyKey,
		CurrentImageID: sequence[0],
		ImageSequence:  encoded,
		RoundStartedAt: &started,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("creating solo room: %w", err)
	}

	participant := &postgres.RoomParticipant{
		RoomCode:    room.Code,
		PlayerKey:   id.Key(),
		DisplayName: defaultDisplayName(id),
		Role:        game_constants.RoleHost,
		Status:      game_constants.ParticipantConnected,
		JoinedAt:    now,
	}
	if err := s.repo.AddParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("seating solo player in %s: %w", room.Code, err)
	}

	log.Printf("[SOLO-START] %s started %s game %s (%d rounds)", id.Key(), mode, room.Code, len(sequence))
	s.publish(ctx, room.Code, storage.EventRoom)
	return room, nil
}

// Summary assembles the per-round breakdown and totals for a room. Built for
// the solo recap screen, but it works on any room's scores.
func (s *Service) Summary(ctx context.Context, code string) (*SoloSummary, error) {
	room, err := s.roomByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	scores, err := s.repo.ScoresByRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	summary := &SoloSummary{Room: room, Rounds: scores}
	best := 0
	imageIDs := make([]string, 0, len(scores))
	seen := make(map[string]bool, len(scores))
	for _, sc := range scores {
		summary.TotalScore += sc.TotalScore
		if sc.TotalScore > best {
			best = sc.TotalScore
			summary.BestRound = sc.RoundNumber
		}
		if !seen[sc.ImageID] {
			seen[sc.ImageID] = true
			imageIDs = append(imageIDs, sc.ImageID)
		}
	}
	if len(scores) > 0 {
		summary.AverageScore = float64(summary.TotalScore) / float64(len(scores))
	}

	images, err := s.repo.ImagesByIDs(ctx, imageIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]postgres.HistoricalImage, len(images))
	for _, img := range images {
		byID[img.ID] = img
	}
	for _, id := range imageIDs {
		if img, ok := byID[id]; ok {
			summary.Images = append(summary.Images, img)
		}
	}
	return summary, nil
}

// DailyLeaderboard ranks everyone who played a date's daily challenge.
// An empty date means today (UTC, same key the sequences derive from).
func (s *Service) DailyLeaderboard(ctx context.Context, dailyKey string, limit int) ([]storage.DailyTotal, error) {
	if dailyKey == "" {
		dailyKey = time.Now().UTC().Format(dailyKeyLayout)
	}
	if _, err := time.Parse(dailyKeyLayout, dailyKey); err != nil {
		return nil, fmt.Errorf("%w: bad date %q, want YYYY-MM-DD", ErrInvalidOptions, dailyKey)
	}
	return s.repo.DailyTotals(ctx, dailyKey, limit)
}
