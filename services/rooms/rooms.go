package rooms

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	game_constants "smrutimap/constants/game"
	"smrutimap/models/postgres"
	redis_models "smrutimap/models/redis"
	"smrutimap/services/catalog"
	"smrutimap/services/identity"
	"smrutimap/services/imagepool"
	"smrutimap/services/scoring"
	"smrutimap/services/storage"
	"smrutimap/services/sync"
)

/*
 * Service is the room state machine: waiting -> playing -> finished, with
 * round phases not_active -> active -> results cycling inside playing.
 * Postgres is the single source of truth; every transition that can race
 * (start, advance, host failover) goes through a guarded conditional update,
 * and CAS losers adopt the winner's state instead of erroring.
 */
type Service struct {
	repo    storage.Repository
	catalog *catalog.Service
	pool    *imagepool.Allocator
	pub     storage.Publisher
}

func New(repo storage.Repository, cat *catalog.Service, pool *imagepool.Allocator, pub storage.Publisher) *Service {
	return &Service{repo: repo, catalog: cat, pool: pool, pub: pub}
}

func (s *Service) publish(ctx context.Context, code, kind string) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(ctx, storage.ChangeEvent{RoomCode: code, Kind: kind})
}

func (s *Service) roomByCode(ctx context.Context, code string) (*postgres.GameRoom, error) {
	room, err := s.repo.RoomByCode(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func defaultDisplayName(id identity.Identity) string {
	if id.Username != "" {
		return id.Username
	}
	if len(id.GuestID) >= 6 {
		return "Guest-" + id.GuestID[:6]
	}
	return "Guest"
}

// CreateRoom opens a multiplayer room in waiting state and seats the host.
func (s *Service) CreateRoom(ctx context.Context, host identity.Identity, displayName, avatarColor string, opts RoomOptions) (*postgres.GameRoom, error) {
	if host.IsZero() {
		return nil, ErrEmptyIdentity
	}
	opts = opts.normalized()
	if displayName == "" {
		displayName = defaultDisplayName(host)
	}

	room := &postgres.GameRoom{
		HostKey:      host.Key(),
		Status:       game_constants.StatusWaiting,
		RoundPhase:   game_constants.PhaseNotActive,
		TotalRounds:  opts.TotalRounds,
		TimePerRound: opts.TimePerRound,
		Mode:         game_constants.ModeMultiplayer,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("creating room: %w", err)
	}

	participant := &postgres.RoomParticipant{
		RoomCode:    room.Code,
		PlayerKey:   host.Key(),
		DisplayName: displayName,
		AvatarColor: avatarColor,
		Role:        game_constants.RoleHost,
		Status:      game_constants.ParticipantConnected,
		JoinedAt:    time.Now(),
	}
	if err := s.repo.AddParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("seating host in room %s: %w", room.Code, err)
	}

	log.Printf("[ROOM-CREATE] %s by %s (%d rounds, %ds per round)",
		room.Code, host.Key(), room.TotalRounds, room.TimePerRound)
	s.publish(ctx, room.Code, storage.EventRoom)
	return room, nil
}

// JoinRoom seats a new player in a waiting room. A player the room already
// knows is reconnecting: their seat flips back to connected whatever the
// room status, as long as the game is not over.
func (s *Service) JoinRoom(ctx context.Context, code string, id identity.Identity, displayName, avatarColor string) (*postgres.RoomParticipant, error) {
	if id.IsZero() {
		return nil, ErrEmptyIdentity
	}
	room, err := s.roomByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ParticipantByKey(ctx, code, id.Key())
	if err == nil {
		if room.Status == game_constants.StatusFinished {
			return nil, ErrRoomNotJoinable
		}
		if existing.Status != game_constants.ParticipantConnected {
			updates := map[string]interface{}{"status": game_constants.ParticipantConnected}
			if err := s.repo.UpdateParticipant(ctx, code, id.Key(), updates); err != nil {
				return nil, fmt.Errorf("reconnecting %s to room %s: %w", id.Key(), code, err)
			}
			existing.Status = game_constants.ParticipantConnected
			log.Printf("[ROOM-JOIN] %s reconnected to %s", id.Key(), code)
			s.publish(ctx, code, storage.EventParticipant)
		}
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	if room.Status != game_constants.StatusWaiting {
		return nil, ErrRoomNotJoinable
	}
	participants, err := s.repo.ParticipantsByRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(participants) >= game_constants.MaxPlayersPerRoom {
		return nil, ErrRoomFull
	}

	if displayName == "" {
		displayName = defaultDisplayName(id)
	}
	p := &postgres.RoomParticipant{
		RoomCode:    code,
		PlayerKey:   id.Key(),
		DisplayName: displayName,
		AvatarColor: avatarColor,
		Role:        game_constants.RolePlayer,
		Status:      game_constants.ParticipantConnected,
		JoinedAt:    time.Now(),
	}
	if err := s.repo.AddParticipant(ctx, p); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// The same player double-clicked join; the first row stands
			return s.repo.ParticipantByKey(ctx, code, id.Key())
		}
		return nil, fmt.Errorf("joining room %s: %w", code, err)
	}

	log.Printf("[ROOM-JOIN] %s joined %s (%d/%d seats)",
		id.Key(), code, len(participants)+1, game_constants.MaxPlayersPerRoom)
	s.publish(ctx, code, storage.EventParticipant)
	return p, nil
}

// SetReady flips a seated player's lobby-ready flag. Ready is a waiting-room
// signal for the host; once the game starts, submissions gate the rounds.
func (s *Service) SetReady(ctx context.Context, code string, id identity.Identity, ready bool) error {
	if id.IsZero() {
		return ErrEmptyIdentity
	}
	room, err := s.roomByCode(ctx, code)
	if err != nil {
		return err
	}
	if room.Status != game_constants.StatusWaiting {
		return ErrWrongStatus
	}
	participant, err := s.repo.ParticipantByKey(ctx, code, id.Key())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotParticipant
		}
		return err
	}

	status := game_constants.ParticipantConnected
	if ready {
		status = game_constants.ParticipantReady
	}
	if participant.Status == status {
		return nil
	}
	if err := s.repo.UpdateParticipant(ctx, code, id.Key(), map[string]interface{}{"status": status}); err != nil {
		return fmt.Errorf("setting ready in room %s: %w", code, err)
	}
	log.Printf("[ROOM-READY] %s in %s -> %s", id.Key(), code, status)
	s.publish(ctx, code, storage.EventParticipant)
	return nil
}

// StartGame moves a waiting room into playing. The whole image sequence is
// decided here, once, so every participant sees the same images in the same
// order. Only the host may start; a lost start race adopts the winner's game.
func (s *Service) StartGame(ctx context.Context, code string, actor identity.Identity) (*postgres.GameRoom, error) {
	room, err := s.roomByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.HostKey != actor.Key() {
		return nil, ErrNotHost
	}
	if room.Status == game_constants.StatusPlaying {
		return room, nil
	}
	if room.Status != game_constants.StatusWaiting {
		return nil, ErrWrongStatus
	}

	sequence := s.catalog.Random(room.TotalRounds)
	if len(sequence) == 0 {
		return nil, ErrNoImages
	}
	encoded, err := encodeSequence(sequence)
	if err != nil {
		return nil, fmt.Errorf("encoding image sequence: %w", err)
	}

	guard := map[string]interface{}{"status": game_constants.StatusWaiting}
	updates := map[string]interface{}{
		"status":           game_constants.StatusPlaying,
		"round_phase":      game_constants.PhaseActive,
		"current_round":    1,
		"total_rounds":     len(sequence),
		"current_image_id": sequence[0],
		"image_sequence":   encoded,
		"round_started_at": time.Now(),
	}
	if err := s.repo.UpdateRoomGuarded(ctx, code, guard, updates); err != nil {
		if errors.Is(err, storage.ErrStale) {
			// Someone started it already, play their game
			return s.roomByCode(ctx, code)
		}
		return nil, fmt.Errorf("starting room %s: %w", code, err)
	}

	log.Printf("[GAME-START] room %s, %d rounds of %ds", code, len(sequence), room.TimePerRound)
	s.publish(ctx, code, storage.EventRoom)
	return s.roomByCode(ctx, code)
}

// SubmitGuess scores one player's answer for the current round and persists
// it. The (room, player, round) unique index makes the first write win:
// later duplicates come back as ErrAlreadySubmitted with the stored row.
func (s *Service) SubmitGuess(ctx context.Context, code string, id identity.Identity, g scoring.Guess) (*postgres.RoundScore, error) {
	if id.IsZero() {
		return nil, ErrEmptyIdentity
	}
	room, err := s.roomByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.Status != game_constants.StatusPlaying {
		return nil, ErrWrongStatus
	}
	if room.RoundPhase != game_constants.PhaseActive {
		return nil, ErrRoundNotActive
	}

	participant, err := s.repo.ParticipantByKey(ctx, code, id.Key())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotParticipant
		}
		return nil, err
	}
	if participant.Role == game_constants.RoleSpectator {
		return nil, fmt.Errorf("%w: spectators cannot submit guesses", ErrNotParticipant)
	}

	img, ok := s.catalog.Get(room.CurrentImageID)
	if !ok {
		return nil, fmt.Errorf("round image %s missing from catalog", room.CurrentImageID)
	}

	// Timing is server-side: elapsed comes from the recorded round start,
	// never from the client.
	var elapsed float64
	if room.RoundStartedAt != nil {
		elapsed = time.Since(*room.RoundStartedAt).Seconds()
		if elapsed < 0 {
			elapsed = 0
		}
	}
	timed := room.IsTimed()
	var remaining float64
	if timed {
		remaining = float64(room.TimePerRound) - elapsed
		if remaining < 0 {
			remaining = 0
		}
	}

	breakdown := scoring.Complete(
		scoring.Actual{Year: img.Year, Lat: img.Lat, Lng: img.Lng},
		g, remaining, timed, scoring.TimerPerRound,
	)

	row := &postgres.RoundScore{
		RoomCode:      code,
		PlayerKey:     id.Key(),
		RoundNumber:   room.CurrentRound,
		ImageID:       img.ID,
		YearGuess:     g.Year,
		ActualYear:    img.Year,
		GuessLat:      g.Lat,
		GuessLng:      g.Lng,
		YearScore:     breakdown.YearScore,
		LocationScore: breakdown.LocationScore,
		TimeBonus:     breakdown.TimeBonus,
		TimeTaken:     int(elapsed),
		TotalScore:    breakdown.DisplayTotalScore,
		SubmittedAt:   time.Now(),
	}
	if err := s.repo.InsertScore(ctx, row); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			existing, lerr := s.repo.ScoreByKey(ctx, code, id.Key(), room.CurrentRound)
			if lerr != nil {
				return nil, lerr
			}
			return existing, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("saving guess for room %s: %w", code, err)
	}

	log.Printf("[GUESS] room %s round %d %s scored %d", code, room.CurrentRound, id.Key(), row.TotalScore)
	s.publish(ctx, code, storage.EventScore)
	s.maybeEnterResults(ctx, room)
	return row, nil
}

// roundProgress counts distinct submissions for the current round against
// the same defensive expectation the hub broadcasts: the largest of everyone
// who has ever scored in this room, the connected non-spectator seats, and
// the multiplayer floor. Participant bookkeeping is lossy under reconnects;
// over-counting only makes the room wait for its deadline, under-counting
// would close a round past a player who is still answering.
func (s *Service) roundProgress(ctx context.Context, room *postgres.GameRoom) (submitted, expected int, err error) {
	scores, err := s.repo.ScoresByRoom(ctx, room.Code)
	if err != nil {
		return 0, 0, err
	}
	participants, err := s.repo.ParticipantsByRoom(ctx, room.Code)
	if err != nil {
		return 0, 0, err
	}

	seated := make([]redis_models.PlayerPresence, 0, len(participants))
	for _, p := range participants {
		if p.Role == game_constants.RoleSpectator ||
			p.Status == game_constants.ParticipantDisconnected {
			continue
		}
		seated = append(seated, redis_models.PlayerPresence{
			PlayerKey: p.PlayerKey,
			Status:    redis_models.StatusConnected,
		})
	}

	minViable := 1
	if room.Mode == game_constants.ModeMultiplayer {
		minViable = game_constants.MinViablePlayers
	}
	submitted, expected, _ = sync.Readiness(scores, room.CurrentRound, seated, minViable)
	return submitted, expected, nil
}

// maybeEnterResults flips the round into the results phase once every
// expected player has answered. Losing the flip race is fine, somebody
// flipped it.
func (s *Service) maybeEnterResults(ctx context.Context, room *postgres.GameRoom) {
	submitted, expected, err := s.roundProgress(ctx, room)
	if err != nil || expected == 0 || submitted < expected {
		return
	}

	guard := map[string]interface{}{
		"status":        game_constants.StatusPlaying,
		"current_round": room.CurrentRound,
		"round_phase":   game_constants.PhaseActive,
	}
	updates := map[string]interface{}{"round_phase": game_constants.PhaseResults}
	if err := s.repo.UpdateRoomGuarded(ctx, room.Code, guard, updates); err != nil {
		if !errors.Is(err, storage.ErrStale) {
			log.Printf("[ROUND-ERROR] room %s entering results: %v", room.Code, err)
		}
		return
	}
	log.Printf("[ROUND] room %s round %d all guesses in", room.Code, room.CurrentRound)
	s.publish(ctx, room.Code, storage.EventRoom)
}

func roundDeadlinePassed(room *postgres.GameRoom, now time.Time) bool {
	if !room.IsTimed() || room.RoundStartedAt == nil {
		return false
	}
	deadline := room.RoundStartedAt.Add(time.Duration(room.TimePerRound) * time.Second)
	return now.After(deadline)
}

// AdvanceRound is the host's manual step to the next round (or to finished
// after the last one). It requires every expected player to have answered or
// the round clock to have run out. expectedRound makes the call idempotent:
// if a racer advanced first, the caller gets the winner's state, no error.
func (s *Service) AdvanceRound(ctx context.Context, code string, actor identity.Identity, expectedRound int) (*postgres.GameRoom, error) {
	room, err := s.roomByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.HostKey != actor.Key() {
		return nil, ErrNotHost
	}
	if room.Status == game_constants.StatusFinished {
		return room, nil
	}
	if room.Status != game_constants.StatusPlaying {
		return nil, ErrWrongStatus
	}
	if room.CurrentRound != expectedRound {
		// A racer already advanced; their state stands
		return room, nil
	}

	submitted, expected, err := s.roundProgress(ctx, room)
	if err != nil {
		return nil, err
	}
	ready := expected > 0 && submitted >= expected
	if !ready && !roundDeadlinePassed(room, time.Now()) {
		return nil, ErrAdvanceNotReady
	}

	return s.advance(ctx, room)
}

// TimeoutAdvance is the clock's path past an overdue round. Not gated on
// readiness or on the host: it fires for whoever notices the deadline, and
// the CAS keeps double fires harmless.
func (s *Service) TimeoutAdvance(ctx context.Context, code string) error {
	room, err := s.roomByCode(ctx, code)
	if err != nil {
		return err
	}
	if room.Status != game_constants.StatusPlaying || !roundDeadlinePassed(room, time.Now()) {
		return nil
	}

	log.Printf("[TIMEOUT] room %s round %d overdue", code, room.CurrentRound)
	_, err = s.advance(ctx, room)
	return err
}

// advance commits the transition out of room's current round: to the next
// round of the precomputed sequence, or to finished past the last one. The
// guard on current_round makes exactly one concurrent advance win.
func (s *Service) advance(ctx context.Context, room *postgres.GameRoom) (*postgres.GameRoom, error) {
	sequence := decodeSequence(room.ImageSequence)
	next := room.CurrentRound + 1
	// The sequence was fixed at start; images removed from the catalog since
	// then cannot be played, so their rounds are skipped.
	for next <= room.TotalRounds && next <= len(sequence) && !s.catalog.Contains(sequence[next-1]) {
		log.Printf("[ROOM-REPAIR] room %s skipping round %d, image %s left the catalog",
			room.Code, next, sequence[next-1])
		next++
	}
	finishing := next > room.TotalRounds || next > len(sequence)

	guard := map[string]interface{}{
		"status":        game_constants.StatusPlaying,
		"current_round": room.CurrentRound,
	}
	var updates map[string]interface{}
	if finishing {
		updates = map[string]interface{}{
			"status":           game_constants.StatusFinished,
			"round_phase":      game_constants.PhaseNotActive,
			"current_image_id": "",
			"round_started_at": nil,
		}
	} else {
		updates = map[string]interface{}{
			"current_round":    next,
			"round_phase":      game_constants.PhaseActive,
			"current_image_id": sequence[next-1],
			"round_started_at": time.Now(),
		}
	}

	if err := s.repo.UpdateRoomGuarded(ctx, room.Code, guard, updates); err != nil {
		if errors.Is(err, storage.ErrStale) {
			return s.roomByCode(ctx, room.Code)
		}
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("advancing room %s: %w", room.Code, err)
	}

	if finishing {
		log.Printf("[GAME-OVER] room %s finished after round %d", room.Code, room.CurrentRound)
	} else {
		log.Printf("[ROUND-ADVANCE] room %s to round %d/%d", room.Code, next, room.TotalRounds)
	}
	s.publish(ctx, room.Code, storage.EventRoom)
	return s.roomByCode(ctx, room.Code)
}

// LeaveRoom marks the player's seat disconnected, keeping their score
// history. A departing host hands the room to the earliest-joined connected
// player; an abandoned room is closed out.
func (s *Service) LeaveRoom(ctx context.Context, code string, id identity.Identity) error {
	if id.IsZero() {
		return ErrEmptyIdentity
	}
	room, err := s.roomByCode(ctx, code)
	if err != nil {
		return err
	}
	participant, err := s.repo.ParticipantByKey(ctx, code, id.Key())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotParticipant
		}
		return err
	}

	if participant.Status != game_constants.ParticipantDisconnected {
		updates := map[string]interface{}{"status": game_constants.ParticipantDisconnected}
		if err := s.repo.UpdateParticipant(ctx, code, id.Key(), updates); err != nil {
			return fmt.Errorf("leaving room %s: %w", code, err)
		}
	}
	log.Printf("[ROOM-LEAVE] %s left %s", id.Key(), code)

	if room.Status != game_constants.StatusFinished && room.HostKey == id.Key() {
		if err := s.failoverHost(ctx, room); err != nil {
			return err
		}
	}
	s.publish(ctx, code, storage.EventParticipant)
	return nil
}

// failoverHost promotes the earliest-joined present non-host player. Ready
// counts as present, disconnected does not. Deterministic order (joined_at,
// then id) means every instance picks the same heir; the guard on the old
// host_key means only one promotion lands.
func (s *Service) failoverHost(ctx context.Context, room *postgres.GameRoom) error {
	participants, err := s.repo.ParticipantsByRoom(ctx, room.Code)
	if err != nil {
		return err
	}
	var heir *postgres.RoomParticipant
	for i := range participants {
		p := &participants[i]
		if p.PlayerKey == room.HostKey ||
			p.Role == game_constants.RoleSpectator ||
			p.Status == game_constants.ParticipantDisconnected {
			continue
		}
		heir = p
		break
	}

	guard := map[string]interface{}{"host_key": room.HostKey}
	if heir == nil {
		// Nobody left to run the room
		updates := map[string]interface{}{
			"status":      game_constants.StatusFinished,
			"round_phase": game_constants.PhaseNotActive,
		}
		if err := s.repo.UpdateRoomGuarded(ctx, room.Code, guard, updates); err != nil && !errors.Is(err, storage.ErrStale) {
			return err
		}
		log.Printf("[ROOM-CLOSE] %s abandoned by host %s", room.Code, room.HostKey)
		s.publish(ctx, room.Code, storage.EventRoom)
		return nil
	}

	if err := s.repo.UpdateRoomGuarded(ctx, room.Code, guard, map[string]interface{}{"host_key": heir.PlayerKey}); err != nil {
		if errors.Is(err, storage.ErrStale) {
			// A concurrent leave already promoted somebody
			return nil
		}
		return err
	}

	// Role flips are cosmetic; game_rooms.host_key is what authorizes
	if err := s.repo.UpdateParticipant(ctx, room.Code, heir.PlayerKey, map[string]interface{}{"role": game_constants.RoleHost}); err != nil {
		log.Printf("[HOST-FAILOVER] room %s could not flip heir role: %v", room.Code, err)
	}
	if err := s.repo.UpdateParticipant(ctx, room.Code, room.HostKey, map[string]interface{}{"role": game_constants.RolePlayer}); err != nil {
		log.Printf("[HOST-FAILOVER] room %s could not flip old host role: %v", room.Code, err)
	}
	log.Printf("[HOST-FAILOVER] room %s host %s -> %s", room.Code, room.HostKey, heir.PlayerKey)
	s.publish(ctx, room.Code, storage.EventRoom)
	return nil
}

// --- Reads for controllers, socket handlers and the sync hub ---

func (s *Service) Room(ctx context.Context, code string) (*postgres.GameRoom, error) {
	return s.roomByCode(ctx, code)
}

func (s *Service) Participants(ctx context.Context, code string) ([]postgres.RoomParticipant, error) {
	if _, err := s.roomByCode(ctx, code); err != nil {
		return nil, err
	}
	return s.repo.ParticipantsByRoom(ctx, code)
}

func (s *Service) Scores(ctx context.Context, code string) ([]postgres.RoundScore, error) {
	if _, err := s.roomByCode(ctx, code); err != nil {
		return nil, err
	}
	return s.repo.ScoresByRoom(ctx, code)
}

func (s *Service) RoundScores(ctx context.Context, code string, round int) ([]postgres.RoundScore, error) {
	if _, err := s.roomByCode(ctx, code); err != nil {
		return nil, err
	}
	return s.repo.ScoresByRoomRound(ctx, code, round)
}

// OpenRoomsFor lists the unfinished rooms a player still holds a live seat
// in. The disconnect handler walks this to release every seat at once.
func (s *Service) OpenRoomsFor(ctx context.Context, id identity.Identity) ([]string, error) {
	if id.IsZero() {
		return nil, ErrEmptyIdentity
	}
	return s.repo.OpenRoomCodesForPlayer(ctx, id.Key())
}
