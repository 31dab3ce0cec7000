package sync

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	game_constants "smrutimap/constants/game"
	"smrutimap/models/postgres"
	redis_models "smrutimap/models/redis"
	"smrutimap/services/storage"

	"golang.org/x/sync/singleflight"
)

// Emitter pushes an event to every client subscribed to a room channel.
// Satisfied by the socket.io server wrapper.
type Emitter interface {
	EmitToRoom(roomCode, event string, payload interface{})
}

// Advancer is the room state machine's clock path. The hub never advances
// rooms itself; it only reports that a deadline passed.
type Advancer interface {
	TimeoutAdvance(ctx context.Context, code string) error
}

// PresenceSource reads the advisory presence hash kept in Redis.
// Satisfied by the redis client wrapper.
type PresenceSource interface {
	GetRoomPresence(ctx context.Context, roomCode string) ([]redis_models.PlayerPresence, error)
	DeleteRoomPresence(ctx context.Context, roomCode string) error
}

// Event names broadcast on room channels.
const (
	EventRoomState = "room_state"
	EventRoomGone  = "room_gone"
)

// RoomState is the authoritative snapshot broadcast to a room's subscribers.
// Clients render from this alone; individual push events are only the trigger
// that fetches it sooner.
type RoomState struct {
	Room         *postgres.GameRoom         `json:"room"`
	Participants []postgres.RoomParticipant `json:"participants"`
	Leaderboard  []LeaderboardEntry         `json:"leaderboard"`
	Submitted    int                        `json:"submitted"`
	Expected     int                        `json:"expected"`
	AllSubmitted bool                       `json:"all_submitted"`
	ServerTime   int64                      `json:"server_time"`
}

// snapshot holds the fields whose change is material: anything else differing
// between two polls is not worth a broadcast.
type snapshot struct {
	status       string
	round        int
	phase        string
	scores       int
	hostKey      string
	participants int
}

/*
 * Hub keeps every subscribed client's view of a room converging on the
 * authoritative store. Two redundant paths feed it: change notifications
 * trigger an immediate refresh of the named room, and a fixed-interval
 * reconciliation poll re-fetches every tracked room regardless. Both funnel
 * into one idempotent refresh, deduplicated by singleflight, that broadcasts
 * only when a material field actually changed. Losing a notification
 * therefore costs latency, never consistency.
 */
type Hub struct {
	repo     storage.Repository
	presence PresenceSource
	emitter  Emitter
	advancer Advancer

	interval   time.Duration
	idleCutoff time.Duration

	group   singleflight.Group
	mu      sync.Mutex
	tracked map[string]snapshot
}

func NewHub(repo storage.Repository, presence PresenceSource, emitter Emitter, advancer Advancer) *Hub {
	return &Hub{
		repo:       repo,
		presence:   presence,
		emitter:    emitter,
		advancer:   advancer,
		interval:   game_constants.ReconcileIntervalSeconds * time.Second,
		idleCutoff: game_constants.RoomIdleCutoffMinutes * time.Minute,
		tracked:    make(map[string]snapshot),
	}
}

// Track starts reconciling a room. Socket handlers call it when the first
// local client joins the room channel.
func (h *Hub) Track(code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.tracked[code]; !ok {
		h.tracked[code] = snapshot{}
	}
}

func (h *Hub) Untrack(code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.tracked, code)
}

func (h *Hub) trackedCodes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	codes := make([]string, 0, len(h.tracked))
	for code := range h.tracked {
		codes = append(codes, code)
	}
	return codes
}

// Run drives the hub until ctx ends: push events refresh the named room
// immediately, the reconciliation ticker sweeps every tracked room, and a
// slower ticker closes out idle rooms.
func (h *Hub) Run(ctx context.Context, events <-chan storage.ChangeEvent) {
	reconcile := time.NewTicker(h.interval)
	defer reconcile.Stop()
	housekeep := time.NewTicker(time.Minute)
	defer housekeep.Stop()

	log.Printf("[SYNC] hub running, reconciling every %s", h.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[SYNC] hub stopped: %v", ctx.Err())
			return
		case ev, ok := <-events:
			if !ok {
				// Feed closed; the poll alone keeps us consistent
				events = nil
				continue
			}
			if err := h.Refresh(ctx, ev.RoomCode); err != nil {
				log.Printf("[SYNC-ERROR] push refresh of %s: %v", ev.RoomCode, err)
			}
		case <-reconcile.C:
			h.Reconcile(ctx)
			h.ScanTimeouts(ctx)
		case <-housekeep.C:
			h.Housekeep(ctx)
		}
	}
}

// Reconcile refreshes every tracked room once. Failures are logged and
// skipped; the next tick retries.
func (h *Hub) Reconcile(ctx context.Context) {
	for _, code := range h.trackedCodes() {
		if err := h.Refresh(ctx, code); err != nil {
			log.Printf("[SYNC-ERROR] reconciling %s: %v", code, err)
		}
	}
}

// Refresh fetches a room's authoritative state and broadcasts it if anything
// material changed. Idempotent, and concurrent calls for the same room
// collapse into one fetch.
func (h *Hub) Refresh(ctx context.Context, code string) error {
	_, err, _ := h.group.Do(code, func() (interface{}, error) {
		return nil, h.refresh(ctx, code)
	})
	return err
}

func (h *Hub) refresh(ctx context.Context, code string) error {
	h.mu.Lock()
	last, ok := h.tracked[code]
	h.mu.Unlock()
	if !ok {
		// Nobody here is subscribed
		return nil
	}

	room, err := h.repo.RoomByCode(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("[SYNC] room %s is gone, dropping it", code)
			h.emit(code, EventRoomGone, map[string]string{"room_code": code})
			h.Untrack(code)
			return nil
		}
		return err
	}
	scores, err := h.repo.ScoresByRoom(ctx, code)
	if err != nil {
		return err
	}
	participants, err := h.repo.ParticipantsByRoom(ctx, code)
	if err != nil {
		return err
	}

	current := snapshot{
		status:       room.Status,
		round:        room.CurrentRound,
		phase:        room.RoundPhase,
		scores:       len(scores),
		hostKey:      room.HostKey,
		participants: len(participants),
	}
	if current == last {
		return nil
	}

	h.mu.Lock()
	if _, still := h.tracked[code]; still {
		h.tracked[code] = current
	}
	h.mu.Unlock()

	h.emit(code, EventRoomState, h.buildState(ctx, room, scores, participants))
	return nil
}

// State assembles the authoritative room snapshot on demand, bypassing the
// material-change gate. Explicit poll paths (the HTTP room view and client
// state requests) go through here.
func (h *Hub) State(ctx context.Context, code string) (*RoomState, error) {
	room, err := h.repo.RoomByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	scores, err := h.repo.ScoresByRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	participants, err := h.repo.ParticipantsByRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	return h.buildState(ctx, room, scores, participants), nil
}

func (h *Hub) buildState(ctx context.Context, room *postgres.GameRoom,
	scores []postgres.RoundScore, participants []postgres.RoomParticipant) *RoomState {
	// Presence is advisory: an unreachable Redis degrades readiness to the
	// authoritative signals instead of failing the snapshot.
	var present []redis_models.PlayerPresence
	if h.presence != nil {
		var err error
		if present, err = h.presence.GetRoomPresence(ctx, room.Code); err != nil {
			log.Printf("[SYNC] presence unavailable for %s: %v", room.Code, err)
			present = nil
		}
	}

	minViable := 1
	if room.Mode == game_constants.ModeMultiplayer {
		minViable = game_constants.MinViablePlayers
	}
	submitted, expected, allIn := Readiness(scores, room.CurrentRound, present, minViable)

	return &RoomState{
		Room:         room,
		Participants: participants,
		Leaderboard:  Aggregate(scores, participants),
		Submitted:    submitted,
		Expected:     expected,
		AllSubmitted: allIn,
		ServerTime:   time.Now().UnixMilli(),
	}
}

func (h *Hub) emit(code, event string, payload interface{}) {
	if h.emitter == nil {
		return
	}
	h.emitter.EmitToRoom(code, event, payload)
}

// ScanTimeouts reports overdue rounds to the state machine. Every instance
// scans every playing room; the conditional update behind TimeoutAdvance
// makes duplicate reports harmless.
func (h *Hub) ScanTimeouts(ctx context.Context) {
	if h.advancer == nil {
		return
	}
	rooms, err := h.repo.ActiveTimedRooms(ctx)
	if err != nil {
		log.Printf("[SYNC-ERROR] timeout scan: %v", err)
		return
	}
	now := time.Now()
	for i := range rooms {
		room := &rooms[i]
		deadline := room.RoundStartedAt.Add(time.Duration(room.TimePerRound) * time.Second)
		if now.Before(deadline) {
			continue
		}
		if err := h.advancer.TimeoutAdvance(ctx, room.Code); err != nil {
			log.Printf("[SYNC-ERROR] timeout advance of %s: %v", room.Code, err)
		}
	}
}

// Housekeep finishes rooms nobody has touched past the idle cutoff and clears
// their presence, so abandoned games stop costing scans forever.
func (h *Hub) Housekeep(ctx context.Context) {
	cutoff := time.Now().Add(-h.idleCutoff)
	rooms, err := h.repo.IdleRoomsBefore(ctx, cutoff)
	if err != nil {
		log.Printf("[SYNC-ERROR] idle room scan: %v", err)
		return
	}
	for i := range rooms {
		room := &rooms[i]
		guard := map[string]interface{}{"status": room.Status}
		updates := map[string]interface{}{
			"status":      game_constants.StatusFinished,
			"round_phase": game_constants.PhaseNotActive,
		}
		if err := h.repo.UpdateRoomGuarded(ctx, room.Code, guard, updates); err != nil {
			if !errors.Is(err, storage.ErrStale) && !errors.Is(err, storage.ErrNotFound) {
				log.Printf("[SYNC-ERROR] closing idle room %s: %v", room.Code, err)
			}
			continue
		}
		log.Printf("[HOUSEKEEPING] closed idle room %s (last update %s)",
			room.Code, room.UpdatedAt.Format(time.RFC3339))

		// Subscribers, if any, get the final state before the room is dropped
		if err := h.Refresh(ctx, room.Code); err != nil {
			log.Printf("[SYNC-ERROR] final refresh of %s: %v", room.Code, err)
		}
		if h.presence != nil {
			if err := h.presence.DeleteRoomPresence(ctx, room.Code); err != nil {
				log.Printf("[SYNC-ERROR] clearing presence of %s: %v", room.Code, err)
			}
		}
		h.Untrack(room.Code)
	}
}
