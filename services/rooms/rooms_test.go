package rooms_test

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"smrutimap/config"
	game_constants "smrutimap/constants/game"
	"smrutimap/models/postgres"
	"smrutimap/services/catalog"
	"smrutimap/services/identity"
	"smrutimap/services/imagepool"
	"smrutimap/services/rooms"
	"smrutimap/services/scoring"
	"smrutimap/services/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db   *gorm.DB
	repo storage.Repository
	cat  *catalog.Service
	svc  *rooms.Service
}

func newTestEnv(t *testing.T, imageCount int) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "smrutimap_test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "opening sqlite test database")
	require.NoError(t, config.MigrateDatabase(db))

	for i := 0; i < imageCount; i++ {
		img := postgres.HistoricalImage{
			ID:   fmt.Sprintf("img-%02d", i),
			URL:  fmt.Sprintf("https://photos.example/%02d.jpg", i),
			Year: 1900 + i,
			Lat:  40.0 + float64(i)*0.1,
			Lng:  -74.0 - float64(i)*0.1,
		}
		require.NoError(t, db.Create(&img).Error)
	}

	repo := storage.NewRepository(db)
	cat := catalog.New(repo)
	require.NoError(t, cat.Refresh(context.Background()))

	// Guests share the sqlite-backed store in tests; the Store contract is
	// identical either way.
	store := imagepool.NewPostgresStore(repo)
	pool := imagepool.New(store, store, cat)

	return &testEnv{
		db:   db,
		repo: repo,
		cat:  cat,
		svc:  rooms.New(repo, cat, pool, nil),
	}
}

// backdateRound moves a room's round start into the past, as if the clock
// had been running that long.
func (e *testEnv) backdateRound(t *testing.T, code string, by time.Duration) {
	t.Helper()
	started := time.Now().Add(-by)
	err := e.db.Model(&postgres.GameRoom{}).Where("code = ?", code).
		Update("round_started_at", started).Error
	require.NoError(t, err)
}

// perfectGuess answers the room's current image exactly.
func (e *testEnv) perfectGuess(t *testing.T, code string) scoring.Guess {
	t.Helper()
	room, err := e.svc.Room(context.Background(), code)
	require.NoError(t, err)
	img, ok := e.cat.Get(room.CurrentImageID)
	require.True(t, ok, "room %s has no current image in the catalog", code)
	return scoring.Guess{Year: img.Year, Lat: img.Lat, Lng: img.Lng}
}

var (
	host  = identity.ForUser("alice")
	bob   = identity.ForUser("bob")
	carol = identity.ForUser("carol")
)

func TestCreateRoomSeatsHost(t *testing.T) {
	env := newTestEnv(t, 6)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "crimson", rooms.RoomOptions{})
	require.NoError(t, err)
	assert.Len(t, room.Code, game_constants.RoomCodeLength)
	assert.Equal(t, game_constants.StatusWaiting, room.Status)
	assert.Equal(t, game_constants.PhaseNotActive, room.RoundPhase)
	assert.Equal(t, "user:alice", room.HostKey)
	assert.Equal(t, game_constants.DefaultTotalRounds, room.TotalRounds)
	assert.Equal(t, game_constants.DefaultTimePerRound, room.TimePerRound)

	participants, err := env.svc.Participants(ctx, room.Code)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, game_constants.RoleHost, participants[0].Role)
	assert.Equal(t, "Alice", participants[0].DisplayName)
	assert.Equal(t, game_constants.ParticipantConnected, participants[0].Status)
}

func TestCreateRoomClampsOptions(t *testing.T) {
	env := newTestEnv(t, 6)

	room, err := env.svc.CreateRoom(context.Background(), host, "Alice", "",
		rooms.RoomOptions{TotalRounds: 99, TimePerRound: 9999})
	require.NoError(t, err)
	assert.Equal(t, game_constants.MaxTotalRounds, room.TotalRounds)
	assert.Equal(t, game_constants.MaxTimePerRound, room.TimePerRound)

	room, err = env.svc.CreateRoom(context.Background(), host, "Alice", "",
		rooms.RoomOptions{TimePerRound: 3})
	require.NoError(t, err)
	assert.Equal(t, game_constants.MinTimePerRound, room.TimePerRound)
}

func TestJoinRoomLifecycle(t *testing.T) {
	env := newTestEnv(t, 6)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)

	p, err := env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "teal")
	require.NoError(t, err)
	assert.Equal(t, game_constants.RolePlayer, p.Role)
	assert.Equal(t, "user:bob", p.PlayerKey)

	// Joining again is a no-op reconnect, not a second seat
	again, err := env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "teal")
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)

	participants, err := env.svc.Participants(ctx, room.Code)
	require.NoError(t, err)
	assert.Len(t, participants, 2)
}

func TestJoinRoomFull(t *testing.T) {
	env := newTestEnv(t, 6)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)

	for i := 1; i < game_constants.MaxPlayersPerRoom; i++ {
		_, err := env.svc.JoinRoom(ctx, room.Code, identity.ForUser(fmt.Sprintf("player%d", i)), "", "")
		require.NoError(t, err)
	}

	_, err = env.svc.JoinRoom(ctx, room.Code, identity.ForUser("straggler"), "", "")
	assert.ErrorIs(t, err, rooms.ErrRoomFull)
}

func TestJoinRoomGuards(t *testing.T) {
	env := newTestEnv(t, 6)
	ctx := context.Background()

	_, err := env.svc.JoinRoom(ctx, "NOSUCH", bob, "", "")
	assert.ErrorIs(t, err, rooms.ErrRoomNotFound)

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)
	_, err = env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)

	// New players cannot enter a running game
	_, err = env.svc.JoinRoom(ctx, room.Code, carol, "Carol", "")
	assert.ErrorIs(t, err, rooms.ErrRoomNotJoinable)

	// A seated player who dropped can reconnect mid-game
	require.NoError(t, env.svc.LeaveRoom(ctx, room.Code, bob))
	p, err := env.svc.JoinRoom(ctx, room.Code, bob, "", "")
	require.NoError(t, err)
	assert.Equal(t, game_constants.ParticipantConnected, p.Status)
}

func TestStartGameHostOnly(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)

	_, err = env.svc.StartGame(ctx, room.Code, bob)
	assert.ErrorIs(t, err, rooms.ErrNotHost)

	started, err := env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)
	assert.Equal(t, game_constants.StatusPlaying, started.Status)
	assert.Equal(t, game_constants.PhaseActive, started.RoundPhase)
	assert.Equal(t, 1, started.CurrentRound)
	assert.NotEmpty(t, started.CurrentImageID)
	require.NotNil(t, started.RoundStartedAt)

	// Starting twice is idempotent
	again, err := env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)
	assert.Equal(t, started.CurrentRound, again.CurrentRound)
}

func TestStartGameClampsRoundsToCatalog(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{TotalRounds: 10})
	require.NoError(t, err)
	started, err := env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)
	assert.Equal(t, 3, started.TotalRounds, "sequence cannot outgrow the catalog")
}

func TestStartGameEmptyCatalog(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.StartGame(ctx, room.Code, host)
	assert.ErrorIs(t, err, rooms.ErrNoImages)
}

func TestSubmitGuessScoresRow(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)
	_, err = env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)

	row, err := env.svc.SubmitGuess(ctx, room.Code, bob, env.perfectGuess(t, room.Code))
	require.NoError(t, err)
	assert.Equal(t, 100, row.YearScore)
	assert.Equal(t, 100.0, row.LocationScore)
	assert.Equal(t, 1, row.RoundNumber)
	assert.Equal(t, "user:bob", row.PlayerKey)
	assert.Positive(t, row.TimeBonus, "fast answers in timed rooms earn a bonus")
	assert.Equal(t, 10000+row.TimeBonus, row.TotalScore)
}

func TestSubmitGuessTimingIsServerSide(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)
	_, err = env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)

	// 20 of the 60 seconds are gone; roughly 40 remain
	env.backdateRound(t, room.Code, 20*time.Second)
	row, err := env.svc.SubmitGuess(ctx, room.Code, bob, env.perfectGuess(t, room.Code))
	require.NoError(t, err)
	assert.InDelta(t, 20, row.TimeTaken, 2)
	assert.InDelta(t, 80, row.TimeBonus, 5)
}

func TestSubmitGuessDuplicateFirstWins(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)
	_, err = env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)

	first, err := env.svc.SubmitGuess(ctx, room.Code, bob, env.perfectGuess(t, room.Code))
	require.NoError(t, err)

	worse := scoring.Guess{Year: 1700, Lat: 0, Lng: 0}
	second, err := env.svc.SubmitGuess(ctx, room.Code, bob, worse)
	assert.ErrorIs(t, err, rooms.ErrAlreadySubmitted)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID, "caller must get the stored row back")
	assert.Equal(t, first.YearGuess, second.YearGuess)

	scores, err := env.svc.RoundScores(ctx, room.Code, 1)
	require.NoError(t, err)
	bobRows := 0
	for _, sc := range scores {
		if sc.PlayerKey == "user:bob" {
			bobRows++
		}
	}
	assert.Equal(t, 1, bobRows)
}

func TestSubmitGuessGuards(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)

	// Guessing in a waiting room
	_, err = env.svc.SubmitGuess(ctx, room.Code, bob, scoring.Guess{Year: 1950})
	assert.ErrorIs(t, err, rooms.ErrWrongStatus)

	_, err = env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)

	// Guessing without a seat
	_, err = env.svc.SubmitGuess(ctx, room.Code, carol, scoring.Guess{Year: 1950})
	assert.ErrorIs(t, err, rooms.ErrNotParticipant)
}

func TestResultsPhaseAfterAllSubmit(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)
	_, err = env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)

	_, err = env.svc.SubmitGuess(ctx, room.Code, host, env.perfectGuess(t, room.Code))
	require.NoError(t, err)
	current, err := env.svc.Room(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, game_constants.PhaseActive, current.RoundPhase, "one of two answers keeps the round open")

	_, err = env.svc.SubmitGuess(ctx, room.Code, bob, env.perfectGuess(t, room.Code))
	require.NoError(t, err)
	current, err = env.svc.Room(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, game_constants.PhaseResults, current.RoundPhase)

	// The closed round accepts no more guesses
	_, err = env.svc.SubmitGuess(ctx, room.Code, bob, scoring.Guess{Year: 1950})
	assert.ErrorIs(t, err, rooms.ErrRoundNotActive)
}

func TestAdvanceRoundExactlyOnce(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)
	started, err := env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)
	firstImage := started.CurrentImageID

	_, err = env.svc.SubmitGuess(ctx, room.Code, host, env.perfectGuess(t, room.Code))
	require.NoError(t, err)
	_, err = env.svc.SubmitGuess(ctx, room.Code, bob, env.perfectGuess(t, room.Code))
	require.NoError(t, err)

	advanced, err := env.svc.AdvanceRound(ctx, room.Code, host, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, advanced.CurrentRound)
	assert.Equal(t, game_constants.PhaseActive, advanced.RoundPhase)
	assert.NotEqual(t, firstImage, advanced.CurrentImageID)

	// Replaying the same advance is absorbed, not double-applied
	replayed, err := env.svc.AdvanceRound(ctx, room.Code, host, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, replayed.CurrentRound)
}

func TestAdvanceRequiresReadinessOrDeadline(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)
	_, err = env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)

	_, err = env.svc.SubmitGuess(ctx, room.Code, host, env.perfectGuess(t, room.Code))
	require.NoError(t, err)

	// Bob has not answered and the clock has not run out
	_, err = env.svc.AdvanceRound(ctx, room.Code, host, 1)
	assert.ErrorIs(t, err, rooms.ErrAdvanceNotReady)

	_, err = env.svc.AdvanceRound(ctx, room.Code, bob, 1)
	assert.ErrorIs(t, err, rooms.ErrNotHost)

	env.backdateRound(t, room.Code, time.Duration(room.TimePerRound+5)*time.Second)
	advanced, err := env.svc.AdvanceRound(ctx, room.Code, host, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, advanced.CurrentRound)
}

// A player who has scored in this room stays expected even while their seat
// is marked disconnected: a mid-round drop must not let the host close the
// round under them before the deadline.
func TestAdvanceWaitsForDisconnectedScorer(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{TotalRounds: 3})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, carol, "Carol", "")
	require.NoError(t, err)
	_, err = env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)

	for _, player := range []identity.Identity{host, bob, carol} {
		_, err = env.svc.SubmitGuess(ctx, room.Code, player, env.perfectGuess(t, room.Code))
		require.NoError(t, err)
	}
	_, err = env.svc.AdvanceRound(ctx, room.Code, host, 1)
	require.NoError(t, err)

	// Carol drops mid-round 2. Two of three answers must neither flip the
	// round to results nor let the host advance while the clock runs.
	require.NoError(t, env.svc.LeaveRoom(ctx, room.Code, carol))
	_, err = env.svc.SubmitGuess(ctx, room.Code, host, env.perfectGuess(t, room.Code))
	require.NoError(t, err)
	_, err = env.svc.SubmitGuess(ctx, room.Code, bob, env.perfectGuess(t, room.Code))
	require.NoError(t, err)

	current, err := env.svc.Room(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, game_constants.PhaseActive, current.RoundPhase,
		"round must stay open for the third scorer")

	_, err = env.svc.AdvanceRound(ctx, room.Code, host, 2)
	assert.ErrorIs(t, err, rooms.ErrAdvanceNotReady)

	// Carol reconnects and answers, and only now does the round close
	_, err = env.svc.JoinRoom(ctx, room.Code, carol, "Carol", "")
	require.NoError(t, err)
	_, err = env.svc.SubmitGuess(ctx, room.Code, carol, env.perfectGuess(t, room.Code))
	require.NoError(t, err)

	advanced, err := env.svc.AdvanceRound(ctx, room.Code, host, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, advanced.CurrentRound)
}

func TestAdvanceSkipsImagesRemovedFromCatalog(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{TotalRounds: 3})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)
	started, err := env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)

	var sequence []string
	require.NoError(t, json.Unmarshal(started.ImageSequence, &sequence))
	require.Len(t, sequence, 3)

	// An admin removes round 2's image while round 1 is being played
	require.NoError(t, env.db.Where("id = ?", sequence[1]).Delete(&postgres.HistoricalImage{}).Error)
	require.NoError(t, env.cat.Refresh(ctx))

	_, err = env.svc.SubmitGuess(ctx, room.Code, host, env.perfectGuess(t, room.Code))
	require.NoError(t, err)
	_, err = env.svc.SubmitGuess(ctx, room.Code, bob, env.perfectGuess(t, room.Code))
	require.NoError(t, err)

	advanced, err := env.svc.AdvanceRound(ctx, room.Code, host, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, advanced.CurrentRound, "the unplayable round is skipped")
	assert.Equal(t, sequence[2], advanced.CurrentImageID)
}

func TestTimeoutAdvance(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	err := env.svc.TimeoutAdvance(ctx, "NOSUCH")
	assert.ErrorIs(t, err, rooms.ErrRoomNotFound)

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)

	// Waiting rooms have no clock to run out
	require.NoError(t, env.svc.TimeoutAdvance(ctx, room.Code))

	_, err = env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)

	// Not overdue yet: a no-op
	require.NoError(t, env.svc.TimeoutAdvance(ctx, room.Code))
	current, err := env.svc.Room(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, current.CurrentRound)

	env.backdateRound(t, room.Code, time.Duration(room.TimePerRound+5)*time.Second)
	require.NoError(t, env.svc.TimeoutAdvance(ctx, room.Code))
	current, err = env.svc.Room(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, 2, current.CurrentRound, "overdue rounds advance with nobody ready")
}

func TestLastRoundFinishesGame(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{TotalRounds: 2})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)
	_, err = env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)

	for round := 1; round <= 2; round++ {
		_, err = env.svc.SubmitGuess(ctx, room.Code, host, env.perfectGuess(t, room.Code))
		require.NoError(t, err)
		_, err = env.svc.SubmitGuess(ctx, room.Code, bob, env.perfectGuess(t, room.Code))
		require.NoError(t, err)
		_, err = env.svc.AdvanceRound(ctx, room.Code, host, round)
		require.NoError(t, err)
	}

	finished, err := env.svc.Room(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, game_constants.StatusFinished, finished.Status)
	assert.Equal(t, game_constants.PhaseNotActive, finished.RoundPhase)
	assert.Empty(t, finished.CurrentImageID)

	// The finished game rejects guesses and absorbs late advances
	_, err = env.svc.SubmitGuess(ctx, room.Code, bob, scoring.Guess{Year: 1950})
	assert.ErrorIs(t, err, rooms.ErrWrongStatus)
	again, err := env.svc.AdvanceRound(ctx, room.Code, host, 2)
	require.NoError(t, err)
	assert.Equal(t, game_constants.StatusFinished, again.Status)

	scores, err := env.svc.Scores(ctx, room.Code)
	require.NoError(t, err)
	assert.Len(t, scores, 4, "two players times two rounds")
}

// Two players, three rounds, 60s clock, perfect answers ten seconds in:
// every row must come out at 5000 + 5000 + floor(50*2) = 10100.
func TestPerfectTimedGameTotals(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "",
		rooms.RoomOptions{TotalRounds: 3, TimePerRound: 60})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)
	_, err = env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)

	const wantPerRound = 10100

	for round := 1; round <= 3; round++ {
		// Just under ten seconds gone, so the store calls below cannot push
		// the remaining time across the next bonus step
		env.backdateRound(t, room.Code, 10*time.Second-400*time.Millisecond)
		guess := env.perfectGuess(t, room.Code)

		hostRow, err := env.svc.SubmitGuess(ctx, room.Code, host, guess)
		require.NoError(t, err)
		assert.Equal(t, wantPerRound, hostRow.TotalScore, "host, round %d", round)

		open, err := env.svc.Room(ctx, room.Code)
		require.NoError(t, err)
		assert.Equal(t, game_constants.PhaseActive, open.RoundPhase, "one answer of two keeps round %d open", round)

		bobRow, err := env.svc.SubmitGuess(ctx, room.Code, bob, guess)
		require.NoError(t, err)
		assert.Equal(t, wantPerRound, bobRow.TotalScore, "bob, round %d", round)

		closed, err := env.svc.Room(ctx, room.Code)
		require.NoError(t, err)
		assert.Equal(t, game_constants.PhaseResults, closed.RoundPhase, "both answered, round %d closes", round)

		advanced, err := env.svc.AdvanceRound(ctx, room.Code, host, round)
		require.NoError(t, err)
		if round < 3 {
			assert.Equal(t, round+1, advanced.CurrentRound)
			assert.Equal(t, game_constants.PhaseActive, advanced.RoundPhase)
		} else {
			assert.Equal(t, game_constants.StatusFinished, advanced.Status)
		}
	}

	scores, err := env.svc.Scores(ctx, room.Code)
	require.NoError(t, err)
	require.Len(t, scores, 6)
	for _, row := range scores {
		assert.Equal(t, wantPerRound, row.TotalScore, "player %s round %d", row.PlayerKey, row.RoundNumber)
	}
}

func TestLeaveRoomHostFailover(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, carol, "Carol", "")
	require.NoError(t, err)

	require.NoError(t, env.svc.LeaveRoom(ctx, room.Code, host))

	current, err := env.svc.Room(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, "user:bob", current.HostKey, "earliest joined connected player inherits the room")

	participants, err := env.svc.Participants(ctx, room.Code)
	require.NoError(t, err)
	byKey := make(map[string]postgres.RoomParticipant)
	for _, p := range participants {
		byKey[p.PlayerKey] = p
	}
	assert.Equal(t, game_constants.ParticipantDisconnected, byKey["user:alice"].Status)
	assert.Equal(t, game_constants.RolePlayer, byKey["user:alice"].Role)
	assert.Equal(t, game_constants.RoleHost, byKey["user:bob"].Role)
}

func TestLeaveRoomSkipsDisconnectedHeir(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, carol, "Carol", "")
	require.NoError(t, err)

	// Bob dropped before the host left; Carol is next in line
	require.NoError(t, env.svc.LeaveRoom(ctx, room.Code, bob))
	require.NoError(t, env.svc.LeaveRoom(ctx, room.Code, host))

	current, err := env.svc.Room(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, "user:carol", current.HostKey)
}

func TestLeaveRoomLastPlayerClosesIt(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	require.NoError(t, env.svc.LeaveRoom(ctx, room.Code, host))

	current, err := env.svc.Room(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, game_constants.StatusFinished, current.Status)
}

func TestLeaveRoomGuards(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	err := env.svc.LeaveRoom(ctx, "NOSUCH", bob)
	assert.ErrorIs(t, err, rooms.ErrRoomNotFound)

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	err = env.svc.LeaveRoom(ctx, room.Code, bob)
	assert.ErrorIs(t, err, rooms.ErrNotParticipant)
}

func TestSetReadyTogglesLobbyFlag(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)

	require.NoError(t, env.svc.SetReady(ctx, room.Code, bob, true))
	p, err := env.repo.ParticipantByKey(ctx, room.Code, bob.Key())
	require.NoError(t, err)
	assert.Equal(t, game_constants.ParticipantReady, p.Status)

	// Idempotent, then back to connected
	require.NoError(t, env.svc.SetReady(ctx, room.Code, bob, true))
	require.NoError(t, env.svc.SetReady(ctx, room.Code, bob, false))
	p, err = env.repo.ParticipantByKey(ctx, room.Code, bob.Key())
	require.NoError(t, err)
	assert.Equal(t, game_constants.ParticipantConnected, p.Status)
}

func TestSetReadyGuards(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	err := env.svc.SetReady(ctx, "NOSUCH", bob, true)
	assert.ErrorIs(t, err, rooms.ErrRoomNotFound)

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	err = env.svc.SetReady(ctx, room.Code, bob, true)
	assert.ErrorIs(t, err, rooms.ErrNotParticipant)

	_, err = env.svc.StartGame(ctx, room.Code, host)
	require.NoError(t, err)
	err = env.svc.SetReady(ctx, room.Code, host, true)
	assert.ErrorIs(t, err, rooms.ErrWrongStatus)
}

func TestReadyHeirInheritsRoom(t *testing.T) {
	env := newTestEnv(t, 8)
	ctx := context.Background()

	room, err := env.svc.CreateRoom(ctx, host, "Alice", "", rooms.RoomOptions{})
	require.NoError(t, err)
	_, err = env.svc.JoinRoom(ctx, room.Code, bob, "Bob", "")
	require.NoError(t, err)
	require.NoError(t, env.svc.SetReady(ctx, room.Code, bob, true))

	require.NoError(t, env.svc.LeaveRoom(ctx, room.Code, host))

	current, err := env.svc.Room(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, "user:bob", current.HostKey, "ready players are present and can inherit")
}
