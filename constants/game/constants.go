package game_constants

const DefaultTotalRounds = 5
const MaxTotalRounds = 20
const DefaultTimePerRound = 60 // seconds, NOTE: frontend countdown uses the same value
const MinTimePerRound = 10
const MaxTimePerRound = 300

const MaxPlayersPerRoom = 8
const MinViablePlayers = 2 // readiness never expects fewer submitters than this in multiplayer

// Room codes
const (
	RoomCodeLength  = 6
	RoomCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // no 0/O/1/I, codes are read aloud
)

// Game statuses
const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// Round phases within a playing room
const (
	PhaseNotActive = "not_active"
	PhaseActive    = "active"
	PhaseResults   = "results"
)

// Game modes
const (
	ModeMultiplayer = "multiplayer"
	ModeClassic     = "classic"
	ModeTimed       = "timed"
	ModeDaily       = "daily"
)

// Participant roles
const (
	RoleHost      = "host"
	RolePlayer    = "player"
	RoleSpectator = "spectator"
)

// Participant statuses
const (
	ParticipantConnected    = "connected"
	ParticipantReady        = "ready"
	ParticipantDisconnected = "disconnected"
)

// Sync layer
const (
	ReconcileIntervalSeconds = 2
	RoomIdleCutoffMinutes    = 30 // idle rooms past this are finished by housekeeping
)
