package rooms

import "errors"

// Guard violations callers are expected to branch on. Controllers map these
// onto HTTP statuses, socket handlers onto error emits.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomNotJoinable  = errors.New("room is not accepting players")
	ErrRoomFull         = errors.New("room is full")
	ErrNotParticipant   = errors.New("player is not in this room")
	ErrNotHost          = errors.New("only the host can do that")
	ErrWrongStatus      = errors.New("room is not in the required status")
	ErrRoundNotActive   = errors.New("no active round to act on")
	ErrAlreadySubmitted = errors.New("guess already submitted for this round")
	ErrAdvanceNotReady  = errors.New("round cannot advance yet")
	ErrInvalidOptions   = errors.New("invalid room options")
	ErrNoImages         = errors.New("image catalog is empty")
	ErrEmptyIdentity    = errors.New("identity required")
)
