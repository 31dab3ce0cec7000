package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"smrutimap/middleware"
	"smrutimap/services/rooms"
	"smrutimap/services/scoring"
	"smrutimap/services/storage"
	"smrutimap/services/sync"
	"smrutimap/utils"

	"github.com/gin-gonic/gin"
)

// mapStorageError translates raw store sentinels from hub reads into the
// state machine's vocabulary so one status mapper serves both.
func mapStorageError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return rooms.ErrRoomNotFound
	}
	return err
}

// roomCodeParam normalizes and validates the :code path segment, answering
// the request itself when the shape is wrong.
func roomCodeParam(c *gin.Context) (string, bool) {
	code := utils.NormalizeRoomCode(c.Param("code"))
	if !utils.ValidRoomCode(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed room code"})
		return "", false
	}
	return code, true
}

// roomErrorStatus maps the state machine's sentinel errors onto HTTP codes.
// Guard failures are conflicts: the room moved on, the client should reload.
func roomErrorStatus(err error) int {
	switch {
	case errors.Is(err, rooms.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, rooms.ErrNotHost), errors.Is(err, rooms.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, rooms.ErrInvalidOptions), errors.Is(err, rooms.ErrEmptyIdentity):
		return http.StatusBadRequest
	case errors.Is(err, rooms.ErrRoomFull),
		errors.Is(err, rooms.ErrRoomNotJoinable),
		errors.Is(err, rooms.ErrWrongStatus),
		errors.Is(err, rooms.ErrRoundNotActive),
		errors.Is(err, rooms.ErrAlreadySubmitted),
		errors.Is(err, rooms.ErrAdvanceNotReady):
		return http.StatusConflict
	case errors.Is(err, rooms.ErrNoImages):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondRoomError(c *gin.Context, err error) {
	c.JSON(roomErrorStatus(err), gin.H{"error": err.Error()})
}

type createRoomRequest struct {
	TotalRounds  int    `json:"total_rounds"`
	TimePerRound int    `json:"time_per_round"`
	DisplayName  string `json:"display_name"`
	AvatarColor  string `json:"avatar_color"`
}

// @Summary Open a multiplayer room
// @Description Creates a waiting room with the caller seated as host and returns it. Out-of-range options are clamped.
// @Tags rooms
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Param body body controllers.createRoomRequest false "Room options"
// @Success 200 {object} postgres.GameRoom
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /rooms [post]
func CreateRoom(svc *rooms.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.RequestIdentity(c)

		var req createRoomRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed request body"})
				return
			}
		}
		if !utils.ValidDisplayName(req.DisplayName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Display name is too long or blank"})
			return
		}

		opts := rooms.RoomOptions{TotalRounds: req.TotalRounds, TimePerRound: req.TimePerRound}
		room, err := svc.CreateRoom(c.Request.Context(), id, req.DisplayName, req.AvatarColor, opts)
		if err != nil {
			respondRoomError(c, err)
			return
		}
		c.JSON(http.StatusOK, room)
	}
}

type joinRoomRequest struct {
	DisplayName string `json:"display_name"`
	AvatarColor string `json:"avatar_color"`
}

// @Summary Join a room
// @Description Seats the caller in a waiting room, or reconnects them to a game they already belong to.
// @Tags rooms
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Param code path string true "Room code"
// @Param body body controllers.joinRoomRequest false "Display options"
// @Success 200 {object} postgres.RoomParticipant
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /rooms/{code}/join [post]
func JoinRoom(svc *rooms.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := roomCodeParam(c)
		if !ok {
			return
		}
		id := middleware.RequestIdentity(c)

		var req joinRoomRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed request body"})
				return
			}
		}
		if !utils.ValidDisplayName(req.DisplayName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Display name is too long or blank"})
			return
		}

		participant, err := svc.JoinRoom(c.Request.Context(), code, id, req.DisplayName, req.AvatarColor)
		if err != nil {
			respondRoomError(c, err)
			return
		}
		c.JSON(http.StatusOK, participant)
	}
}

// @Summary Poll a room's authoritative state
// @Description The reconciliation snapshot: room record, participants, leaderboard and readiness in one response. Clients poll this as the backstop for missed push events.
// @Tags rooms
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Param code path string true "Room code"
// @Success 200 {object} sync.RoomState
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /rooms/{code} [get]
func GetRoom(hub *sync.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := roomCodeParam(c)
		if !ok {
			return
		}

		state, err := hub.State(c.Request.Context(), code)
		if err != nil {
			respondRoomError(c, mapStorageError(err))
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// @Summary Start the game
// @Description Host only. Fixes the image sequence for every round and opens round 1.
// @Tags rooms
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Param code path string true "Room code"
// @Success 200 {object} postgres.GameRoom
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /rooms/{code}/start [post]
func StartRoom(svc *rooms.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := roomCodeParam(c)
		if !ok {
			return
		}
		id := middleware.RequestIdentity(c)

		room, err := svc.StartGame(c.Request.Context(), code, id)
		if err != nil {
			respondRoomError(c, err)
			return
		}
		c.JSON(http.StatusOK, room)
	}
}

type guessRequest struct {
	Year int     `json:"year"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// @Summary Submit a guess for the current round
// @Description Scores the caller's year and location guess server-side and persists the row. The first submission per round wins; duplicates come back 409 with the stored row.
// @Tags rooms
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Param code path string true "Room code"
// @Param body body controllers.guessRequest true "The guess"
// @Success 200 {object} postgres.RoundScore
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /rooms/{code}/guess [post]
func SubmitRoomGuess(svc *rooms.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := roomCodeParam(c)
		if !ok {
			return
		}
		id := middleware.RequestIdentity(c)

		var req guessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed request body"})
			return
		}
		if err := utils.ValidGuess(req.Year, req.Lat, req.Lng); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		guess := scoring.Guess{Year: req.Year, Lat: req.Lat, Lng: req.Lng}
		score, err := svc.SubmitGuess(c.Request.Context(), code, id, guess)
		if errors.Is(err, rooms.ErrAlreadySubmitted) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "score": score})
			return
		}
		if err != nil {
			respondRoomError(c, err)
			return
		}
		c.JSON(http.StatusOK, score)
	}
}

type advanceRequest struct {
	Round int `json:"round"`
}

// @Summary Close the current round
// @Description Host only. Moves to the next round once everyone has submitted or the deadline passed; after the last round the room finishes. The round number in the body makes racing advances collapse into one transition.
// @Tags rooms
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Param code path string true "Room code"
// @Param body body controllers.advanceRequest true "Round being closed"
// @Success 200 {object} postgres.GameRoom
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /rooms/{code}/advance [post]
func AdvanceRoom(svc *rooms.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := roomCodeParam(c)
		if !ok {
			return
		}
		id := middleware.RequestIdentity(c)

		var req advanceRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Round <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Body must carry the round number being closed"})
			return
		}

		room, err := svc.AdvanceRound(c.Request.Context(), code, id, req.Round)
		if err != nil {
			respondRoomError(c, err)
			return
		}
		c.JSON(http.StatusOK, room)
	}
}

// @Summary Leave a room
// @Description Releases the caller's seat. Score history stays; a departing host hands the room to the earliest-joined present player.
// @Tags rooms
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Param code path string true "Room code"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /rooms/{code}/leave [post]
func LeaveRoom(svc *rooms.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := roomCodeParam(c)
		if !ok {
			return
		}
		id := middleware.RequestIdentity(c)

		if err := svc.LeaveRoom(c.Request.Context(), code, id); err != nil {
			respondRoomError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Left the room"})
	}
}

// @Summary Room leaderboard
// @Description Totals per player across all rounds, dense-ranked. Derived from score rows alone, so it survives departures and seat changes.
// @Tags rooms
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Param code path string true "Room code"
// @Success 200 {array} sync.LeaderboardEntry
// @Failure 404 {object} object{error=string}
// @Router /rooms/{code}/leaderboard [get]
func RoomLeaderboard(svc *rooms.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := roomCodeParam(c)
		if !ok {
			return
		}

		scores, err := svc.Scores(c.Request.Context(), code)
		if err != nil {
			respondRoomError(c, err)
			return
		}
		participants, err := svc.Participants(c.Request.Context(), code)
		if err != nil {
			respondRoomError(c, err)
			return
		}
		c.JSON(http.StatusOK, sync.Aggregate(scores, participants))
	}
}

// @Summary Scores of one round
// @Description Every submitted score row for the given round.
// @Tags rooms
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Param code path string true "Room code"
// @Param round path int true "Round number"
// @Success 200 {array} postgres.RoundScore
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /rooms/{code}/scores/{round} [get]
func RoomRoundScores(svc *rooms.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := roomCodeParam(c)
		if !ok {
			return
		}
		round, err := strconv.Atoi(c.Param("round"))
		if err != nil || round <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Round must be a positive integer"})
			return
		}

		scores, err := svc.RoundScores(c.Request.Context(), code, round)
		if err != nil {
			respondRoomError(c, err)
			return
		}
		c.JSON(http.StatusOK, scores)
	}
}
