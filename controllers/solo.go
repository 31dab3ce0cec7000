package controllers

import (
	"net/http"
	"strconv"
	"time"

	game_constants "smrutimap/constants/game"
	"smrutimap/middleware"
	"smrutimap/services/rooms"

	"github.com/gin-gonic/gin"
)

type startSoloRequest struct {
	Mode         string `json:"mode"` // classic, timed or daily
	Rounds       int    `json:"rounds"`
	TimePerRound int    `json:"time_per_round"`
}

// @Summary Start a solo game
// @Description Opens and immediately starts a one-player game. Classic is untimed, timed runs a per-round clock, daily plays the day's shared sequence and resumes if already started.
// @Tags solo
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Param body body controllers.startSoloRequest true "Game options"
// @Success 200 {object} postgres.GameRoom
// @Failure 400 {object} object{error=string}
// @Failure 503 {object} object{error=string}
// @Router /solo/start [post]
func StartSolo(svc *rooms.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.RequestIdentity(c)

		var req startSoloRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed request body"})
			return
		}
		if req.Mode == "" {
			req.Mode = game_constants.ModeClassic
		}

		room, err := svc.StartSolo(c.Request.Context(), id, req.Mode, req.Rounds, req.TimePerRound)
		if err != nil {
			respondRoomError(c, err)
			return
		}
		c.JSON(http.StatusOK, room)
	}
}

// @Summary Submit a solo guess
// @Description Same scoring path as multiplayer; the solo player is the room's only seat.
// @Tags solo
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Param code path string true "Game code"
// @Param body body controllers.guessRequest true "The guess"
// @Success 200 {object} postgres.RoundScore
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /solo/{code}/guess [post]
func SoloGuess(svc *rooms.Service) gin.HandlerFunc {
	return SubmitRoomGuess(svc)
}

// @Summary Advance a solo game to its next round
// @Description Closes the current round and opens the next, or finishes the game after the last round. The body may carry the round being closed; it defaults to the game's current round.
// @Tags solo
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Param code path string true "Game code"
// @Param body body controllers.advanceRequest false "Round being closed"
// @Success 200 {object} postgres.GameRoom
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /solo/{code}/next [post]
func SoloNext(svc *rooms.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := roomCodeParam(c)
		if !ok {
			return
		}
		id := middleware.RequestIdentity(c)

		var req advanceRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed request body"})
				return
			}
		}
		round := req.Round
		if round <= 0 {
			room, err := svc.Room(c.Request.Context(), code)
			if err != nil {
				respondRoomError(c, err)
				return
			}
			round = room.CurrentRound
		}

		room, err := svc.AdvanceRound(c.Request.Context(), code, id, round)
		if err != nil {
			respondRoomError(c, err)
			return
		}
		c.JSON(http.StatusOK, room)
	}
}

// @Summary Solo game summary
// @Description Per-round scores, total, average and best round for a finished or running solo game.
// @Tags solo
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Param code path string true "Game code"
// @Success 200 {object} rooms.SoloSummary
// @Failure 404 {object} object{error=string}
// @Router /solo/{code}/summary [get]
func SoloSummary(svc *rooms.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := roomCodeParam(c)
		if !ok {
			return
		}

		summary, err := svc.Summary(c.Request.Context(), code)
		if err != nil {
			respondRoomError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// @Summary Daily challenge leaderboard
// @Description Total scores across everyone who played the given day's challenge, best first. Defaults to today (UTC).
// @Tags solo
// @Produce json
// @Param date query string false "Day as YYYY-MM-DD, defaults to today"
// @Param limit query int false "Max entries, defaults to 50"
// @Success 200 {array} storage.DailyTotal
// @Failure 400 {object} object{error=string}
// @Router /daily/leaderboard [get]
func DailyLeaderboard(svc *rooms.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		if date == "" {
			date = time.Now().UTC().Format("2006-01-02")
		}

		limit := 50
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = n
		}

		totals, err := svc.DailyLeaderboard(c.Request.Context(), date, limit)
		if err != nil {
			respondRoomError(c, err)
			return
		}
		c.JSON(http.StatusOK, totals)
	}
}
