package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-backend/internal/models"
	"casino-backend/internal/services"
)

type LeaderboardHandler struct {
	leaderboard *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboard *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// PerGameWins serves GET /api/leaderboard/:game — top winners of one game.
func (h *LeaderboardHandler) PerGameWins(c *gin.Context) {
	game := models.GameID(c.Param("game"))

	entries, err := h.leaderboard.TopN(c.Request.Context(), models.MetricPerGameWins, game, services.DefaultLeaderboardLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Profit serves GET /api/leaderboard/profit — net profit across all games.
func (h *LeaderboardHandler) Profit(c *gin.Context) {
	entries, err := h.leaderboard.TopN(c.Request.Context(), models.MetricProfit, "", services.DefaultLeaderboardLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// XP serves GET /api/leaderboard/xp — progression standings with rank badges.
func (h *LeaderboardHandler) XP(c *gin.Context) {
	entries, err := h.leaderboard.TopN(c.Request.Context(), models.MetricXP, "", services.DefaultLeaderboardLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
