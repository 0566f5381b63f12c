package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-backend/internal/models"
	"casino-backend/internal/services"
)

type GameHandler struct {
	stats *services.StatsService
	redis *services.RedisService
}

func NewGameHandler(stats *services.StatsService, redis *services.RedisService) *GameHandler {
	return &GameHandler{
		stats: stats,
		redis: redis,
	}
}

// SubmitOutcome settles a completed round. For accounts this updates stats,
// totals, balance and XP in one transaction; for guests only the Redis
// bankroll moves and nothing is persisted.
func (h *GameHandler) SubmitOutcome(c *gin.Context) {
	var req models.OutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if c.GetBool("is_guest") {
		h.submitGuestOutcome(c, &req)
		return
	}

	result, err := h.stats.RecordOutcome(c.Request.Context(), c.GetInt64("user_id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) submitGuestOutcome(c *gin.Context, req *models.OutcomeRequest) {
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	delta := req.BetAmount.Neg()
	if req.Won {
		delta = req.WinAmount
	}

	balance, err := h.redis.AdjustGuestBalance(c.GetString("session_id"), delta)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.OutcomeResult{
		TotalsUpdated: false,
		Balance:       balance,
	})
}
