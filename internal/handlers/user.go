package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-backend/internal/models"
	"casino-backend/internal/services"
)

type UserHandler struct {
	stats    *services.StatsService
	deposits *services.DepositService
	auth     *services.AuthService
	redis    *services.RedisService
}

func NewUserHandler(stats *services.StatsService, deposits *services.DepositService, auth *services.AuthService, redis *services.RedisService) *UserHandler {
	return &UserHandler{
		stats:    stats,
		deposits: deposits,
		auth:     auth,
		redis:    redis,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	if c.GetBool("is_guest") {
		balance, err := h.redis.GetGuestBalance(c.GetString("session_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"username": c.GetString("username"),
			"is_guest": true,
			"balance":  balance,
		})
		return
	}

	profile, err := h.stats.GetProfile(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Deposit(c *gin.Context) {
	var req models.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := h.deposits.RequestDeposit(c.Request.Context(), c.GetInt64("user_id"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	if !result.Accepted {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteAccount removes the user and, by cascade, all per-game statistics.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if err := h.stats.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	h.auth.Logout(c.GetString("session_id"))

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.GetString("session_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
