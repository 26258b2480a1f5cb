package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aharui/backend/internal/service"
)

type RewardsHandler struct {
	rewards service.IRewardService
}

func NewRewardsHandler(rewards service.IRewardService) *RewardsHandler {
	return &RewardsHandler{rewards: rewards}
}

func (h *RewardsHandler) RegisterRoutes(router *gin.RouterGroup) {
	rewards := router.Group("/rewards")
	{
		rewards.GET("", h.GetRewards)
		rewards.POST("/streak", h.UpdateStreak)
	}
}

func (h *RewardsHandler) GetRewards(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	reward, err := h.rewards.GetRewards(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reward)
}

// UpdateStreak is called by the client once per app open. Only the first call of a day counts.
func (h *RewardsHandler) UpdateStreak(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	resp, err := h.rewards.UpdateStreak(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
