package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aharui/backend/internal/service"
	"github.com/aharui/backend/internal/types"
)

// TrackingHandler serves meals, water, weight and daily logs
type TrackingHandler struct {
	tracking service.ITrackingService
}

func NewTrackingHandler(tracking service.ITrackingService) *TrackingHandler {
	return &TrackingHandler{tracking: tracking}
}

func (h *TrackingHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.POST("", h.LogMeal)
		meals.GET("", h.GetMeals)
		meals.GET("/search", h.SearchMeals)
		meals.DELETE("/:id", h.DeleteMeal)
	}

	water := router.Group("/water")
	{
		water.POST("", h.LogWater)
		water.GET("", h.GetWater)
	}

	router.POST("/weight", h.LogWeight)

	dailyLogs := router.Group("/daily-logs")
	{
		dailyLogs.GET("/week", h.WeeklySummary)
		dailyLogs.GET("/:date", h.GetDailyLog)
		dailyLogs.PUT("/:date", h.UpdateDailyLog)
	}
}

func (h *TrackingHandler) LogMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.LogMealRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.tracking.LogMeal(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TrackingHandler) GetMeals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	meals, err := h.tracking.GetMeals(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (h *TrackingHandler) SearchMeals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	meals, err := h.tracking.SearchMeals(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (h *TrackingHandler) DeleteMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.tracking.DeleteMeal(c.Request.Context(), userID, mealID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TrackingHandler) LogWater(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.LogWaterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.tracking.LogWater(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TrackingHandler) GetWater(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	entries, err := h.tracking.GetWater(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	total := 0
	for _, e := range entries {
		total += e.AmountMl
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total_ml": total})
}

func (h *TrackingHandler) LogWeight(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.LogWeightRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.tracking.LogWeight(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TrackingHandler) GetDailyLog(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	dl, err := h.tracking.GetDailyLog(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dl)
}

func (h *TrackingHandler) UpdateDailyLog(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.UpdateDailyLogRequest
	if !bindJSON(c, &req) {
		return
	}

	dl, err := h.tracking.UpdateDailyLog(c.Request.Context(), userID, c.Param("date"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dl)
}

func (h *TrackingHandler) WeeklySummary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	days, err := h.tracking.WeeklySummary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}
