package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aharui/backend/internal/middleware"
	"github.com/aharui/backend/internal/service"
	"github.com/aharui/backend/internal/types"
)

// PlanningHandler serves the AI backed routes. limiter may be nil.
type PlanningHandler struct {
	planning  service.IPlanningService
	extractor service.INutritionExtractor
	limiter   *middleware.RateLimiter
}

func NewPlanningHandler(planning service.IPlanningService, extractor service.INutritionExtractor, limiter *middleware.RateLimiter) *PlanningHandler {
	return &PlanningHandler{
		planning:  planning,
		extractor: extractor,
		limiter:   limiter,
	}
}

func (h *PlanningHandler) RegisterRoutes(router *gin.RouterGroup) {
	limited := []gin.HandlerFunc{}
	if h.limiter != nil {
		limited = append(limited, h.limiter.Middleware())
	}
	with := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, limited...), handler)
	}

	plans := router.Group("/meal-plans")
	{
		plans.POST("/generate", with(h.GenerateMealPlan)...)
		plans.GET("/latest", h.LatestMealPlan)
	}

	lists := router.Group("/shopping-lists")
	{
		lists.POST("/generate", with(h.GenerateShoppingList)...)
		lists.GET("", h.ListShoppingLists)
		lists.GET("/:id", h.GetShoppingList)
		lists.PATCH("/:id/items/:index", h.ToggleShoppingItem)
		lists.DELETE("/:id", h.DeleteShoppingList)
	}

	router.POST("/nutrition/extract", with(h.ExtractNutrition)...)
	router.GET("/ai/quota", h.Quota)
}

func (h *PlanningHandler) GenerateMealPlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	resp, err := h.planning.GenerateMealPlan(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PlanningHandler) LatestMealPlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	resp, err := h.planning.LatestMealPlan(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PlanningHandler) GenerateShoppingList(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.planning.GenerateShoppingList(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

func (h *PlanningHandler) ListShoppingLists(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	lists, err := h.planning.ListShoppingLists(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shopping_lists": lists})
}

func (h *PlanningHandler) GetShoppingList(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	list, err := h.planning.GetShoppingList(c.Request.Context(), userID, listID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PlanningHandler) ToggleShoppingItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}

	list, err := h.planning.ToggleShoppingItem(c.Request.Context(), userID, listID, index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PlanningHandler) DeleteShoppingList(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.planning.DeleteShoppingList(c.Request.Context(), userID, listID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExtractNutrition reads label text into nutrition facts. Nothing is stored;
// the client logs the meal with source "ocr" afterwards.
func (h *PlanningHandler) ExtractNutrition(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	var req types.ExtractNutritionRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.extractor.ExtractNutrition(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Quota reports how many AI requests are left in the current window
func (h *PlanningHandler) Quota(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if h.limiter == nil {
		c.JSON(http.StatusOK, gin.H{"limited": false})
		return
	}

	remaining, resetTime, err := h.limiter.Remaining(c.Request.Context(), fmt.Sprintf("%v", userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"limited":    true,
		"remaining":  remaining,
		"reset_time": resetTime.Unix(),
	})
}
