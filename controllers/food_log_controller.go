package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hmdavis/whatsapp-diet/services"
)

type FoodLogController struct {
	foodLogs *services.FoodLogService
}

func NewFoodLogController(foodLogs *services.FoodLogService) *FoodLogController {
	return &FoodLogController{foodLogs: foodLogs}
}

type createFoodLogRequest struct {
	Message string `json:"message" binding:"required"`
}

// POST /api/v1/food-logs/:user_id
func (fc *FoodLogController) Create(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req createFoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logs, err := fc.foodLogs.LogFoodEntry(c.Request.Context(), userID, req.Message, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GET /api/v1/food-logs/:user_id?limit=10
func (fc *FoodLogController) List(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	logs, err := fc.foodLogs.ListRecent(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GET /api/v1/food-logs/:user_id/summary?days=7
func (fc *FoodLogController) Summary(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
		return
	}

	summary, err := fc.foodLogs.Summary(c.Request.Context(), userID, days, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func parseUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return uint(id), true
}
