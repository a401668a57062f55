package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmdavis/whatsapp-diet/models"
	"github.com/hmdavis/whatsapp-diet/services"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

type createUserRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`

	TargetCalories *float64 `json:"target_calories"`
	TargetProtein  *float64 `json:"target_protein"`
	TargetCarbs    *float64 `json:"target_carbs"`
	TargetFats     *float64 `json:"target_fats"`

	Height              float64 `json:"height"`
	Weight              float64 `json:"weight"`
	Age                 int     `json:"age"`
	ActivityLevel       string  `json:"activity_level"`
	DietaryRestrictions string  `json:"dietary_restrictions"`
}

// POST /api/v1/users
func (uc *UserController) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{
		PhoneNumber:         req.PhoneNumber,
		TargetCalories:      req.TargetCalories,
		TargetProtein:       req.TargetProtein,
		TargetCarbs:         req.TargetCarbs,
		TargetFats:          req.TargetFats,
		Height:              req.Height,
		Weight:              req.Weight,
		Age:                 req.Age,
		ActivityLevel:       req.ActivityLevel,
		DietaryRestrictions: req.DietaryRestrictions,
	}
	if err := uc.users.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GET /api/v1/users/:user_id
func (uc *UserController) Get(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := uc.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// PUT /api/v1/users/:user_id/targets
func (uc *UserController) UpdateTargets(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var update services.TargetUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := uc.users.UpdateTargets(c.Request.Context(), userID, update)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}
