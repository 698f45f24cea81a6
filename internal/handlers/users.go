package handlers

import (
	"errors"
	"net/http"

	"planeteye/backend/internal/middleware"
	"planeteye/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	db          *gorm.DB
	userService services.UserService
}

func NewUserHandler(db *gorm.DB, userService services.UserService) *UserHandler {
	return &UserHandler{db: db, userService: userService}
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(h.db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.userService.GetUser(h.db, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type OnboardRequest struct {
	Name        string `json:"name" binding:"required"`
	Role        string `json:"role" binding:"required"`
	Designation string `json:"designation"`
	Birthdate   string `json:"birthdate"`
	JoinDate    string `json:"join_date"`
	TeamID      string `json:"team_id"`
	Photo       string `json:"photo"`
}

// Onboard adds a user to the directory. The route is capability-gated and
// the service checks again; the UI hiding a button is not the boundary.
func (h *UserHandler) Onboard(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	var req OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Onboard(h.db, actor, services.OnboardInput{
		Name:        req.Name,
		Role:        req.Role,
		Designation: req.Designation,
		Birthdate:   req.Birthdate,
		JoinDate:    req.JoinDate,
		TeamID:      req.TeamID,
		Photo:       req.Photo,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": "operation not permitted for this role"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "onboard_failed",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, user)
}
