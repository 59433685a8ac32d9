package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/teamline/teamline/internal/handlers/dto"
	"github.com/teamline/teamline/internal/models"
	"github.com/teamline/teamline/internal/store"
)

type TeamHandler struct {
	users UserStore
	teams TeamStore
	log   *zap.SugaredLogger
}

func NewTeamHandler(users UserStore, teams TeamStore, log *zap.SugaredLogger) *TeamHandler {
	return &TeamHandler{users: users, teams: teams, log: log}
}

// Create makes a new team with the given admin as sole member. Duplicate
// names are rejected by the unique index.
func (h *TeamHandler) Create(c *gin.Context) {
	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	adminID, err := parseObjectID(req.Admin)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	team := &models.Team{
		Name:    req.Name,
		Admin:   adminID,
		Members: []primitive.ObjectID{adminID},
	}

	if err := h.teams.CreateTeam(c.Request.Context(), team); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Team already exists"})
			return
		}
		h.log.Errorw("team create failed", "name", req.Name, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Team created successfully", "team": team})
}

// Join adds the named user to the team's member set; joining twice is a
// no-op.
func (h *TeamHandler) Join(c *gin.Context) {
	var req dto.JoinTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	teamID, err := parseObjectID(req.TeamID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	ctx := c.Request.Context()

	user, err := h.users.FindUserByUsername(ctx, req.Username)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := h.teams.AddTeamMember(ctx, teamID, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
			return
		}
		h.log.Errorw("team join failed", "teamId", req.TeamID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined the team successfully"})
}

// Leave removes the named user from the team's member set. The admin field
// is untouched even when the admin leaves.
func (h *TeamHandler) Leave(c *gin.Context) {
	var req dto.LeaveTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	teamID, err := parseObjectID(req.TeamID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	ctx := c.Request.Context()

	user, err := h.users.FindUserByUsername(ctx, req.Username)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := h.teams.RemoveTeamMember(ctx, teamID, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
			return
		}
		h.log.Errorw("team leave failed", "teamId", req.TeamID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left the team successfully"})
}
