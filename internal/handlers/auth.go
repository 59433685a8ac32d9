package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamline/teamline/internal/handlers/dto"
	"github.com/teamline/teamline/internal/models"
	"github.com/teamline/teamline/internal/store"
	"github.com/teamline/teamline/pkg/auth"
)

type AuthHandler struct {
	users      UserStore
	jwtManager *auth.JWTManager
	redis      *redis.Client
	log        *zap.SugaredLogger
}

func NewAuthHandler(users UserStore, jwtMgr *auth.JWTManager, rdb *redis.Client, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{users: users, jwtManager: jwtMgr, redis: rdb, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide username, email, and password"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
	}

	if err := h.users.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists with this email"})
			return
		}
		h.log.Errorw("register failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// Login checks credentials and issues a one-hour bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide email and password"})
		return
	}

	user, err := h.users.FindUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.jwtManager.Generate(user.ID.Hex())
	if err != nil {
		h.log.Errorw("token generation failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// VerifyToken validates the bearer token and returns the account's public
// fields. The password hash is never included.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token missing"})
		return
	}

	claims, err := h.jwtManager.Verify(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	userID, err := parseObjectID(claims.Subject)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found or token invalid"})
		return
	}

	c.JSON(http.StatusOK, dto.VerifyTokenResponse{
		ID:       user.ID.Hex(),
		Username: user.Username,
		Email:    user.Email,
	})
}

// Logout blacklists the presented token in Redis until its natural expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	ttl := time.Until(exp)
	if ttl > 0 {
		h.redis.Set(context.Background(), "blacklist:"+rawToken, 1, ttl)
	}

	c.Status(http.StatusOK)
}
