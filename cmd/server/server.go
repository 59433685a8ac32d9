package server

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/teamline/teamline/internal/handlers"
	"github.com/teamline/teamline/internal/logger"
	"github.com/teamline/teamline/internal/store"
	"github.com/teamline/teamline/internal/websocket"
	"github.com/teamline/teamline/pkg/auth"
)

// Bearer tokens expire after an hour; logins after that must re-authenticate.
const tokenDuration = time.Hour

type Server struct {
	Router *gin.Engine
	Store  *store.Store
	Redis  *redis.Client
	Hub    *websocket.Hub
	Log    *zap.SugaredLogger
}

func NewServer() *Server {
	envLoaded := godotenv.Load(".env.local") == nil || godotenv.Load() == nil

	log := logger.New()
	if !envLoaded {
		log.Info(".env not found, using environment variables")
	}

	st := &store.Store{}
	if err := st.Connect(context.Background()); err != nil {
		log.Fatalw("mongodb connect failed", "err", err)
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatalw("invalid REDIS_URL", "err", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalw("redis connect failed", "err", err)
	}

	jwtMgr := auth.NewJWTManager(os.Getenv("JWT_SECRET"), tokenDuration)

	hub := websocket.NewHub(log)
	go hub.Run()

	authH := handlers.NewAuthHandler(st, jwtMgr, rdb, log)
	userH := handlers.NewUserHandler(st, log)
	teamH := handlers.NewTeamHandler(st, st, log)
	messageH := handlers.NewMessageHandler(st, log)
	chatH := handlers.NewChatHandler(st, st, st, hub, log)
	wsH := handlers.NewWebSocketHandler(hub, chatH)

	router := gin.Default()
	APIEndpoints(router, authH, userH, teamH, messageH, wsH, jwtMgr, rdb)

	return &Server{
		Router: router,
		Store:  st,
		Redis:  rdb,
		Hub:    hub,
		Log:    log,
	}
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3500"
	}
	s.Log.Infow("server starting", "port", port)
	if err := s.Router.Run(":" + port); err != nil {
		s.Log.Fatalw("server run error", "err", err)
	}
}

// Close tears down the hub and both backing connections.
func (s *Server) Close(ctx context.Context) {
	s.Hub.Stop()
	if err := s.Store.Disconnect(ctx); err != nil {
		s.Log.Warnw("mongodb disconnect failed", "err", err)
	}
	if err := s.Redis.Close(); err != nil {
		s.Log.Warnw("redis close failed", "err", err)
	}
}
