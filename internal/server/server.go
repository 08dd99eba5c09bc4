package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/wordclash/wordclash/internal/config"
	"github.com/wordclash/wordclash/internal/game/bot"
	"github.com/wordclash/wordclash/internal/game/lobby"
	"github.com/wordclash/wordclash/internal/game/session"
	"github.com/wordclash/wordclash/internal/protocol"
	"github.com/wordclash/wordclash/internal/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy belongs to the deployment proxy
	},
}

// Server wires the matchmaker, session coordinator, realtime gateway and
// reclamation sweeper over a shared redis backend.
type Server struct {
	config *config.Config
	redis  *redis.Client

	lobbies  *storage.LobbyStore
	users    *storage.UserStore
	sessions *storage.SessionStore

	coordinator *session.Coordinator
	matchmaker  *lobby.Matchmaker
	sweeper     *lobby.Sweeper
	bots        *bot.Scheduler
	hub         *Hub

	httpServer  *http.Server
	stopSweeper context.CancelFunc
}

// NewServer builds a server from config and verifies the redis connection.
func NewServer(cfg *config.Config) (*Server, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	s := &Server{
		config:   cfg,
		redis:    rdb,
		lobbies:  storage.NewLobbyStore(rdb),
		users:    storage.NewUserStore(rdb),
		sessions: storage.NewSessionStore(rdb),
		hub:      NewHub(),
	}

	// The server itself is the coordinator's notifier: every state change
	// fans out through the hub and may arm a bot move.
	s.coordinator = session.NewCoordinator(s.sessions, s, nil)

	minDelay, maxDelay := cfg.Game.BotDelayRange()
	s.bots = bot.NewScheduler(s.coordinator, minDelay, maxDelay)

	s.matchmaker = lobby.NewMatchmaker(s.lobbies, s.users, s.coordinator,
		cfg.Game.TurnTimeLimit, cfg.Game.MaxAttempts)

	s.sweeper = lobby.NewSweeper(s.lobbies,
		cfg.Cleanup.IntervalDuration(),
		cfg.Cleanup.LobbyMaxAgeDuration(),
		cfg.Cleanup.BatchSize)

	mux := http.NewServeMux()
	s.routes(mux)
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: mux,
	}

	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /lobbies/join", s.handleJoinLobby)
	mux.HandleFunc("GET /lobbies/{code}", s.handleGetLobby)
	mux.HandleFunc("DELETE /lobbies/{code}", s.handleDeleteLobby)
	mux.HandleFunc("POST /games/bot", s.handleCreateBotGame)
	mux.HandleFunc("GET /ws/game/{id}", s.handleGameSocket)
	mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Start runs the sweeper and serves until Shutdown.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopSweeper = cancel
	go s.sweeper.Run(ctx)

	log.Printf("listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the sweeper and the listener.
func (s *Server) Shutdown() {
	if s.stopSweeper != nil {
		s.stopSweeper()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = s.httpServer.Shutdown(ctx)
	_ = s.redis.Close()
}

// SessionChanged implements session.Notifier: broadcast the snapshot to
// every attached socket, then keep the bot schedule in step with the new
// state.
func (s *Server) SessionChanged(snap *protocol.SessionSnapshot) {
	s.hub.Broadcast(snap.ID, protocol.MustNewMessage(protocol.MsgSessionState, snap))

	if snap.State == string(session.StateInProgress) && bot.IsBotID(snap.CurrentTurn) {
		s.bots.MaybeSchedule(snap.ID, snap.CurrentTurn)
	} else if snap.State != string(session.StateInProgress) {
		s.bots.Stop(snap.ID)
	}
}
