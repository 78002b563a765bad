package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"quizlive/internal/cache"
	"quizlive/internal/game"
	"quizlive/internal/model"
	"quizlive/internal/service"
	"quizlive/internal/transport/rest/handler"
	"quizlive/internal/transport/rest/middleware"
	"quizlive/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService         *service.AuthService
	RegistrationService *service.RegistrationService
	ControlService      *service.ControlService
	AnswerService       *service.AnswerService
	LeaderboardService  *service.LeaderboardService
	RankingService      *service.RankingService
	ControlCache        cache.ControlCache
	Questions           []model.Question
	GameConfig          game.Config
	WSHub               *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	participantHandler := handler.NewParticipantHandler(c.RegistrationService)
	controlHandler := handler.NewControlHandler(c.ControlService)
	leaderboardHandler := handler.NewLeaderboardHandler(c.LeaderboardService)
	rankingHandler := handler.NewRankingHandler(c.RankingService)
	questionHandler := handler.NewQuestionHandler(c.Questions, c.ControlCache, c.AnswerService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.RegistrationService, c.AnswerService, c.ControlCache, c.Questions, c.GameConfig)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/register", participantHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rankings", rankingHandler.List).Methods("GET", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/host", wsHandler.HostWS).Methods("GET")
	v1.HandleFunc("/ws/player", wsHandler.PlayerWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/admin/control", controlHandler.Get).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/admin/control/question", controlHandler.SetQuestion).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/admin/control/question/next", controlHandler.NextQuestion).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/admin/control/round/open", controlHandler.OpenRound).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/admin/control/round/close", controlHandler.CloseRound).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/admin/control/round/toggle", controlHandler.ToggleRound).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/admin/control/start", controlHandler.StartGame).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/admin/control/stop", controlHandler.StopGame).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/admin/control/new-game", controlHandler.NewGame).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/admin/participants", participantHandler.List).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/admin/participants.csv", participantHandler.ExportCSV).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/admin/leaderboard/refresh", leaderboardHandler.Refresh).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/admin/questions", questionHandler.ListAdmin).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/admin/round/stats", questionHandler.RoundStats).Methods("GET", "OPTIONS")

	// Player routes (require player auth)
	playerRoutes := v1.NewRoute().Subrouter()
	playerRoutes.Use(authMW.RequirePlayer)

	playerRoutes.HandleFunc("/questions/current", questionHandler.Current).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/leaderboard/me", leaderboardHandler.MyRank).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/rankings", rankingHandler.Save).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
