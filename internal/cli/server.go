package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizlive/internal/cache"
	"quizlive/internal/config"
	"quizlive/internal/game"
	"quizlive/internal/model"
	"quizlive/internal/repository"
	"quizlive/internal/service"
	"quizlive/internal/transport/rest"
	"quizlive/internal/transport/ws"
)

// NewServeCmd builds the CLI subcommand that runs the quiz server.
func NewServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath)
		},
	}
}

func runServer(ctx context.Context, configPath string) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")
	db := mongoClient.Database(cfg.Mongo.Database)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	questions, err := loadQuestionSet(ctx, db, cfg.Questions.Path)
	if err != nil {
		return err
	}
	log.Info().Int("count", len(questions)).Msg("question set loaded")

	wsHub := ws.NewHub()

	// Repositories and caches
	participantRepo := repository.NewParticipantRepo(db)
	answerRepo := repository.NewAnswerRepo(db)
	rankingRepo := repository.NewRankingRepo(db)

	answerCache := cache.NewAnswerCache(rdb, len(questions))
	controlCache := cache.NewControlCache(rdb)
	leaderboardCache := cache.NewLeaderboardCache(rdb)

	// Services
	authSvc := service.NewAuthService(cfg.Admin.PIN, cfg.Admin.JWTSecret)
	regSvc := service.NewRegistrationService(participantRepo, authSvc)
	answerSvc := service.NewAnswerService(answerCache, answerRepo, questions)
	controlSvc := service.NewControlService(controlCache, answerCache, answerRepo, participantRepo, leaderboardCache)
	lbSvc := service.NewLeaderboardService(answerCache, controlCache, leaderboardCache, game.NewAggregator(questions))
	rankingSvc := service.NewRankingService(rankingRepo)

	regSvc.SetBroadcaster(wsHub)
	controlSvc.SetBroadcaster(wsHub)
	lbSvc.SetBroadcaster(wsHub)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := lbSvc.Run(runCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("leaderboard projector stopped")
		}
	}()

	gameCfg := game.Config{
		TimerDuration:   cfg.TimerDuration(),
		ReviewDuration:  cfg.ReviewDuration(),
		OpenGrace:       cfg.OpenGrace(),
		AdvanceFallback: cfg.AdvanceFallback(),
		CorrectSound:    cfg.Sounds.Correct,
		WrongSound:      cfg.Sounds.Wrong,
	}

	router := rest.NewRouter(&rest.Container{
		AuthService:         authSvc,
		RegistrationService: regSvc,
		ControlService:      controlSvc,
		AnswerService:       answerSvc,
		LeaderboardService:  lbSvc,
		RankingService:      rankingSvc,
		ControlCache:        controlCache,
		Questions:           questions,
		GameConfig:          gameCfg,
		WSHub:               wsHub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	<-runCtx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server exited")
	return nil
}

// loadQuestionSet prefers the seeded Mongo question set; an empty collection
// falls back to the bundled JSON file.
func loadQuestionSet(ctx context.Context, db *mongo.Database, path string) ([]model.Question, error) {
	questionRepo := repository.NewQuestionRepo(db)
	questions, err := questionRepo.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("loading questions from MongoDB failed, trying file")
	}
	if len(questions) > 0 {
		return questions, nil
	}
	return config.LoadQuestions(path)
}
