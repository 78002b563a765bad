package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizlive/internal/config"
	"quizlive/internal/repository"
)

// NewSeedCmd builds the CLI subcommand that loads the question file into
// MongoDB, replacing whatever set was there.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the question set into MongoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	questions, err := config.LoadQuestions(cfg.Questions.Path)
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

	db := mongoClient.Database(cfg.Mongo.Database)
	if err := repository.NewQuestionRepo(db).Replace(ctx, questions); err != nil {
		return err
	}
	log.Info().Int("count", len(questions)).Msg("question set seeded")
	return nil
}
