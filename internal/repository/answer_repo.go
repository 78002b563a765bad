package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizlive/internal/model"
)

// AnswerRepo archives answer events durably. The live store in Redis is the
// source of truth for the leaderboard; this mirror exists for after-the-fact
// inspection and is written best-effort on the scoring path.
type AnswerRepo interface {
	Upsert(ctx context.Context, ev *model.AnswerEvent) error
	ListAll(ctx context.Context) ([]*model.AnswerEvent, error)
	DeleteAll(ctx context.Context) error
}

type answerRepo struct {
	collection *mongo.Collection
}

// NewAnswerRepo creates an answer archive repository.
func NewAnswerRepo(db *mongo.Database) AnswerRepo {
	return &answerRepo{collection: db.Collection("answers")}
}

func (r *answerRepo) Upsert(ctx context.Context, ev *model.AnswerEvent) error {
	filter := bson.M{
		"questionIndex": ev.QuestionIndex,
		"participantId": ev.ParticipantID,
	}
	_, err := r.collection.ReplaceOne(ctx, filter, ev, options.Replace().SetUpsert(true))
	return err
}

func (r *answerRepo) ListAll(ctx context.Context) ([]*model.AnswerEvent, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*model.AnswerEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *answerRepo) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
