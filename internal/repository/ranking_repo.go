package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizlive/internal/model"
)

// RankingRepo stores final scores. The list is append-only and survives
// new-game resets; the idempotency key keeps a re-rendered client from
// double-submitting the same score.
type RankingRepo interface {
	Create(ctx context.Context, entry *model.RankingEntry) error
	List(ctx context.Context) ([]*model.RankingEntry, error)
	ExistsKey(ctx context.Context, idempotencyKey string) (bool, error)
}

type rankingRepo struct {
	collection *mongo.Collection
}

// NewRankingRepo creates a ranking repository.
func NewRankingRepo(db *mongo.Database) RankingRepo {
	return &rankingRepo{collection: db.Collection("rankings")}
}

func (r *rankingRepo) Create(ctx context.Context, entry *model.RankingEntry) error {
	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid.Hex()
	}
	return nil
}

func (r *rankingRepo) List(ctx context.Context) ([]*model.RankingEntry, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "score", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.RankingEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *rankingRepo) ExistsKey(ctx context.Context, idempotencyKey string) (bool, error) {
	if idempotencyKey == "" {
		return false, nil
	}
	n, err := r.collection.CountDocuments(ctx, bson.M{"idempotencyKey": idempotencyKey})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
