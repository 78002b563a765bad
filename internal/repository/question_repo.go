package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizlive/internal/model"
)

// QuestionRepo stores the seeded question sequence. The server prefers this
// over the static file when the collection is populated; the seed subcommand
// fills it.
type QuestionRepo interface {
	Load(ctx context.Context) ([]model.Question, error)
	Replace(ctx context.Context, questions []model.Question) error
}

type questionDoc struct {
	Order    int            `bson:"order"`
	Question model.Question `bson:",inline"`
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a question repository.
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{collection: db.Collection("questions")}
}

func (r *questionRepo) Load(ctx context.Context) ([]model.Question, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []questionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	questions := make([]model.Question, 0, len(docs))
	for _, d := range docs {
		questions = append(questions, d.Question)
	}
	return questions, nil
}

func (r *questionRepo) Replace(ctx context.Context, questions []model.Question) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	docs := make([]interface{}, 0, len(questions))
	for i, q := range questions {
		docs = append(docs, questionDoc{Order: i, Question: q})
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}
