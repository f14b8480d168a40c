package newsletter

import (
	"context"
	"time"

	common_models "go-briefing/internal/common/models"
	"go-briefing/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ArticleRepository holds source articles staged for the next scheduled run
type ArticleRepository interface {
	Stage(ctx context.Context, articles []common_models.SourceArticle) error
	ListStaged(ctx context.Context) ([]common_models.SourceArticle, error)
	Clear(ctx context.Context) error
}

type stagedArticle struct {
	Article  common_models.SourceArticle `bson:"article"`
	StagedAt time.Time                   `bson:"staged_at"`
}

type ArticleRepositoryImpl struct {
	collection *mongo.Collection
}

func NewArticleRepository(db *database.MongodbDB) ArticleRepository {
	return &ArticleRepositoryImpl{
		collection: db.DB.Collection("source_articles"),
	}
}

func (r *ArticleRepositoryImpl) Stage(ctx context.Context, articles []common_models.SourceArticle) error {
	docs := make([]interface{}, len(articles))
	now := time.Now()
	for i, a := range articles {
		docs[i] = stagedArticle{Article: a, StagedAt: now}
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *ArticleRepositoryImpl) ListStaged(ctx context.Context) ([]common_models.SourceArticle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "staged_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var staged []stagedArticle
	if err = cursor.All(ctx, &staged); err != nil {
		return nil, err
	}

	articles := make([]common_models.SourceArticle, len(staged))
	for i, s := range staged {
		articles[i] = s.Article
	}
	return articles, nil
}

func (r *ArticleRepositoryImpl) Clear(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
