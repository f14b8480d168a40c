package settings

import (
	"context"

	"go-briefing/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const configKey = "app_config"

type SettingsRepository interface {
	Get(ctx context.Context) (*AppConfig, error)
	Upsert(ctx context.Context, config *AppConfig) error
}

type SettingsRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSettingsRepository(mongodb *database.MongodbDB) SettingsRepository {
	return &SettingsRepositoryImpl{
		Collection: mongodb.DB.Collection("settings"),
	}
}

func (r *SettingsRepositoryImpl) Get(ctx context.Context) (*AppConfig, error) {
	var doc struct {
		Config AppConfig `bson:"config"`
	}
	err := r.Collection.FindOne(ctx, bson.M{"key": configKey}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &doc.Config, nil
}

func (r *SettingsRepositoryImpl) Upsert(ctx context.Context, config *AppConfig) error {
	filter := bson.M{"key": configKey}
	update := bson.M{"$set": bson.M{"key": configKey, "config": config}}
	opts := options.Update().SetUpsert(true)
	_, err := r.Collection.UpdateOne(ctx, filter, update, opts)
	return err
}
