package newsletter

import (
	"context"
	"time"

	"go-briefing/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NewsletterRepository interface {
	Save(ctx context.Context, newsletter *Newsletter) error
	Update(ctx context.Context, newsletter *Newsletter) error
	Get(ctx context.Context, id string) (*Newsletter, error)
	List(ctx context.Context) ([]Newsletter, error)
}

type NewsletterRepositoryImpl struct {
	collection *mongo.Collection
}

func NewNewsletterRepository(db *database.MongodbDB) NewsletterRepository {
	return &NewsletterRepositoryImpl{
		collection: db.DB.Collection("newsletters"),
	}
}

func (r *NewsletterRepositoryImpl) Save(ctx context.Context, newsletter *Newsletter) error {
	if newsletter.ID.IsZero() {
		newsletter.ID = primitive.NewObjectID()
	}
	if newsletter.CreatedAt.IsZero() {
		newsletter.CreatedAt = time.Now()
	}
	newsletter.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, newsletter)
	return err
}

// Update replaces the stored document wholesale; concurrent edits resolve
// last-write-wins at this boundary
func (r *NewsletterRepositoryImpl) Update(ctx context.Context, newsletter *Newsletter) error {
	newsletter.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": newsletter.ID}, newsletter)
	return err
}

func (r *NewsletterRepositoryImpl) Get(ctx context.Context, id string) (*Newsletter, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var newsletter Newsletter
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&newsletter)
	if err != nil {
		return nil, err
	}

	return &newsletter, nil
}

func (r *NewsletterRepositoryImpl) List(ctx context.Context) ([]Newsletter, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var newsletters []Newsletter
	if err = cursor.All(ctx, &newsletters); err != nil {
		return nil, err
	}

	return newsletters, nil
}
