package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkolchin/shopcart/internal/app/config"
	"github.com/mkolchin/shopcart/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	cartStateCollectionName = "cart_state"
)

type stateDocument struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type cartStore struct {
	collection *mongo.Collection
}

// NewCartStore keeps the cart blob in a single document keyed by the
// storage key, upserted on every write.
func NewCartStore(client *mongo.Client, cfg config.MongoDBConfig) repository.CartStore {
	collection := client.Database(cfg.Database).Collection(cartStateCollectionName)
	return &cartStore{
		collection: collection,
	}
}

func (s *cartStore) Read(ctx context.Context, key string) ([]byte, error) {
	var doc stateDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cart blob %s from mongodb: %w", key, err)
	}
	return doc.Data, nil
}

func (s *cartStore) Write(ctx context.Context, key string, data []byte) error {
	doc := stateDocument{
		Key:       key,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to write cart blob %s to mongodb: %w", key, err)
	}
	return nil
}
