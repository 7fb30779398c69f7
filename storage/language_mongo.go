package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const languageCollectionName = "languages"

type languageRecord struct {
	UserID    int64     `bson:"user_id"`
	Code      string    `bson:"code"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoLanguageStorage is a MongoDB implementation of LanguageStorage.
// It shares the client with the session storage.
type MongoLanguageStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	log        *slog.Logger
}

func NewMongoLanguageStorage(client *mongo.Client, database string, log *slog.Logger) (*MongoLanguageStorage, error) {
	collection := client.Database(database).Collection(languageCollectionName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Warn("creating language index", slog.String("error", err.Error()))
	}

	return &MongoLanguageStorage{
		client:     client,
		collection: collection,
		log:        log,
	}, nil
}

func (m *MongoLanguageStorage) GetLanguage(userId int64) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var record languageRecord
	err := m.collection.FindOne(ctx, bson.M{"user_id": userId}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("finding language: %w", err)
	}
	return record.Code, nil
}

func (m *MongoLanguageStorage) PutLanguage(userId int64, code string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"code":       code,
			"updated_at": time.Now(),
		},
		"$setOnInsert": bson.M{
			"user_id": userId,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := m.collection.UpdateOne(ctx, bson.M{"user_id": userId}, update, opts)
	return err
}

// Close closes the storage (client is shared, don't disconnect here)
func (m *MongoLanguageStorage) Close() error {
	return nil
}
