package database

import (
	"context"
	"fmt"
	"log"
	"tg-info-bot/config"
	"tg-info-bot/internal/database/models"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

// ConnectDB establishes a connection to the MongoDB database using the provided configuration.
// It returns the MongoDB client, database object, and an error if connection fails.
func ConnectDB(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.MongoDBURI).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Send a ping to confirm a successful connection
	var result bson.M
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Decode(&result); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Println("Successfully connected and pinged MongoDB!")

	return client, client.Database(cfg.MongoDBDatabase), nil
}

// MongoUserStore implements UserStore on a MongoDB collection, one document per user.
type MongoUserStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoUserStore creates a store backed by the "users" collection of db.
func NewMongoUserStore(client *mongo.Client, db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{
		client:     client,
		collection: db.Collection(userCollectionName),
	}
}

// Load reads all user documents.
func (s *MongoUserStore) Load(ctx context.Context) (map[int64]models.UserRecord, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.UserRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make(map[int64]models.UserRecord, len(records))
	for _, rec := range records {
		users[rec.ID] = rec
	}
	return users, nil
}

// Upsert updates or inserts a single user document.
// first_seen is only written when the document is created.
func (s *MongoUserStore) Upsert(ctx context.Context, rec models.UserRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	firstSeen := rec.FirstSeen
	if firstSeen.IsZero() {
		firstSeen = rec.LastSeen
	}
	update := bson.M{
		"$set": bson.M{
			"username":          rec.Username,
			"first_name":        rec.FirstName,
			"last_name":         rec.LastName,
			"interaction_count": rec.InteractionCount,
			"last_seen":         rec.LastSeen,
		},
		"$setOnInsert": bson.M{
			"first_seen": firstSeen,
		},
	}

	_, err := s.collection.UpdateOne(
		ctx,
		bson.M{"user_id": rec.ID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", rec.ID, err)
	}
	return nil
}

// Close disconnects the underlying client.
func (s *MongoUserStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	log.Println("Disconnected from MongoDB.")
	return nil
}
