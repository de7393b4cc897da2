package services

import (
	"context"
	"log"
	"time"

	"crypto_stats_backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB database and collection names
const (
	MongoDBName             = "crypto_stats"
	MongoSnapshotCollection = "coin_stats"
)

const mongoOpTimeout = 30 * time.Second

// MongoSnapshotStore persists coin snapshots in a MongoDB collection.
type MongoSnapshotStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoSnapshotStore connects to MongoDB and verifies the
// connection with a ping before returning the store.
func NewMongoSnapshotStore(uri string) (*MongoSnapshotStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetMaxPoolSize(10).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(30 * time.Second).
		SetConnectTimeout(30 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Printf("Failed to connect to MongoDB: %v", err)
		return nil, &PersistenceError{Op: "connect", Err: err}
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Printf("Failed to ping MongoDB: %v", err)
		client.Disconnect(ctx)
		return nil, &PersistenceError{Op: "ping", Err: err}
	}

	store := &MongoSnapshotStore{
		client:     client,
		collection: client.Database(MongoDBName).Collection(MongoSnapshotCollection),
	}
	store.createIndexes()

	log.Println("MongoDB connected successfully")
	return store, nil
}

// createIndexes creates the compound index backing Recent's filter
// and sort. Failures are logged only; the store works without it.
func (s *MongoSnapshotStore) createIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "coin_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	if err != nil {
		log.Printf("Failed to create MongoDB indexes: %v", err)
		return
	}
	log.Println("MongoDB indexes created")
}

// Append inserts one snapshot after validating the schema invariants.
func (s *MongoSnapshotStore) Append(ctx context.Context, snapshot *models.CoinSnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return &PersistenceError{Op: "append", Err: err}
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	if _, err := s.collection.InsertOne(ctx, snapshot); err != nil {
		return &PersistenceError{Op: "append", Err: err}
	}
	return nil
}

// Recent returns up to limit snapshots for coinID, newest first.
// Only the fields the deviation calculation needs are projected.
func (s *MongoSnapshotStore) Recent(ctx context.Context, coinID string, limit int) ([]models.CoinSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"coin_id": 1, "price": 1, "created_at": 1})

	cursor, err := s.collection.Find(ctx, bson.M{"coin_id": coinID}, opts)
	if err != nil {
		return nil, &PersistenceError{Op: "recent", Err: err}
	}
	defer cursor.Close(ctx)

	snapshots := []models.CoinSnapshot{}
	for cursor.Next(ctx) {
		var snap models.CoinSnapshot
		if err := cursor.Decode(&snap); err != nil {
			return nil, &PersistenceError{Op: "recent", Err: err}
		}
		snapshots = append(snapshots, snap)
	}
	if err := cursor.Err(); err != nil {
		return nil, &PersistenceError{Op: "recent", Err: err}
	}
	return snapshots, nil
}

// Ping verifies the MongoDB connection.
func (s *MongoSnapshotStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

// Close disconnects from MongoDB.
func (s *MongoSnapshotStore) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
