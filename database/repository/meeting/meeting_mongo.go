package meeting

import (
	"context"
	"fmt"
	"time"

	"meetsync/database"
	"meetsync/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	dbName         = "meetsync"
	collectionName = "meetings"
)

// MongoMeetingRepo implements MeetingRepository backed by MongoDB.
type MongoMeetingRepo struct {
	coll *mongo.Collection
}

func NewMongoMeetingRepo() *MongoMeetingRepo {
	return &MongoMeetingRepo{
		coll: database.MongoClient.Database(dbName).Collection(collectionName),
	}
}

func (r *MongoMeetingRepo) Insert(ctx context.Context, rec *models.MeetingRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert meeting record: %w", err)
	}
	return nil
}

func (r *MongoMeetingRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.MeetingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.MeetingRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode meetings: %w", err)
	}
	return records, nil
}

func (r *MongoMeetingRepo) GetBySession(ctx context.Context, sessionID string) (*models.MeetingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec models.MeetingRecord
	err := r.coll.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("meeting record not found for session %s", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("get meeting record: %w", err)
	}
	return &rec, nil
}
