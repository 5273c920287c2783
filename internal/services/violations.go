package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/safespace-backend/internal/models"
)

// ViolationRecorder keeps the moderation audit log. Recording is best effort:
// callers log failures and carry on.
type ViolationRecorder interface {
	Record(ctx context.Context, v models.Violation) error
	Recent(ctx context.Context, limit int) ([]models.Violation, error)
}

// NopViolationRecorder is used when MongoDB is not configured.
type NopViolationRecorder struct{}

func (NopViolationRecorder) Record(context.Context, models.Violation) error { return nil }

func (NopViolationRecorder) Recent(context.Context, int) ([]models.Violation, error) {
	return []models.Violation{}, nil
}

// MongoViolationRecorder stores violations in the "violations" collection.
type MongoViolationRecorder struct {
	coll *mongo.Collection
}

func NewMongoViolationRecorder(db *mongo.Database) *MongoViolationRecorder {
	return &MongoViolationRecorder{coll: db.Collection("violations")}
}

func (r *MongoViolationRecorder) Record(ctx context.Context, v models.Violation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, v)
	return err
}

func (r *MongoViolationRecorder) Recent(ctx context.Context, limit int) ([]models.Violation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	violations := []models.Violation{}
	if err := cursor.All(ctx, &violations); err != nil {
		return nil, err
	}
	return violations, nil
}

// CleanupOldViolations removes audit entries older than maxAge.
func (r *MongoViolationRecorder) CleanupOldViolations(ctx context.Context, maxAge time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := r.coll.DeleteMany(ctx, bson.M{
		"created_at": bson.M{"$lt": time.Now().Add(-maxAge)},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// StartViolationCleanup prunes the audit log every interval until ctx is done.
func (r *MongoViolationRecorder) StartViolationCleanup(ctx context.Context, interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			n, err := r.CleanupOldViolations(ctx, maxAge)
			if err != nil {
				log.Warn().Err(err).Msg("violation cleanup failed")
			} else if n > 0 {
				log.Info().Int64("deleted", n).Msg("🧹 cleaned up old violations")
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// recordViolation logs instead of returning so it can never fail a request.
func recordViolation(ctx context.Context, rec ViolationRecorder, v models.Violation) {
	if rec == nil {
		return
	}
	if err := rec.Record(context.WithoutCancel(ctx), v); err != nil {
		log.Warn().Err(err).
			Str("account_id", v.AccountID).
			Str("type", string(v.Type)).
			Msg("failed to record violation")
	}
}
