package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripmitra/internal/domain"
	"tripmitra/internal/domain/models"
	"tripmitra/internal/domain/repositories"
)

// preferenceDocument is the stored document shape. Field names are shared
// with other consumers of the collection and must not change.
type preferenceDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        string             `bson:"user_id"`
	Preferences   bson.M             `bson:"preferences"`
	CreatedAt     time.Time          `bson:"createdAt"`
	SchemaVersion int                `bson:"__v"`
}

// MongoPreferenceRepository implements the PreferenceRepository interface
type MongoPreferenceRepository struct {
	handle     *Handle
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewPreferenceRepository creates a new MongoPreferenceRepository
func NewPreferenceRepository(handle *Handle, collectionName string, logger *slog.Logger) *MongoPreferenceRepository {
	return &MongoPreferenceRepository{
		handle:     handle,
		collection: handle.Collection(collectionName),
		logger:     logger,
	}
}

var _ repositories.PreferenceRepository = (*MongoPreferenceRepository)(nil)

// EnsureIndexes creates the unique index on user_id. Existing duplicate
// records make the build fail; that is logged and startup continues.
func (r *MongoPreferenceRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("create user_id index: %w", err)
	}
	return nil
}

// GetByUserID retrieves the record for a user
func (r *MongoPreferenceRepository) GetByUserID(ctx context.Context, userID string) (*models.PreferenceRecord, error) {
	var doc preferenceDocument
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find preferences: %w", err)
	}

	prefs, err := models.PreferencesFromDocument(doc.Preferences)
	if err != nil {
		return nil, err
	}

	return &models.PreferenceRecord{
		UserID:        doc.UserID,
		Preferences:   prefs,
		CreatedAt:     doc.CreatedAt,
		SchemaVersion: doc.SchemaVersion,
	}, nil
}

// Insert stores a new record
func (r *MongoPreferenceRepository) Insert(ctx context.Context, record *models.PreferenceRecord) error {
	doc := preferenceDocument{
		UserID:        record.UserID,
		Preferences:   bson.M(record.Preferences.ToDocument()),
		CreatedAt:     record.CreatedAt,
		SchemaVersion: record.SchemaVersion,
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("preferences for user %q already exist", record.UserID),
				ResourceType: "preferences",
				ResourceID:   record.UserID,
			}
		}
		return fmt.Errorf("insert preferences: %w", err)
	}
	if res.InsertedID == nil {
		return fmt.Errorf("insert preferences: %w", domain.ErrWriteRejected)
	}

	return nil
}

// SetPreferences replaces the preferences sub-object, inserting the record if absent
func (r *MongoPreferenceRepository) SetPreferences(ctx context.Context, userID string, prefs map[string]interface{}, now time.Time) (*repositories.WriteResult, error) {
	update := bson.M{
		"$set": bson.M{"preferences": prefs},
		"$setOnInsert": bson.M{
			"createdAt": now,
			"__v":       models.CurrentSchemaVersion,
		},
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("set preferences: %w", err)
	}

	return &repositories.WriteResult{
		Matched:  res.MatchedCount,
		Modified: res.ModifiedCount,
		Upserted: res.UpsertedCount > 0 || res.UpsertedID != nil,
	}, nil
}

// Delete removes the user's record
func (r *MongoPreferenceRepository) Delete(ctx context.Context, userID string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return false, fmt.Errorf("delete preferences: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// Ping checks the backing store is reachable
func (r *MongoPreferenceRepository) Ping(ctx context.Context) error {
	return r.handle.Ping(ctx)
}
