package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cse-motors/dealership/internal/core/domain"
)

const auditCollection = "inventory_events"

// AuditRepository writes inventory events to MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

// EnsureIndexes creates the lookup indexes for an entity's history and for
// an actor's changes. Existing indexes are left alone.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(auditCollection).Indexes().CreateMany(ctx, auditIndexes())
	if err != nil {
		return fmt.Errorf("mongo audit indexes: %w", err)
	}
	return nil
}

func auditIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "entity_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
		{Keys: bson.D{{Key: "actor.account_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
	}
}

// Record appends an inventory event to the inventory_events collection.
func (r *AuditRepository) Record(ctx context.Context, event domain.InventoryEvent) error {
	_, err := r.db.Collection(auditCollection).InsertOne(ctx, eventDocument(event))
	return err
}

func eventDocument(event domain.InventoryEvent) bson.M {
	return bson.M{
		"action":      string(event.Action),
		"entity_id":   event.EntityID,
		"summary":     event.Summary,
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": time.Now().UTC(),
		"actor": bson.M{
			"account_id": event.ActorID,
			"email":      event.ActorEmail,
			"role":       string(event.ActorRole),
		},
	}
}
