package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/cse-motors/dealership/internal/core/domain"
)

func TestEventDocument(t *testing.T) {
	at := time.Date(2026, 4, 2, 15, 30, 0, 0, time.FixedZone("MDT", -6*3600))
	doc := eventDocument(domain.InventoryEvent{
		Action:     domain.ActionVehicleDeleted,
		EntityID:   12,
		Summary:    "2019 Jeep Wrangler",
		ActorID:    3,
		ActorEmail: "manager@340.edu",
		ActorRole:  domain.RoleAdmin,
		OccurredAt: at,
	})

	if doc["action"] != "vehicle_deleted" {
		t.Fatalf("unexpected action: %v", doc["action"])
	}
	if doc["entity_id"] != int64(12) {
		t.Fatalf("unexpected entity_id: %v", doc["entity_id"])
	}
	occurred, ok := doc["occurred_at"].(time.Time)
	if !ok || occurred.Location() != time.UTC || !occurred.Equal(at) {
		t.Fatalf("expected occurred_at in UTC, got %v", doc["occurred_at"])
	}
	actor, ok := doc["actor"].(bson.M)
	if !ok {
		t.Fatalf("expected actor sub-document, got %T", doc["actor"])
	}
	if actor["role"] != "Admin" || actor["account_id"] != int64(3) {
		t.Fatalf("unexpected actor: %v", actor)
	}

	if _, err := bson.Marshal(doc); err != nil {
		t.Fatalf("document does not marshal: %v", err)
	}
}

func TestAuditIndexes(t *testing.T) {
	idx := auditIndexes()
	if len(idx) != 2 {
		t.Fatalf("expected 2 indexes, got %d", len(idx))
	}
	keys, ok := idx[0].Keys.(bson.D)
	if !ok || len(keys) != 2 || keys[0].Key != "entity_id" || keys[1].Key != "occurred_at" {
		t.Fatalf("unexpected entity history index: %v", idx[0].Keys)
	}
}
