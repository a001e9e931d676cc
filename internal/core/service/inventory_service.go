package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership/internal/core/domain"
	"github.com/cse-motors/dealership/internal/core/ports"
)

type inventoryService struct {
	repo  ports.InventoryRepository
	audit ports.AuditRepository
	log   zerolog.Logger
	now   func() time.Time
}

// NewInventoryService returns an InventoryService. audit may be nil, in which
// case mutations are not recorded.
func NewInventoryService(repo ports.InventoryRepository, audit ports.AuditRepository, log zerolog.Logger) ports.InventoryService {
	return &inventoryService{repo: repo, audit: audit, log: log, now: time.Now}
}

func (s *inventoryService) ListClassifications(ctx context.Context) ([]domain.Classification, error) {
	return s.repo.ListClassifications(ctx)
}

func (s *inventoryService) GetClassification(ctx context.Context, id int64) (*domain.Classification, error) {
	if id <= 0 {
		return nil, domain.ErrClassificationNotFound
	}
	return s.repo.GetClassification(ctx, id)
}

func (s *inventoryService) ListByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error) {
	if classificationID <= 0 {
		return []domain.Vehicle{}, nil
	}
	vehicles, err := s.repo.ListByClassification(ctx, classificationID)
	if err != nil {
		return nil, fmt.Errorf("list by classification %d: %w", classificationID, err)
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	return vehicles, nil
}

func (s *inventoryService) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	if id <= 0 {
		return nil, domain.ErrVehicleNotFound
	}
	return s.repo.GetVehicle(ctx, id)
}

func (s *inventoryService) CreateClassification(ctx context.Context, actor domain.Identity, name string) (*domain.Classification, error) {
	if err := authorizeInventory(actor); err != nil {
		return nil, err
	}
	name = domain.NormalizeClassificationName(name)
	if name == "" {
		return nil, domain.NewValidationError("classification_name", "Please provide a classification name.")
	}

	created, err := s.repo.CreateClassification(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateClassification) {
			return nil, err
		}
		return nil, fmt.Errorf("create classification: %w", err)
	}

	s.record(ctx, actor, domain.ActionClassificationCreated, created.ID, created.Name)
	return created, nil
}

func (s *inventoryService) CreateVehicle(ctx context.Context, actor domain.Identity, in domain.VehicleInput) (*domain.Vehicle, error) {
	if err := authorizeInventory(actor); err != nil {
		return nil, err
	}
	in = in.Normalize()

	created, err := s.repo.CreateVehicle(ctx, in.Vehicle(0))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create vehicle: %w", err)
	}

	s.record(ctx, actor, domain.ActionVehicleCreated, created.ID, created.Title())
	return created, nil
}

func (s *inventoryService) UpdateVehicle(ctx context.Context, actor domain.Identity, id int64, in domain.VehicleInput) (*domain.Vehicle, error) {
	if err := authorizeInventory(actor); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, domain.ErrVehicleNotFound
	}
	in = in.Normalize()

	updated, err := s.repo.UpdateVehicle(ctx, in.Vehicle(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update vehicle %d: %w", id, err)
	}

	s.record(ctx, actor, domain.ActionVehicleUpdated, updated.ID, updated.Title())
	return updated, nil
}

func (s *inventoryService) DeleteVehicle(ctx context.Context, actor domain.Identity, id int64) (*domain.Vehicle, error) {
	if err := authorizeInventory(actor); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, domain.ErrVehicleNotFound
	}

	deleted, err := s.repo.DeleteVehicle(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("delete vehicle %d: %w", id, err)
	}

	s.record(ctx, actor, domain.ActionVehicleDeleted, deleted.ID, deleted.Title())
	return deleted, nil
}

// record writes to the audit trail; failure is logged and never fails the mutation.
func (s *inventoryService) record(ctx context.Context, actor domain.Identity, action domain.InventoryAction, entityID int64, summary string) {
	s.log.Info().
		Str("action", string(action)).
		Int64("entity_id", entityID).
		Int64("actor_id", actor.AccountID).
		Msg("inventory changed")

	if s.audit == nil {
		return
	}
	event := domain.InventoryEvent{
		Action:     action,
		EntityID:   entityID,
		Summary:    summary,
		ActorID:    actor.AccountID,
		ActorEmail: actor.Email,
		ActorRole:  actor.Role,
		OccurredAt: s.now().UTC(),
	}
	if err := s.audit.Record(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("action", string(action)).Int64("entity_id", entityID).Msg("failed to record audit event")
	}
}

func authorizeInventory(actor domain.Identity) error {
	if !actor.Authenticated() {
		return domain.ErrUnauthorized
	}
	if !domain.InventoryManagers.Contains(actor.Role) {
		return domain.ErrForbidden
	}
	return nil
}
