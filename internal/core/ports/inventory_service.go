package ports

import (
	"context"

	"github.com/cse-motors/dealership/internal/core/domain"
)

// InventoryService exposes public reads and role-gated mutations.
// Mutations require an actor in domain.InventoryManagers.
type InventoryService interface {
	ListClassifications(ctx context.Context) ([]domain.Classification, error)
	GetClassification(ctx context.Context, id int64) (*domain.Classification, error)
	ListByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)

	CreateClassification(ctx context.Context, actor domain.Identity, name string) (*domain.Classification, error)
	CreateVehicle(ctx context.Context, actor domain.Identity, in domain.VehicleInput) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, actor domain.Identity, id int64, in domain.VehicleInput) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, actor domain.Identity, id int64) (*domain.Vehicle, error)
}
