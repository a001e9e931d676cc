package ports

import (
	"context"

	"github.com/cse-motors/dealership/internal/core/domain"
)

// InventoryRepository defines the interface for classification and vehicle persistence.
type InventoryRepository interface {
	ListClassifications(ctx context.Context) ([]domain.Classification, error)
	GetClassification(ctx context.Context, id int64) (*domain.Classification, error)
	CreateClassification(ctx context.Context, name string) (*domain.Classification, error)

	// ListByClassification returns vehicles joined with their classification name.
	// An unknown classification yields an empty slice.
	ListByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	CreateVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error)
	// DeleteVehicle returns the removed row, or ErrVehicleNotFound.
	DeleteVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
}
