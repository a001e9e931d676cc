package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	DefaultVehicleImage     = "/images/vehicles/no-image.png"
	DefaultVehicleThumbnail = "/images/vehicles/no-image-tn.png"
)

// Classification groups vehicles for browsing (e.g. "SUV", "Truck").
type Classification struct {
	ID   int64  `json:"classification_id"`
	Name string `json:"classification_name"`
}

// Vehicle is a single inventory item.
type Vehicle struct {
	ID                 int64   `json:"inv_id"`
	Make               string  `json:"inv_make"`
	Model              string  `json:"inv_model"`
	Year               int     `json:"inv_year"`
	Description        string  `json:"inv_description"`
	Image              string  `json:"inv_image"`
	Thumbnail          string  `json:"inv_thumbnail"`
	Price              float64 `json:"inv_price"`
	Miles              int     `json:"inv_miles"`
	Color              string  `json:"inv_color"`
	ClassificationID   int64   `json:"classification_id"`
	ClassificationName string  `json:"classification_name,omitempty"`
}

// Title is the display name used in headings, e.g. "2019 Jeep Wrangler".
func (v *Vehicle) Title() string {
	return strings.TrimSpace(strconv.Itoa(v.Year) + " " + v.Name())
}

// Name is make and model without the year.
func (v *Vehicle) Name() string {
	return strings.TrimSpace(v.Make + " " + v.Model)
}

// VehicleInput carries the mutable fields of a vehicle.
type VehicleInput struct {
	Make             string
	Model            string
	Year             int
	Description      string
	Image            string
	Thumbnail        string
	Price            float64
	Miles            int
	Color            string
	ClassificationID int64
}

// Normalize trims text fields and fills in placeholder image paths.
func (in VehicleInput) Normalize() VehicleInput {
	in.Make = strings.TrimSpace(in.Make)
	in.Model = strings.TrimSpace(in.Model)
	in.Description = strings.TrimSpace(in.Description)
	in.Color = strings.Join(strings.Fields(in.Color), " ")
	in.Image = strings.TrimSpace(in.Image)
	in.Thumbnail = strings.TrimSpace(in.Thumbnail)
	if in.Image == "" {
		in.Image = DefaultVehicleImage
	}
	if in.Thumbnail == "" {
		in.Thumbnail = DefaultVehicleThumbnail
	}
	return in
}

// Vehicle builds the persisted shape for the given id (0 for new rows).
func (in VehicleInput) Vehicle(id int64) *Vehicle {
	return &Vehicle{
		ID:               id,
		Make:             in.Make,
		Model:            in.Model,
		Year:             in.Year,
		Description:      in.Description,
		Image:            in.Image,
		Thumbnail:        in.Thumbnail,
		Price:            in.Price,
		Miles:            in.Miles,
		Color:            in.Color,
		ClassificationID: in.ClassificationID,
	}
}

// NormalizeClassificationName trims surrounding whitespace.
func NormalizeClassificationName(name string) string {
	return strings.TrimSpace(name)
}

// InventoryAction names a mutation recorded in the audit trail.
type InventoryAction string

const (
	ActionClassificationCreated InventoryAction = "classification_created"
	ActionVehicleCreated        InventoryAction = "vehicle_created"
	ActionVehicleUpdated        InventoryAction = "vehicle_updated"
	ActionVehicleDeleted        InventoryAction = "vehicle_deleted"
)

// InventoryEvent records who changed what in the inventory.
type InventoryEvent struct {
	Action     InventoryAction
	EntityID   int64
	Summary    string
	ActorID    int64
	ActorEmail string
	ActorRole  Role
	OccurredAt time.Time
}
