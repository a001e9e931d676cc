package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cse-motors/dealership/internal/core/domain"
	"github.com/cse-motors/dealership/internal/core/ports"
)

const vehicleColumns = `i.inv_id, i.inv_make, i.inv_model, i.inv_year, i.inv_description,
	i.inv_image, i.inv_thumbnail, i.inv_price, i.inv_miles, i.inv_color,
	i.classification_id, c.classification_name`

// Mutations return the row through a CTE so the joined classification name comes back too.
const returningVehicle = `
	SELECT ` + vehicleColumns + `
	FROM changed AS i
	JOIN classification AS c ON c.classification_id = i.classification_id`

// InventoryRepository implements ports.InventoryRepository on the
// classification and inventory tables.
type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) ports.InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) ListClassifications(ctx context.Context) ([]domain.Classification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT classification_id, classification_name FROM classification ORDER BY classification_name`)
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	defer rows.Close()

	out := []domain.Classification{}
	for rows.Next() {
		var c domain.Classification
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan classification: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	return out, nil
}

func (r *InventoryRepository) GetClassification(ctx context.Context, id int64) (*domain.Classification, error) {
	var c domain.Classification
	err := r.db.QueryRowContext(ctx,
		`SELECT classification_id, classification_name FROM classification WHERE classification_id = $1`, id,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClassificationNotFound
		}
		return nil, fmt.Errorf("get classification: %w", err)
	}
	return &c, nil
}

func (r *InventoryRepository) CreateClassification(ctx context.Context, name string) (*domain.Classification, error) {
	var c domain.Classification
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO classification (classification_name) VALUES ($1)
		RETURNING classification_id, classification_name`, name,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateClassification
		}
		return nil, fmt.Errorf("create classification: %w", err)
	}
	return &c, nil
}

func (r *InventoryRepository) ListByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+vehicleColumns+`
		FROM inventory AS i
		JOIN classification AS c ON c.classification_id = i.classification_id
		WHERE i.classification_id = $1
		ORDER BY i.inv_make, i.inv_model`, classificationID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	out := []domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return out, nil
}

func (r *InventoryRepository) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+vehicleColumns+`
		FROM inventory AS i
		JOIN classification AS c ON c.classification_id = i.classification_id
		WHERE i.inv_id = $1`, id)
	v, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

func (r *InventoryRepository) CreateVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	query := `WITH changed AS (
		INSERT INTO inventory
			(inv_make, inv_model, inv_year, inv_description, inv_image, inv_thumbnail,
			 inv_price, inv_miles, inv_color, classification_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING *
	)` + returningVehicle

	created, err := scanVehicle(r.db.QueryRowContext(ctx, query,
		v.Make, v.Model, v.Year, v.Description, v.Image, v.Thumbnail,
		v.Price, v.Miles, v.Color, v.ClassificationID))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrClassificationNotFound
		}
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return created, nil
}

func (r *InventoryRepository) UpdateVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	query := `WITH changed AS (
		UPDATE inventory SET
			inv_make = $1, inv_model = $2, inv_year = $3, inv_description = $4,
			inv_image = $5, inv_thumbnail = $6, inv_price = $7, inv_miles = $8,
			inv_color = $9, classification_id = $10
		WHERE inv_id = $11
		RETURNING *
	)` + returningVehicle

	updated, err := scanVehicle(r.db.QueryRowContext(ctx, query,
		v.Make, v.Model, v.Year, v.Description, v.Image, v.Thumbnail,
		v.Price, v.Miles, v.Color, v.ClassificationID, v.ID))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrVehicleNotFound
		case isForeignKeyViolation(err):
			return nil, domain.ErrClassificationNotFound
		}
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return updated, nil
}

func (r *InventoryRepository) DeleteVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	query := `WITH changed AS (
		DELETE FROM inventory WHERE inv_id = $1 RETURNING *
	)` + returningVehicle

	deleted, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("delete vehicle: %w", err)
	}
	return deleted, nil
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(&v.ID, &v.Make, &v.Model, &v.Year, &v.Description,
		&v.Image, &v.Thumbnail, &v.Price, &v.Miles, &v.Color,
		&v.ClassificationID, &v.ClassificationName)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
