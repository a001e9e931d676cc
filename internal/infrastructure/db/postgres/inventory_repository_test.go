package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cse-motors/dealership/internal/core/domain"
)

var vehicleCols = []string{
	"inv_id", "inv_make", "inv_model", "inv_year", "inv_description",
	"inv_image", "inv_thumbnail", "inv_price", "inv_miles", "inv_color",
	"classification_id", "classification_name",
}

func wranglerRow(rows *sqlmock.Rows, id int64) *sqlmock.Rows {
	return rows.AddRow(id, "Jeep", "Wrangler", int64(2019), "Small and compact.",
		"/images/vehicles/wrangler.jpg", "/images/vehicles/wrangler-tn.jpg",
		"28045.00", int64(41205), "Yellow", int64(2), "Sport")
}

func TestInventoryRepository_ListClassifications(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM classification ORDER BY classification_name")).
		WillReturnRows(sqlmock.NewRows([]string{"classification_id", "classification_name"}).
			AddRow(int64(1), "Custom").
			AddRow(int64(2), "Sport"))

	list, err := repo.ListClassifications(context.Background())
	if err != nil {
		t.Fatalf("ListClassifications: %v", err)
	}
	if len(list) != 2 || list[1].Name != "Sport" {
		t.Fatalf("unexpected classifications: %+v", list)
	}
}

func TestInventoryRepository_CreateClassification_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO classification")).
		WithArgs("Sport").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if _, err := repo.CreateClassification(context.Background(), "Sport"); !errors.Is(err, domain.ErrDuplicateClassification) {
		t.Fatalf("expected ErrDuplicateClassification, got %v", err)
	}
}

func TestInventoryRepository_ListByClassification(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE i.classification_id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(wranglerRow(sqlmock.NewRows(vehicleCols), 5))

	vehicles, err := repo.ListByClassification(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListByClassification: %v", err)
	}
	if len(vehicles) != 1 {
		t.Fatalf("expected 1 vehicle, got %d", len(vehicles))
	}
	v := vehicles[0]
	if v.Price != 28045 || v.Year != 2019 || v.ClassificationName != "Sport" {
		t.Fatalf("unexpected vehicle: %+v", v)
	}
}

func TestInventoryRepository_ListByClassification_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE i.classification_id = $1")).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows(vehicleCols))

	vehicles, err := repo.ListByClassification(context.Background(), 77)
	if err != nil {
		t.Fatalf("ListByClassification: %v", err)
	}
	if vehicles == nil || len(vehicles) != 0 {
		t.Fatalf("expected empty slice, got %#v", vehicles)
	}
}

func TestInventoryRepository_GetVehicle_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE i.inv_id = $1")).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetVehicle(context.Background(), 404); !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}

func TestInventoryRepository_CreateVehicle(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO inventory")).
		WithArgs("Jeep", "Wrangler", 2019, "Small and compact.",
			"/images/vehicles/wrangler.jpg", "/images/vehicles/wrangler-tn.jpg",
			28045.0, 41205, "Yellow", int64(2)).
		WillReturnRows(wranglerRow(sqlmock.NewRows(vehicleCols), 10))

	created, err := repo.CreateVehicle(context.Background(), &domain.Vehicle{
		Make: "Jeep", Model: "Wrangler", Year: 2019, Description: "Small and compact.",
		Image: "/images/vehicles/wrangler.jpg", Thumbnail: "/images/vehicles/wrangler-tn.jpg",
		Price: 28045, Miles: 41205, Color: "Yellow", ClassificationID: 2,
	})
	if err != nil {
		t.Fatalf("CreateVehicle: %v", err)
	}
	if created.ID != 10 {
		t.Fatalf("expected id 10, got %d", created.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInventoryRepository_CreateVehicle_UnknownClassification(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO inventory")).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.CreateVehicle(context.Background(), &domain.Vehicle{ClassificationID: 99})
	if !errors.Is(err, domain.ErrClassificationNotFound) {
		t.Fatalf("expected ErrClassificationNotFound, got %v", err)
	}
}

func TestInventoryRepository_UpdateVehicle_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE inventory SET")).WillReturnError(sql.ErrNoRows)

	if _, err := repo.UpdateVehicle(context.Background(), &domain.Vehicle{ID: 404}); !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}

func TestInventoryRepository_DeleteVehicle(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM inventory WHERE inv_id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(wranglerRow(sqlmock.NewRows(vehicleCols), 10))

	deleted, err := repo.DeleteVehicle(context.Background(), 10)
	if err != nil {
		t.Fatalf("DeleteVehicle: %v", err)
	}
	if deleted.Title() != "2019 Jeep Wrangler" {
		t.Fatalf("unexpected deleted row: %+v", deleted)
	}

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM inventory WHERE inv_id = $1")).
		WithArgs(int64(10)).
		WillReturnError(sql.ErrNoRows)
	if _, err := repo.DeleteVehicle(context.Background(), 10); !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}

func TestInventoryRepository_StorageError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInventoryRepository(db)
	boom := errors.New("connection refused")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE i.inv_id = $1")).WillReturnError(boom)

	_, err := repo.GetVehicle(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("storage error must not be reported as not found")
	}
}
