package handler

import (
	"strconv"
	"strings"

	"github.com/cse-motors/dealership/internal/core/domain"
)

type classificationForm struct {
	Name string `form:"classification_name" validate:"required,max=64,letters"`
}

// vehicleForm keeps every field as submitted text so a failed submission
// re-renders exactly what was typed.
type vehicleForm struct {
	InvID            string `form:"inv_id"`
	Make             string `form:"inv_make"          validate:"required,max=64,vehiclename"`
	Model            string `form:"inv_model"         validate:"required,max=64,vehiclename"`
	ClassificationID string `form:"classification_id" validate:"required,positiveid"`
	Description      string `form:"inv_description"   validate:"required,min=10"`
	Image            string `form:"inv_image"         validate:"omitempty,max=255,imagepath"`
	Thumbnail        string `form:"inv_thumbnail"     validate:"omitempty,max=255,imagepath"`
	Price            string `form:"inv_price"         validate:"required,money"`
	Year             string `form:"inv_year"          validate:"required,vehicleyear"`
	Miles            string `form:"inv_miles"         validate:"required,count"`
	Color            string `form:"inv_color"         validate:"required,max=64,color"`
}

func (f *vehicleForm) normalize() {
	for _, s := range []*string{
		&f.InvID, &f.Make, &f.Model, &f.ClassificationID, &f.Description,
		&f.Image, &f.Thumbnail, &f.Price, &f.Year, &f.Miles,
	} {
		*s = strings.TrimSpace(*s)
	}
	f.Color = strings.Join(strings.Fields(f.Color), " ")
}

// input converts a validated form into the service input.
func (f vehicleForm) input() domain.VehicleInput {
	price, _ := strconv.ParseFloat(f.Price, 64)
	year, _ := strconv.Atoi(f.Year)
	miles, _ := strconv.Atoi(f.Miles)
	classificationID, _ := parseID(f.ClassificationID)

	return domain.VehicleInput{
		Make:             f.Make,
		Model:            f.Model,
		Year:             year,
		Description:      f.Description,
		Image:            f.Image,
		Thumbnail:        f.Thumbnail,
		Price:            price,
		Miles:            miles,
		Color:            f.Color,
		ClassificationID: classificationID,
	}
}

func (f vehicleForm) sticky() map[string]string {
	return map[string]string{
		"inv_id":            f.InvID,
		"inv_make":          f.Make,
		"inv_model":         f.Model,
		"classification_id": f.ClassificationID,
		"inv_description":   f.Description,
		"inv_image":         f.Image,
		"inv_thumbnail":     f.Thumbnail,
		"inv_price":         f.Price,
		"inv_year":          f.Year,
		"inv_miles":         f.Miles,
		"inv_color":         f.Color,
	}
}

// newVehicleFormValues pre-fills the add form with the placeholder images.
func newVehicleFormValues() map[string]string {
	return map[string]string{
		"inv_image":     domain.DefaultVehicleImage,
		"inv_thumbnail": domain.DefaultVehicleThumbnail,
	}
}

func vehicleFormValues(v *domain.Vehicle) map[string]string {
	return map[string]string{
		"inv_id":            formatID(v.ID),
		"inv_make":          v.Make,
		"inv_model":         v.Model,
		"classification_id": formatID(v.ClassificationID),
		"inv_description":   v.Description,
		"inv_image":         v.Image,
		"inv_thumbnail":     v.Thumbnail,
		"inv_price":         strconv.FormatFloat(v.Price, 'f', -1, 64),
		"inv_year":          strconv.Itoa(v.Year),
		"inv_miles":         strconv.Itoa(v.Miles),
		"inv_color":         v.Color,
	}
}

// classificationView is the data behind the classification grid.
type classificationView struct {
	Classification *domain.Classification
	Vehicles       []domain.Vehicle
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}
