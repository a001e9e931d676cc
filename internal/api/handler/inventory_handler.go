package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership/internal/api/metrics"
	"github.com/cse-motors/dealership/internal/core/domain"
	"github.com/cse-motors/dealership/internal/core/ports"
	"github.com/cse-motors/dealership/internal/web"
)

const (
	managementPath = "/inv/management"

	msgInvalidVehicle        = "Invalid vehicle id."
	msgVehicleNotFound       = "Vehicle not found."
	msgInvalidClassification = "Invalid classification."
)

type InventoryHandler struct {
	inventory ports.InventoryService
	pages     *Pages
	log       zerolog.Logger
}

func NewInventoryHandler(inventory ports.InventoryService, pages *Pages, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, pages: pages, log: log}
}

// --- Public pages ---

// ByClassification handles GET /inv/type/:classificationId.
func (h *InventoryHandler) ByClassification(c echo.Context) error {
	id, ok := parseID(c.Param("classificationId"))
	if !ok {
		return h.pages.Render(c, http.StatusBadRequest, "inventory/classification", web.Page{
			Title:   "Vehicles",
			Notices: []string{msgInvalidClassification},
			Data:    classificationView{},
		})
	}

	ctx := c.Request().Context()
	class, err := h.inventory.GetClassification(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Classification not found.")
	}
	if err != nil {
		return err
	}

	vehicles, err := h.inventory.ListByClassification(ctx, id)
	if err != nil {
		return err
	}
	return h.pages.Render(c, http.StatusOK, "inventory/classification", web.Page{
		Title: class.Name + " vehicles",
		Data:  classificationView{Classification: class, Vehicles: vehicles},
	})
}

// Detail handles GET /inv/detail/:inv_id.
func (h *InventoryHandler) Detail(c echo.Context) error {
	id, ok := parseID(c.Param("inv_id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, msgVehicleNotFound)
	}

	v, err := h.inventory.GetVehicle(c.Request().Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, msgVehicleNotFound)
	}
	if err != nil {
		return err
	}
	return h.pages.Render(c, http.StatusOK, "inventory/detail", web.Page{Title: v.Title(), Data: v})
}

// GetInventory lists the vehicles of a classification for the management page.
//
// @Summary      Vehicles by classification
// @Description  Returns an empty array for unknown or malformed classification ids.
// @Tags         inventory
// @Produce      json
// @Param        classification_id  path      int  true  "Classification ID"
// @Success      200                {array}   domain.Vehicle
// @Failure      500                {object}  errorResponse
// @Router       /inv/getInventory/{classification_id} [get]
func (h *InventoryHandler) GetInventory(c echo.Context) error {
	id, ok := parseID(c.Param("classification_id"))
	if !ok {
		return c.JSON(http.StatusOK, []domain.Vehicle{})
	}

	vehicles, err := h.inventory.ListByClassification(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vehicles)
}

// --- Management (Employee/Admin) ---

// Management handles GET /inv/ and GET /inv/management.
func (h *InventoryHandler) Management(c echo.Context) error {
	return h.pages.Render(c, http.StatusOK, "inventory/management", web.Page{Title: "Inventory Management"})
}

func (h *InventoryHandler) AddClassificationPage(c echo.Context) error {
	return h.pages.Render(c, http.StatusOK, "inventory/add-classification", web.Page{Title: "Add Classification"})
}

// AddClassification handles POST /inv/add-classification.
func (h *InventoryHandler) AddClassification(c echo.Context) error {
	var form classificationForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Name = domain.NormalizeClassificationName(form.Name)
	page := web.Page{
		Title: "Add Classification",
		Form:  map[string]string{"classification_name": form.Name},
	}

	if err := c.Validate(&form); err != nil {
		return h.pages.RenderInvalid(c, err, "inventory/add-classification", page)
	}

	_, err := h.inventory.CreateClassification(c.Request().Context(), actor(c), form.Name)
	recordMutation(domain.ActionClassificationCreated, err)
	switch {
	case errors.Is(err, domain.ErrDuplicateClassification):
		page.Errors = []string{"That classification already exists."}
		return h.pages.Render(c, http.StatusConflict, "inventory/add-classification", page)
	case isDenied(err):
		return h.pages.deny(c, err)
	case err != nil:
		return h.pages.RenderInvalid(c, err, "inventory/add-classification", page)
	}
	return h.pages.Redirect(c, managementPath, "Classification added successfully.")
}

func (h *InventoryHandler) AddVehiclePage(c echo.Context) error {
	return h.pages.Render(c, http.StatusOK, "inventory/add-inventory", web.Page{
		Title: "Add Inventory",
		Form:  newVehicleFormValues(),
	})
}

// AddVehicle handles POST /inv/add-inventory.
func (h *InventoryHandler) AddVehicle(c echo.Context) error {
	var form vehicleForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.normalize()
	page := web.Page{Title: "Add Inventory", Form: form.sticky()}

	if err := c.Validate(&form); err != nil {
		return h.pages.RenderInvalid(c, err, "inventory/add-inventory", page)
	}

	_, err := h.inventory.CreateVehicle(c.Request().Context(), actor(c), form.input())
	recordMutation(domain.ActionVehicleCreated, err)
	switch {
	case errors.Is(err, domain.ErrClassificationNotFound):
		page.Errors = []string{msgInvalidClassification}
		return h.pages.Render(c, http.StatusBadRequest, "inventory/add-inventory", page)
	case isDenied(err):
		return h.pages.deny(c, err)
	case err != nil:
		return h.pages.RenderInvalid(c, err, "inventory/add-inventory", page)
	}
	return h.pages.Redirect(c, managementPath, "Inventory item added successfully.")
}

// EditPage handles GET /inv/edit/:inv_id.
func (h *InventoryHandler) EditPage(c echo.Context) error {
	v, done, err := h.loadVehicle(c, c.Param("inv_id"))
	if done {
		return err
	}
	return h.pages.Render(c, http.StatusOK, "inventory/edit", web.Page{
		Title: "Edit " + v.Name(),
		Form:  vehicleFormValues(v),
	})
}

// Update handles POST /inv/update.
func (h *InventoryHandler) Update(c echo.Context) error {
	var form vehicleForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.normalize()

	id, ok := parseID(form.InvID)
	if !ok {
		return h.pages.Redirect(c, managementPath, msgInvalidVehicle)
	}
	page := web.Page{
		Title:   "Edit " + form.Make + " " + form.Model,
		Notices: []string{"Update failed. Please correct and try again."},
		Form:    form.sticky(),
	}

	if err := c.Validate(&form); err != nil {
		return h.pages.RenderInvalid(c, err, "inventory/edit", page)
	}

	_, err := h.inventory.UpdateVehicle(c.Request().Context(), actor(c), id, form.input())
	recordMutation(domain.ActionVehicleUpdated, err)
	switch {
	case errors.Is(err, domain.ErrVehicleNotFound):
		return h.pages.Redirect(c, managementPath, msgVehicleNotFound)
	case errors.Is(err, domain.ErrClassificationNotFound):
		page.Errors = []string{msgInvalidClassification}
		return h.pages.Render(c, http.StatusBadRequest, "inventory/edit", page)
	case isDenied(err):
		return h.pages.deny(c, err)
	case err != nil:
		return h.pages.RenderInvalid(c, err, "inventory/edit", page)
	}
	return h.pages.Redirect(c, managementPath, "Inventory item updated successfully.")
}

// DeletePage handles GET /inv/delete/:inv_id.
func (h *InventoryHandler) DeletePage(c echo.Context) error {
	v, done, err := h.loadVehicle(c, c.Param("inv_id"))
	if done {
		return err
	}
	return h.pages.Render(c, http.StatusOK, "inventory/delete-confirm", web.Page{
		Title: "Delete " + v.Name(),
		Data:  v,
	})
}

// Delete handles POST /inv/delete.
func (h *InventoryHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.FormValue("inv_id"))
	if !ok {
		return h.pages.Redirect(c, managementPath, "Invalid request.")
	}

	_, err := h.inventory.DeleteVehicle(c.Request().Context(), actor(c), id)
	recordMutation(domain.ActionVehicleDeleted, err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return h.pages.Redirect(c, "/inv/delete/"+formatID(id), "Delete failed. Please try again.")
	case isDenied(err):
		return h.pages.deny(c, err)
	case err != nil:
		return err
	}
	return h.pages.Redirect(c, managementPath, "Inventory item deleted successfully.")
}

// loadVehicle resolves the vehicle behind a management page. When done is
// true the response has been decided and err is what the handler returns.
func (h *InventoryHandler) loadVehicle(c echo.Context, raw string) (v *domain.Vehicle, done bool, err error) {
	id, ok := parseID(raw)
	if !ok {
		return nil, true, h.pages.Redirect(c, managementPath, msgInvalidVehicle)
	}

	v, err = h.inventory.GetVehicle(c.Request().Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, true, h.pages.Redirect(c, managementPath, msgVehicleNotFound)
	}
	if err != nil {
		return nil, true, err
	}
	return v, false, nil
}

func recordMutation(action domain.InventoryAction, err error) {
	result := "applied"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		result = "not_found"
	case isDenied(err):
		result = "forbidden"
	default:
		var ve *domain.ValidationError
		if errors.As(err, &ve) || errors.Is(err, domain.ErrDuplicateClassification) {
			result = "rejected"
		} else {
			result = "error"
		}
	}
	metrics.InventoryMutationsTotal.WithLabelValues(string(action), result).Inc()
}
