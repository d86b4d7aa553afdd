package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/smartpos/internal/domain"
	"github.com/talkincode/smartpos/internal/webserver"
	"github.com/talkincode/smartpos/pkg/common"
)

type menuItemPayload struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Price    int64  `json:"price" validate:"required,gt=0"`
	Category string `json:"category" validate:"required,min=1,max=64"`
	Image    string `json:"image" validate:"omitempty,max=1024"`
}

func registerMenuRoutes() {
	webserver.ApiGET("/menu/items", listMenuItems)
	webserver.ApiGET("/menu/items/:id", getMenuItem)
	webserver.ApiPOST("/menu/items", createMenuItem)
	webserver.ApiPUT("/menu/items/:id", updateMenuItem)
	webserver.ApiDELETE("/menu/items/:id", deleteMenuItem)
	webserver.ApiGET("/menu/categories", listCategories)
}

// listMenuItems serves the sell screen and the manage screen. The
// category filter treats the all-items sentinel the same as absence.
func listMenuItems(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.MenuItem{})

	category := strings.TrimSpace(c.QueryParam("category"))
	if category != "" && category != domain.CategoryAll {
		db = db.Where("category = ?", category)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query menu", err.Error())
	}

	var rows []domain.MenuItem
	if err := db.Order("created_at ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query menu", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getMenuItem(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid menu item ID", nil)
	}
	var item domain.MenuItem
	if err := GetDB(c).Where("id = ?", id).First(&item).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Menu item not found", nil)
	}
	return ok(c, item)
}

func createMenuItem(c echo.Context) error {
	var payload menuItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse menu item", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	now := time.Now()
	item := domain.MenuItem{
		ID:        common.UUIDint64(),
		Name:      payload.Name,
		Price:     payload.Price,
		Category:  payload.Category,
		Image:     strings.TrimSpace(payload.Image),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(c).Create(&item).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create menu item", err.Error())
	}
	return ok(c, item)
}

func updateMenuItem(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid menu item ID", nil)
	}
	var item domain.MenuItem
	if err := GetDB(c).Where("id = ?", id).First(&item).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Menu item not found", nil)
	}

	var payload menuItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse menu item", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	item.Name = payload.Name
	item.Price = payload.Price
	item.Category = payload.Category
	item.Image = strings.TrimSpace(payload.Image)
	item.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&item).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update menu item", err.Error())
	}
	return ok(c, item)
}

// deleteMenuItem removes a catalog entry. Past sales keep their own
// copies of name and price, so history is unaffected. Deleting an
// absent id succeeds.
func deleteMenuItem(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid menu item ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.MenuItem{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete menu item", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

func listCategories(c echo.Context) error {
	return ok(c, domain.Categories)
}
