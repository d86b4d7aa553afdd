package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/smartpos/internal/domain"
	"github.com/talkincode/smartpos/internal/webserver"
)

type cartAddPayload struct {
	ItemID int64 `json:"item_id,string" validate:"required"`
}

type cartQuantityPayload struct {
	ItemID int64 `json:"item_id,string" validate:"required"`
	Delta  int   `json:"delta" validate:"required"`
}

func registerCartRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiPOST("/cart/items", addCartItem)
	webserver.ApiPUT("/cart/quantity", adjustCartQuantity)
}

// cartView snapshots the terminal's cart. The terminal query param
// selects the cart; absence means the default register.
func cartView(c echo.Context) map[string]interface{} {
	cart := GetAppContext(c).Carts().Get(c.QueryParam("terminal"))
	return map[string]interface{}{
		"lines": cart.Lines(),
		"total": cart.Total(),
	}
}

func getCart(c echo.Context) error {
	return ok(c, cartView(c))
}

// addCartItem puts one unit of a catalog item into the cart, reading
// name and price from the catalog at add time.
func addCartItem(c echo.Context) error {
	var payload cartAddPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var item domain.MenuItem
	if err := GetDB(c).Where("id = ?", payload.ItemID).First(&item).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Menu item not found", nil)
	}

	cart := GetAppContext(c).Carts().Get(c.QueryParam("terminal"))
	cart.Add(item)
	return ok(c, cartView(c))
}

// adjustCartQuantity applies a delta to a line quantity. Quantities
// floor at one; there is no removal path.
func adjustCartQuantity(c echo.Context) error {
	var payload cartQuantityPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quantity change", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	cart := GetAppContext(c).Carts().Get(c.QueryParam("terminal"))
	if !cart.AdjustQuantity(payload.ItemID, payload.Delta) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Item is not in the cart", nil)
	}
	return ok(c, cartView(c))
}
