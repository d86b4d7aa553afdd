// Package adminapi implements the register-facing REST surface:
// catalog, cart, checkout, history, analytics and settings.
package adminapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/talkincode/smartpos/internal/app"
	"github.com/talkincode/smartpos/internal/webserver"
	"gorm.io/gorm"
)

type apiResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type pagedResponse struct {
	Code     string      `json:"code"`
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, apiResponse{Code: "OK", Data: data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, apiResponse{Code: code, Message: message, Detail: detail})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, pagedResponse{
		Code:     "OK",
		Data:     rows,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// parsePagination reads page/pageSize query params with sane bounds.
func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// handleValidationError maps validator failures onto the common error
// shape, one entry per failed field.
func handleValidationError(c echo.Context, err error) error {
	if verrs, is := err.(validator.ValidationErrors); is {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Validation failed", fields)
	}
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Validation failed", err.Error())
}

// GetAppContext pulls the application context injected by the server
// middleware.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.ContextKeyApp).(app.AppContext)
}

func GetDB(c echo.Context) *gorm.DB {
	return GetAppContext(c).DB()
}

// InitRouter registers every admin API route group.
func InitRouter() {
	registerAuthRoutes()
	registerMenuRoutes()
	registerCartRoutes()
	registerSaleRoutes()
	registerAnalyticsRoutes()
	registerSettingsRoutes()
}
