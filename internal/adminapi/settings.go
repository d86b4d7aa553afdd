package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/smartpos/internal/domain"
	"github.com/talkincode/smartpos/internal/webserver"
)

func registerSettingsRoutes() {
	webserver.ApiGET("/settings", listSettings)
	webserver.ApiPOST("/settings", saveSettings)
	webserver.ApiPOST("/settings/sync/test", testSyncPush)
	webserver.ApiGET("/settings/sync/journal", getSyncJournal)
}

func listSettings(c echo.Context) error {
	var rows []domain.SysConfig
	if err := GetDB(c).Order("sort ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, rows)
}

// saveSettings accepts a flat map of "category.name" keys. Unknown keys
// are stored as-is so the settings screen can grow without migrations.
func saveSettings(c echo.Context) error {
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", err.Error())
	}
	if len(payload) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "No settings provided", nil)
	}
	if err := GetAppContext(c).SaveSettings(payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Failed to save settings", err.Error())
	}
	return ok(c, map[string]interface{}{"saved": len(payload)})
}

// testSyncPush fires a synthetic row at the configured webhook so the
// operator can verify wiring before real sales flow through it.
func testSyncPush(c echo.Context) error {
	syncSvc := GetAppContext(c).SyncService()
	if syncSvc == nil {
		return fail(c, http.StatusServiceUnavailable, "SYNC_UNAVAILABLE", "Sync adapter is not running", nil)
	}
	if !syncSvc.SubmitTest() {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "No sync endpoint configured", nil)
	}
	return ok(c, map[string]string{"status": "submitted"})
}

func getSyncJournal(c echo.Context) error {
	syncSvc := GetAppContext(c).SyncService()
	if syncSvc == nil {
		return fail(c, http.StatusServiceUnavailable, "SYNC_UNAVAILABLE", "Sync adapter is not running", nil)
	}
	entries, err := syncSvc.Recent(50)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to read sync journal", err.Error())
	}
	return ok(c, entries)
}
