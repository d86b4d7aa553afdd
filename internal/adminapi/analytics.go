package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/smartpos/internal/pos"
	"github.com/talkincode/smartpos/internal/webserver"
	"github.com/talkincode/smartpos/pkg/common"
	"github.com/talkincode/smartpos/pkg/metrics"
)

func registerAnalyticsRoutes() {
	webserver.ApiGET("/analytics/dashboard", getDashboard)
	webserver.ApiPOST("/analytics/insight", getInsight)
	webserver.ApiGET("/system/metrics", getSystemMetrics)
}

// getDashboard aggregates the whole ledger into the report view: grand
// totals, the recent revenue chart and the best sellers.
func getDashboard(c echo.Context) error {
	sales, err := GetAppContext(c).Ledger().All()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load sales", err.Error())
	}

	revenue := pos.TotalRevenue(sales)
	return ok(c, map[string]interface{}{
		"order_count":     len(sales),
		"total_revenue":   revenue,
		"revenue_display": common.FormatVND(revenue),
		"revenue_by_day":  pos.RevenueByDay(sales),
		"top_items":       pos.TopItems(sales, 5),
		"order_stats":     pos.OrderValueStats(sales),
	})
}

// getInsight asks the AI adapter for a narrative read of the ledger.
// The adapter never fails; degraded modes come back as fixed notices
// with a 200 status.
func getInsight(c echo.Context) error {
	appCtx := GetAppContext(c)
	sales, err := appCtx.Ledger().All()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load sales", err.Error())
	}
	text := appCtx.InsightService().Summarize(sales)
	return ok(c, map[string]string{"insight": text})
}

// getSystemMetrics serves the host gauges collected by the monitor job.
func getSystemMetrics(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		name = "system_cpuuse"
	}
	hours := 24
	if h, err := strconv.Atoi(c.QueryParam("hours")); err == nil && h > 0 && h <= 24*7 {
		hours = h
	}

	end := time.Now().Unix()
	start := end - int64(hours)*3600
	points, err := metrics.Range(name, start, end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read metrics", err.Error())
	}
	return ok(c, points)
}
