package adminapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/smartpos/internal/domain"
	"github.com/talkincode/smartpos/internal/pos"
	"github.com/talkincode/smartpos/internal/sync"
	"github.com/talkincode/smartpos/internal/webserver"
)

type checkoutPayload struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=CASH TRANSFER"`
	CustomerName  string `json:"customer_name" validate:"omitempty,max=200"`
}

func registerSaleRoutes() {
	webserver.ApiPOST("/sales/checkout", checkout)
	webserver.ApiGET("/sales", listSales)
	webserver.ApiGET("/sales/export/csv", exportSalesCSV)
	webserver.ApiGET("/sales/export/xlsx", exportSalesXLSX)
}

// checkout converts the cart into a ledger entry. The response carries
// the committed sale; mirroring to the external sheet happens in the
// background and cannot affect the outcome.
func checkout(c echo.Context) error {
	var payload checkoutPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse checkout", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	appCtx := GetAppContext(c)
	cart := appCtx.Carts().Get(c.QueryParam("terminal"))

	sale, err := appCtx.Ledger().RecordSale(cart, payload.PaymentMethod, payload.CustomerName)
	switch {
	case errors.Is(err, pos.ErrEmptyCart):
		return fail(c, http.StatusBadRequest, "EMPTY_CART", "Cannot check out an empty cart", nil)
	case errors.Is(err, pos.ErrInvalidPayment):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown payment method", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to record sale", err.Error())
	}
	return ok(c, sale)
}

// parseDateRange reads the optional from/to filters. Formats are
// forgiving; the upper bound is exclusive and a bare date means the
// whole day.
func parseDateRange(c echo.Context) (from, to time.Time, err error) {
	if v := strings.TrimSpace(c.QueryParam("from")); v != "" {
		from, err = dateparse.ParseLocal(v)
		if err != nil {
			return from, to, errors.Wrap(err, "from")
		}
	}
	if v := strings.TrimSpace(c.QueryParam("to")); v != "" {
		to, err = dateparse.ParseLocal(v)
		if err != nil {
			return from, to, errors.Wrap(err, "to")
		}
		// bare dates cover the full day
		if to.Hour() == 0 && to.Minute() == 0 && to.Second() == 0 {
			to = to.Add(24 * time.Hour)
		}
	}
	return from, to, nil
}

func listSales(c echo.Context) error {
	page, pageSize := parsePagination(c)
	from, to, err := parseDateRange(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid date filter", err.Error())
	}

	sales, total, err := GetAppContext(c).Ledger().List(pageSize, (page-1)*pageSize, from, to)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}
	return paged(c, sales, total, page, pageSize)
}

// saleExportRow is the flattened sale shape shared by both export
// formats, one row per sale.
type saleExportRow struct {
	Ref           string `csv:"ref"`
	Timestamp     string `csv:"timestamp"`
	CustomerName  string `csv:"customer_name"`
	Items         string `csv:"items"`
	TotalAmount   int64  `csv:"total_amount"`
	PaymentMethod string `csv:"payment_method"`
}

func buildExportRows(sales []domain.SaleRecord) []saleExportRow {
	rows := make([]saleExportRow, 0, len(sales))
	for i := range sales {
		payload := sync.BuildPayload(&sales[i])
		rows = append(rows, saleExportRow{
			Ref:           sales[i].Ref,
			Timestamp:     payload.Timestamp,
			CustomerName:  payload.CustomerName,
			Items:         payload.Items,
			TotalAmount:   payload.TotalAmount,
			PaymentMethod: payload.PaymentMethod,
		})
	}
	return rows
}

func loadExportSales(c echo.Context) ([]domain.SaleRecord, error) {
	from, to, err := parseDateRange(c)
	if err != nil {
		return nil, err
	}
	sales, _, err := GetAppContext(c).Ledger().List(0, 0, from, to)
	return sales, err
}

func exportSalesCSV(c echo.Context) error {
	sales, err := loadExportSales(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Failed to load sales", err.Error())
	}
	rows := buildExportRows(sales)

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sales.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(&rows, c.Response())
}

func exportSalesXLSX(c echo.Context) error {
	sales, err := loadExportSales(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Failed to load sales", err.Error())
	}
	rows := buildExportRows(sales)

	xlsx := excelize.NewFile()
	sheet := "Sales"
	xlsx.SetSheetName("Sheet1", sheet)
	headers := []string{"Ref", "Thời gian", "Khách hàng", "Món", "Tổng tiền", "Thanh toán"}
	for i, h := range headers {
		cell := excelize.ToAlphaString(i) + "1"
		xlsx.SetCellValue(sheet, cell, h)
	}
	for r, row := range rows {
		values := []interface{}{row.Ref, row.Timestamp, row.CustomerName, row.Items, row.TotalAmount, row.PaymentMethod}
		for i, v := range values {
			cell := excelize.ToAlphaString(i) + strconv.Itoa(r+2)
			xlsx.SetCellValue(sheet, cell, v)
		}
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sales.xlsx"`)
	c.Response().WriteHeader(http.StatusOK)
	return xlsx.Write(c.Response())
}
