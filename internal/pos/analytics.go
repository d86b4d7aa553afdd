package pos

import (
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/talkincode/smartpos/internal/domain"
	"github.com/talkincode/smartpos/pkg/common"
)

// chartWindow is how many of the most recent sales feed the
// revenue-by-day chart.
const chartWindow = 10

// DayRevenue is one bar of the revenue chart.
type DayRevenue struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
}

// ItemCount is one row of the top-items ranking.
type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// OrderStats summarizes order values across the whole ledger.
type OrderStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// RevenueByDay groups the most recent sales (newest-first input) by
// calendar date and sums totals per day. Output is chronological:
// oldest day of the window first.
func RevenueByDay(sales []domain.SaleRecord) []DayRevenue {
	window := sales
	if len(window) > chartWindow {
		window = window[:chartWindow]
	}

	totals := make(map[string]int64)
	var order []string
	for _, s := range window {
		key := common.FormatVNDate(s.Timestamp)
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] += s.TotalAmount
	}

	out := make([]DayRevenue, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		out = append(out, DayRevenue{Date: order[i], Total: totals[order[i]]})
	}
	return out
}

// TopItems counts quantity per item name across the entire ledger and
// returns the n best sellers. Ties keep first-encountered order.
func TopItems(sales []domain.SaleRecord, n int) []ItemCount {
	counts := make(map[string]int)
	var order []string
	for _, s := range sales {
		for _, it := range s.Items {
			if _, seen := counts[it.Name]; !seen {
				order = append(order, it.Name)
			}
			counts[it.Name] += it.Quantity
		}
	}

	ranked := make([]ItemCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, ItemCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TotalRevenue sums totalAmount over the entire ledger.
func TotalRevenue(sales []domain.SaleRecord) int64 {
	var sum int64
	for _, s := range sales {
		sum += s.TotalAmount
	}
	return sum
}

// OrderValueStats computes mean/median/max order value. Empty ledgers
// yield zeroes rather than errors.
func OrderValueStats(sales []domain.SaleRecord) OrderStats {
	if len(sales) == 0 {
		return OrderStats{}
	}
	values := make([]float64, 0, len(sales))
	for _, s := range sales {
		values = append(values, float64(s.TotalAmount))
	}
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	max, _ := stats.Max(values)
	return OrderStats{Mean: mean, Median: median, Max: max}
}
