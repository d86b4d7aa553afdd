package common

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var vnPrinter = message.NewPrinter(language.Vietnamese)

// FormatVND renders a whole-VND amount with Vietnamese digit grouping,
// e.g. 20000 -> "20.000 ₫".
func FormatVND(amount int64) string {
	return vnPrinter.Sprintf("%d ₫", amount)
}

// FormatVNDateTime renders an instant the way vi-VN locales do,
// e.g. "15:04:05 2/1/2006".
func FormatVNDateTime(t time.Time) string {
	return t.Format("15:04:05 2/1/2006")
}

// FormatVNDate renders the calendar-date key used for grouping,
// e.g. "2/1/2006".
func FormatVNDate(t time.Time) string {
	return t.Format("2/1/2006")
}
