// Package format renders amounts, volumes and dates for workbooks and
// report text in the en-IN locale.
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DateLayout      = "02 Jan 2006"
	MonthYearLayout = "January 2006"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Currency renders whole rupees with Indian digit grouping.
func Currency(amount float64) string {
	if amount < 0 {
		return "-₹" + printer.Sprint(number.Decimal(-amount, number.MaxFractionDigits(0)))
	}
	return "₹" + printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(0)))
}

// Number renders v with grouping and up to two decimals.
func Number(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Liters renders one decimal place and the unit.
func Liters(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MinFractionDigits(1), number.MaxFractionDigits(1))) + " L"
}

func Percentage(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func MonthYear(t time.Time) string {
	return t.Format(MonthYearLayout)
}

func MonthName(month time.Month) string {
	if month < time.January || month > time.December {
		return ""
	}
	return month.String()
}
