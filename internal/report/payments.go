package report

import (
	"time"

	"milkatm-backend/internal/aggregate"
	"milkatm-backend/internal/entry"
)

type PaymentDay struct {
	Date    string                 `json:"date"`
	Methods aggregate.MethodTotals `json:"methods"`
}

type PaymentMethodReport struct {
	From    string                 `json:"from"`
	To      string                 `json:"to"`
	Methods aggregate.MethodTotals `json:"methods"`
	Days    []PaymentDay           `json:"days"`
}

// BuildPaymentMethods totals each method over the range with its share of
// revenue, and lists the same split per day.
func BuildPaymentMethods(entries []entry.Entry, from, to time.Time) PaymentMethodReport {
	r := PaymentMethodReport{
		From:    entry.FormatDate(from),
		To:      entry.FormatDate(to),
		Methods: aggregate.TotalsByMethod(entries),
		Days:    []PaymentDay{},
	}
	for _, d := range aggregate.GroupByDay(entries) {
		r.Days = append(r.Days, PaymentDay{Date: entry.FormatDate(d.Date), Methods: d.Methods()})
	}
	return r
}
