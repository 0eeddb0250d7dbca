package reconcile

import (
	"context"
	"errors"

	"milkatm-backend/internal/entry"
	"milkatm-backend/internal/store"
)

type Status string

const (
	StatusImported Status = "imported"
	StatusSkipped  Status = "skipped" // identity already stored
	StatusFailed   Status = "failed"
)

// Result is the outcome of one backup record.
type Result struct {
	Index     int         `json:"index"`
	Status    Status      `json:"status"`
	Date      string      `json:"date,omitempty"`
	MachineID uint        `json:"machineId"`
	Shift     entry.Shift `json:"shift,omitempty"`
	Reason    string      `json:"reason,omitempty"`
}

type ImportReport struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Results  []Result `json:"results"`
}

func (r *ImportReport) add(res Result) {
	switch res.Status {
	case StatusImported:
		r.Imported++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
	r.Results = append(r.Results, res)
}

// Import inserts each record independently. A record whose identity is
// already stored is skipped; one that cannot be mapped, is inconsistent or
// fails to insert is reported failed. The batch always runs to the end
// unless ctx is cancelled, in which case the remaining records fail.
func (p *Policy) Import(ctx context.Context, records []map[string]any) ImportReport {
	report := ImportReport{Total: len(records), Results: make([]Result, 0, len(records))}
	for i, raw := range records {
		report.add(p.importOne(ctx, i, raw))
	}
	return report
}

func (p *Policy) importOne(ctx context.Context, index int, raw map[string]any) Result {
	res := Result{Index: index}
	if err := ctx.Err(); err != nil {
		res.Status = StatusFailed
		res.Reason = err.Error()
		return res
	}

	e, err := entry.FromRecord(raw)
	if err != nil {
		res.Status = StatusFailed
		res.Reason = err.Error()
		return res
	}
	res.Date = entry.FormatDate(e.Date)
	res.MachineID = e.MachineID
	res.Shift = e.Shift

	if err := entry.CheckConsistency(e); err != nil {
		res.Status = StatusFailed
		res.Reason = err.Error()
		return res
	}

	row := entry.ToModel(e)
	err = p.store.Insert(ctx, &row)
	switch {
	case err == nil:
		res.Status = StatusImported
	case errors.Is(err, store.ErrConflict):
		res.Status = StatusSkipped
		res.Reason = "an entry for this date, machine and shift already exists"
	default:
		res.Status = StatusFailed
		res.Reason = err.Error()
	}
	return res
}
