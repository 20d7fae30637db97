package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/bigcommerce"

	"github.com/shopspring/decimal"
)

// Requester is the remote-call surface batch processors depend on, satisfied
// by *bigcommerce.Client and by test stubs.
type Requester interface {
	Request(ctx context.Context, method, endpoint string, body interface{}) (*bigcommerce.Result, error)
}

// BatchResult is the aggregate outcome of one bounded batch invocation.
// Callers poll and re-invoke until Remaining == 0.
type BatchResult struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
	Remaining int `json:"remaining"`
}

// PrepareResult reports one idempotent scan-and-seed pass.
type PrepareResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

// OneShotResult reports a one-shot mapping migration (categories, brands, ...).
type OneShotResult struct {
	Migrated int `json:"migrated"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// DependencyCheck is one entry of the order-migration readiness report.
type DependencyCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// PreparationError signals that a source entity cannot be transformed into a
// destination payload (missing required field, unmapped reference). Batch
// processors convert it into a per-row error status; it never aborts a batch.
type PreparationError struct {
	Field  string
	Reason string
}

func (e *PreparationError) Error() string {
	return fmt.Sprintf("preparation failed: %s: %s", e.Field, e.Reason)
}

func prepErrorf(field, format string, args ...interface{}) *PreparationError {
	return &PreparationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// requestFailureMessage flattens a Request outcome into one error string. A Go
// error means the request never went out and res is nil, so the error wins.
func requestFailureMessage(res *bigcommerce.Result, err error) string {
	if err != nil {
		return err.Error()
	}
	return res.Error
}

// parsePrice reads a source price string (prices travel as text in the source
// store) into a float for destination payloads. Empty or junk input is zero.
func parsePrice(s string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
