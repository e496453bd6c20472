// Package metrics exposes process-wide counters for the import engine.
package metrics

import (
	"io"

	vm "github.com/VictoriaMetrics/metrics"
)

var (
	RowsProcessed  = vm.NewCounter(`workforce_rows_processed_total`)
	RowsSuccessful = vm.NewCounter(`workforce_rows_successful_total`)
	RowsSkipped    = vm.NewCounter(`workforce_rows_skipped_total`)
	RowsFailed     = vm.NewCounter(`workforce_rows_failed_total`)

	ImportsStarted   = vm.NewCounter(`workforce_imports_started_total`)
	ImportsCompleted = vm.NewCounter(`workforce_imports_completed_total`)
	ImportsFailed    = vm.NewCounter(`workforce_imports_failed_total`)

	RecordsPersisted = vm.NewCounter(`workforce_records_persisted_total`)
)

// WritePrometheus dumps all counters in Prometheus text format.
func WritePrometheus(w io.Writer) {
	vm.WritePrometheus(w, false)
}
