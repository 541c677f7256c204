package secondary

import "time"

// MetricsRecorder receives engine diagnostics.
type MetricsRecorder interface {
	// AttributionGap counts a competitor-targeted penalty that could not be attributed.
	AttributionGap(reason string)

	// Aggregation records one run of a derived view ("standings", "penalties").
	Aggregation(view string, duration time.Duration, err error)

	// PenaltyWrite records one penalty write operation.
	PenaltyWrite(operation string, err error)

	// StoreError counts a failed store call by kind ("unavailable", "query", "conflict").
	StoreError(kind string)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) AttributionGap(string)                    {}
func (NopMetrics) Aggregation(string, time.Duration, error) {}
func (NopMetrics) PenaltyWrite(string, error)               {}
func (NopMetrics) StoreError(string)                        {}

var _ MetricsRecorder = NopMetrics{}
