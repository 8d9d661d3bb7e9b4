// Package metrics provides a prometheus hook that counts settlement traffic.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xraph/tally/book"
)

// Hook exports settlement counters to a prometheus registerer. Register it
// on the ledger with tally.WithHook.
type Hook struct {
	loansIssued        prometheus.Counter
	loansReceived      prometheus.Counter
	collectorsIssued   prometheus.Counter
	repaid             prometheus.Counter
	collected          prometheus.Counter
	unitsAborted       prometheus.Counter
	loanedMagnitude    prometheus.Counter
	collectedMagnitude prometheus.Counter
	snapshotDuration   prometheus.Histogram
	snapshotSheets     prometheus.Gauge
}

// New creates the hook, registering its collectors with reg.
func New(reg prometheus.Registerer) *Hook {
	factory := promauto.With(reg)

	return &Hook{
		loansIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "settlement",
			Name:      "loans_issued_total",
			Help:      "Total loan capabilities issued.",
		}),
		loansReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "settlement",
			Name:      "loans_received_total",
			Help:      "Total loans accepted onto debtor sheets.",
		}),
		collectorsIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "settlement",
			Name:      "collectors_issued_total",
			Help:      "Total collection demands issued.",
		}),
		repaid: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "settlement",
			Name:      "repayments_total",
			Help:      "Total repayments attached to collectors.",
		}),
		collected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "settlement",
			Name:      "collections_total",
			Help:      "Total completed collections.",
		}),
		unitsAborted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "settlement",
			Name:      "units_aborted_total",
			Help:      "Total units of work rolled back.",
		}),
		loanedMagnitude: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "settlement",
			Name:      "loaned_magnitude_total",
			Help:      "Sum of magnitudes recorded as claims.",
		}),
		collectedMagnitude: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "settlement",
			Name:      "collected_magnitude_total",
			Help:      "Sum of magnitudes recovered through collection.",
		}),
		snapshotDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tally",
			Subsystem: "snapshot",
			Name:      "flush_duration_ms",
			Help:      "Snapshot flush duration in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		snapshotSheets: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "tally",
			Subsystem: "snapshot",
			Name:      "flushed_sheets",
			Help:      "Number of sheets persisted by the last flush.",
		}),
	}
}

// Name implements hook.Hook.
func (h *Hook) Name() string { return "metrics" }

// OnLoanIssued implements hook.OnLoanIssued.
func (h *Hook) OnLoanIssued(_ context.Context, ev book.LoanIssued) error {
	h.loansIssued.Inc()
	h.loanedMagnitude.Add(float64(ev.Magnitude))
	return nil
}

// OnLoanReceived implements hook.OnLoanReceived.
func (h *Hook) OnLoanReceived(_ context.Context, _ book.LoanReceived) error {
	h.loansReceived.Inc()
	return nil
}

// OnCollectorIssued implements hook.OnCollectorIssued.
func (h *Hook) OnCollectorIssued(_ context.Context, _ book.CollectorIssued) error {
	h.collectorsIssued.Inc()
	return nil
}

// OnRepaid implements hook.OnRepaid.
func (h *Hook) OnRepaid(_ context.Context, _ book.Repaid) error {
	h.repaid.Inc()
	return nil
}

// OnCollected implements hook.OnCollected.
func (h *Hook) OnCollected(_ context.Context, ev book.Collected) error {
	h.collected.Inc()
	h.collectedMagnitude.Add(float64(ev.Magnitude))
	return nil
}

// OnUnitAborted implements hook.OnUnitAborted.
func (h *Hook) OnUnitAborted(_ context.Context, _ error) error {
	h.unitsAborted.Inc()
	return nil
}

// OnSnapshotFlushed implements hook.OnSnapshotFlushed.
func (h *Hook) OnSnapshotFlushed(_ context.Context, sheets int, elapsed time.Duration) error {
	h.snapshotSheets.Set(float64(sheets))
	h.snapshotDuration.Observe(float64(elapsed.Milliseconds()))
	return nil
}
