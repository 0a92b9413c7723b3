package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the reminder cycle, exposed on /metrics.
var (
	Cycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_cycles_total",
		Help: "Reminder cycles evaluated.",
	})
	Sent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_sent_total",
		Help: "Notifications accepted by the push channel.",
	})
	Skipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_skipped_total",
		Help: "Schedules outside every reminder window.",
	})
	SendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_send_failures_total",
		Help: "Pushes rejected by the channel or failed in transport.",
	})
	DataSourceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_datasource_failures_total",
		Help: "Data source fetches that failed and produced an empty cycle.",
	})
)
