package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reminder pipeline metrics
var (
	RemindersSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminders_sent_total",
			Help: "Reminder notifications delivered, by mode.",
		},
		[]string{"mode"},
	)

	SendFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminder_send_failures_total",
		Help: "Outbound reminder deliveries that failed.",
	})

	// Fail-open path: a stored sent_at that could not be parsed still allows
	// the send, but must be visible so systematic corruption is caught
	// before it turns into a notification storm.
	TimestampParseFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminder_timestamp_parse_failures_total",
		Help: "Stored reminder timestamps that failed to parse (send allowed).",
	})

	SweepRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_sweep_runs_total",
			Help: "Completed reminder sweeps, by kind.",
		},
		[]string{"kind"},
	)

	SweepsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminder_sweeps_skipped_total",
		Help: "Sweep triggers skipped because a sweep was still running.",
	})
)

// Init registers the reminder metrics with the default registry
func Init() {
	prometheus.MustRegister(RemindersSent, SendFailures, TimestampParseFailures, SweepRuns, SweepsSkipped)
}

// Handler exposes the default registry for the /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
