package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collection metrics
var (
	PagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailsweep_pages_fetched_total",
			Help: "Message list pages returned by the mail service",
		},
		[]string{"folder"},
	)

	MessagesListed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailsweep_messages_listed_total",
			Help: "Message identifiers kept from pages inside the requested window",
		},
		[]string{"folder"},
	)

	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailsweep_fetch_errors_total",
			Help: "Pagination runs aborted by a mail service error",
		},
		[]string{"folder"},
	)

	SendersExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailsweep_senders_extracted_total",
			Help: "Sender extraction attempts by result (ok, missing, error)",
		},
		[]string{"result"},
	)

	SenderUpserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailsweep_sender_upserts_total",
			Help: "Sender rows written to the local store",
		},
		[]string{"folder"},
	)
)

// Rule metrics
var (
	Filters = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailsweep_filters_total",
			Help: "Server-side filter creation attempts by result (created, failed, dry_run)",
		},
		[]string{"result"},
	)
)

// WriteTextfile dumps the default registry to path in the text exposition
// format read by node_exporter's textfile collector. Empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
