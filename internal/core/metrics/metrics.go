package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LedgerEntries counts committed ledger postings by source and direction.
var LedgerEntries = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "leaguepay_ledger_entries_total",
		Help: "Number of committed ledger entries.",
	},
	[]string{"source_type", "type"},
)

// WithdrawalResolutions counts withdrawal state transitions by outcome.
var WithdrawalResolutions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "leaguepay_withdrawal_resolutions_total",
		Help: "Number of withdrawal request resolutions.",
	},
	[]string{"status"},
)
