package signal

import (
	"math"
	"sort"
)

// SortAlerts orders alerts by (severity desc, |magnitude| desc, symbol asc).
// Source and message break any remaining ties so the order is total: sorting
// the same set twice always yields the same sequence.
func SortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		am, bm := math.Abs(a.Magnitude), math.Abs(b.Magnitude)
		if am != bm {
			return am > bm
		}
		if a.Symbol != b.Symbol {
			return a.Symbol < b.Symbol
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Message < b.Message
	})
}

// CapAlerts returns at most n alerts from an already-sorted slice. The full
// set is retained by the caller; the cap is presentation-only.
func CapAlerts(alerts []Alert, n int) []Alert {
	if n < 0 || len(alerts) <= n {
		return alerts
	}
	return alerts[:n]
}

// CollateAlerts merges the alerts of all supplied signals into one
// deterministically ordered slice.
func CollateAlerts(signals ...Signal) []Alert {
	var all []Alert
	for _, s := range signals {
		all = append(all, s.Alerts...)
	}
	SortAlerts(all)
	return all
}
