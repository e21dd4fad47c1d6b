// Package series holds per-concept observation time series and turns them
// into current/previous snapshots.
package series

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/yamato-research/kessan-cli/internal/model"
)

// ErrNoObservations is returned when no concept carries any dated value.
var ErrNoObservations = eris.New("series: no dated observations")

// Series maps observation date to value for one concept.
type Series map[time.Time]float64

// Bundle maps concept key to its observation series.
type Bundle map[string]Series

// Set records a value, overwriting any earlier value at the same date.
func (b Bundle) Set(key string, date time.Time, value float64) {
	s, ok := b[key]
	if !ok {
		s = Series{}
		b[key] = s
	}
	s[date] = value
}

// Get returns the value for key at date.
func (b Bundle) Get(key string, date time.Time) (float64, bool) {
	v, ok := b[key][date]
	return v, ok
}

// Dates returns the sorted union of observation dates across all concepts.
func (b Bundle) Dates() []time.Time {
	seen := map[time.Time]bool{}
	for _, s := range b {
		for d := range s {
			seen[d] = true
		}
	}
	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// SnapshotAt builds a complete snapshot for the given keys at one date.
// Keys without an observation at that date are present with a nil value.
func (b Bundle) SnapshotAt(keys []string, date *time.Time) model.Snapshot {
	snap := make(model.Snapshot, len(keys))
	for _, k := range keys {
		snap[k] = nil
		if date == nil {
			continue
		}
		if v, ok := b.Get(k, *date); ok {
			snap.Set(k, v)
		}
	}
	return snap
}

// SelectPeriods picks the two most recent observation dates and builds the
// current and previous snapshots over the given keys. The previous date may
// be nil when only one date was observed; its snapshot is then all-nil.
func SelectPeriods(b Bundle, keys []string) (cur, prev model.Snapshot, curDate, prevDate *time.Time, err error) {
	dates := b.Dates()
	if len(dates) == 0 {
		return nil, nil, nil, nil, ErrNoObservations
	}

	latest := dates[len(dates)-1]
	curDate = &latest
	if len(dates) > 1 {
		older := dates[len(dates)-2]
		prevDate = &older
	}

	cur = b.SnapshotAt(keys, curDate)
	prev = b.SnapshotAt(keys, prevDate)
	return cur, prev, curDate, prevDate, nil
}
