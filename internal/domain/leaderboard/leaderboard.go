// Package leaderboard aggregates stored score records into ranked
// standings. It is pure: callers pre-select the record set (one round,
// or every minor round for the cumulative standing) and join display
// metadata afterwards.
package leaderboard

import "sort"

// Record is the slice of a score record the aggregator needs.
type Record struct {
	CompetitorID string
	RoundID      string
	ClassID      string
	FinalScore   float64
}

// Entry is one competitor's aggregated standing. RoundsCompeted counts
// distinct rounds contributing at least one record; in single-round
// input it is always 1.
type Entry struct {
	CompetitorID   string
	AverageScore   float64
	TotalScore     float64
	ScoreCount     int
	RoundsCompeted int
}

// Rank groups records by competitor, aggregates, and sorts by the
// selected metric descending. Competitors without records never appear:
// there is no zero-score entry. Ties order by competitor id ascending
// so output is reproducible. The input slice is never mutated.
func Rank(records []Record, opts ...Option) []Entry {
	var cfg config
	cfg.metric = ByAverage
	for _, opt := range opts {
		opt(&cfg)
	}

	type bucket struct {
		total  float64
		count  int
		rounds map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for _, r := range records {
		if cfg.classID != "" && r.ClassID != cfg.classID {
			continue
		}
		b, ok := buckets[r.CompetitorID]
		if !ok {
			b = &bucket{rounds: make(map[string]struct{})}
			buckets[r.CompetitorID] = b
			order = append(order, r.CompetitorID)
		}
		b.total += r.FinalScore
		b.count++
		b.rounds[r.RoundID] = struct{}{}
	}

	entries := make([]Entry, 0, len(order))
	for _, id := range order {
		b := buckets[id]
		entries = append(entries, Entry{
			CompetitorID:   id,
			AverageScore:   b.total / float64(b.count),
			TotalScore:     b.total,
			ScoreCount:     b.count,
			RoundsCompeted: len(b.rounds),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := metricOf(entries[i], cfg.metric), metricOf(entries[j], cfg.metric)
		if a != b {
			return a > b
		}
		return entries[i].CompetitorID < entries[j].CompetitorID
	})
	return entries
}

func metricOf(e Entry, m Metric) float64 {
	if m == ByTotal {
		return e.TotalScore
	}
	return e.AverageScore
}
