package leaderboard

import "strings"

// Metric selects the ranking order.
type Metric string

const (
	// ByAverage ranks on average final score, the default display metric.
	ByAverage Metric = "average"
	// ByTotal ranks on summed final score.
	ByTotal Metric = "total"
)

// ParseMetric maps a query-string value onto a Metric, defaulting to
// ByAverage for empty or unknown values.
func ParseMetric(s string) Metric {
	if Metric(strings.ToLower(strings.TrimSpace(s))) == ByTotal {
		return ByTotal
	}
	return ByAverage
}

type config struct {
	classID string
	metric  Metric
}

// Option applies a configuration option to Rank.
type Option func(*config)

// WithClassFilter restricts aggregation to one competition class.
func WithClassFilter(classID string) Option {
	return func(c *config) {
		c.classID = classID
	}
}

// WithMetric selects the ranking metric.
func WithMetric(m Metric) Option {
	return func(c *config) {
		if m == ByAverage || m == ByTotal {
			c.metric = m
		}
	}
}
