package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// Policy names how malformed raw values are treated at the boundary
// between user input and Input construction.
type Policy string

const (
	// Strict rejects unparsable values with an error.
	Strict Policy = "strict"
	// CoerceToZero substitutes zero for unparsable values, matching the
	// lenient behavior of legacy score sheets.
	CoerceToZero Policy = "coerce-to-zero"
)

// ParsePolicy validates a policy name from configuration.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case Strict, "":
		return Strict, nil
	case CoerceToZero:
		return CoerceToZero, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Parse converts one raw field to a number under the policy. An empty
// value is zero under either policy: absent fields default, they do not
// fail.
func (p Policy) Parse(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if p == CoerceToZero {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %q", ErrMalformedValue, raw)
	}
	return v, nil
}
