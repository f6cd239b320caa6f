// Package scoring computes subtotal, penalty total, and final score
// from one judge's raw inputs.
package scoring

// Point weights from the competition rulebook.
const (
	tyrePoppedPoints   = 5
	minorPenaltyPoints = 5
	majorPenaltyPoints = 10
)

// Input is the raw category and penalty set for one run. Values are
// trusted as-is: range checks belong to the boundary that built the
// Input, not to the calculator.
type Input struct {
	TipIn         float64 // 0-10, optional, zero when the event skips tip-in
	InstantSmoke  float64 // 0-10
	ConstantSmoke float64 // 0-20
	VolumeOfSmoke float64 // 0-20
	DrivingSkill  float64 // 0-40

	TyresPopped int // 0-2, scores toward the subtotal

	PenaltyReversing      int
	PenaltyStopping       int
	PenaltyContactBarrier int
	PenaltySmallFire      int
	PenaltyFailedDriveOff int // one-time, stored magnitude kept as multiplier
	PenaltyLargeFire      int // one-time, stored magnitude kept as multiplier

	Disqualified bool
}

// Breakdown is the derived triple stored on a score record.
type Breakdown struct {
	Subtotal     float64 `json:"score_subtotal"`
	PenaltyTotal float64 `json:"penalty_total"`
	FinalScore   float64 `json:"final_score"`
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithNegativeFloor clamps non-disqualified final scores at zero. Off by
// default: heavily penalized runs legitimately rank below zero.
func WithNegativeFloor() Option {
	return func(c *Calculator) {
		c.floorAtZero = true
	}
}

// Calculator derives score breakdowns. It is pure and safe for
// concurrent use.
type Calculator struct {
	floorAtZero bool
}

// NewCalculator creates a calculator with the given options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute derives the breakdown for one input set. Fractional precision
// is preserved; nothing is rounded. Disqualification forces the final
// score to zero regardless of every other field.
func (c *Calculator) Compute(in Input) Breakdown {
	subtotal := in.TipIn +
		in.InstantSmoke +
		in.ConstantSmoke +
		in.VolumeOfSmoke +
		in.DrivingSkill +
		float64(in.TyresPopped*tyrePoppedPoints)

	penalty := float64(minorPenaltyPoints*(in.PenaltyReversing+
		in.PenaltyStopping+
		in.PenaltyContactBarrier+
		in.PenaltySmallFire) +
		majorPenaltyPoints*(in.PenaltyFailedDriveOff+in.PenaltyLargeFire))

	final := subtotal - penalty
	if c.floorAtZero && final < 0 {
		final = 0
	}
	if in.Disqualified {
		final = 0
	}

	return Breakdown{
		Subtotal:     subtotal,
		PenaltyTotal: penalty,
		FinalScore:   final,
	}
}
