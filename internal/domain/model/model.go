// Package model contains the domain entities passed between layers.
package model

import "time"

// Judge is a scoring actor. Identity arrives pre-authenticated from the
// upstream gateway; this service never verifies credentials.
type Judge struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CompetitionClass groups competitors, e.g. "Pro" or "Street".
type CompetitionClass struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Competitor is an entrant in the competition.
type Competitor struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CarNumber   string    `json:"car_number"`
	VehicleInfo string    `json:"vehicle_info"`
	Plate       string    `json:"plate"`
	ClassID     string    `json:"class_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// CompetitorWithClass is a competitor joined with its class name for display.
type CompetitorWithClass struct {
	Competitor
	ClassName string `json:"class_name"`
}

// Round statuses.
const (
	RoundActive    = "active"
	RoundCompleted = "completed"
)

// Round is a timed competition heat. Minor rounds feed the cumulative
// pre-finals standing.
type Round struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	IsMinor   bool      `json:"is_minor"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoreCard holds one judge's raw inputs for one competitor run.
// Category values carry 0.5-step granularity; penalty fields are counts.
type ScoreCard struct {
	TipIn                 float64 `json:"tip_in"`
	InstantSmoke          float64 `json:"instant_smoke"`
	ConstantSmoke         float64 `json:"constant_smoke"`
	VolumeOfSmoke         float64 `json:"volume_of_smoke"`
	DrivingSkill          float64 `json:"driving_skill"`
	TyresPopped           int     `json:"tyres_popped"`
	PenaltyReversing      int     `json:"penalty_reversing"`
	PenaltyStopping       int     `json:"penalty_stopping"`
	PenaltyContactBarrier int     `json:"penalty_contact_barrier"`
	PenaltySmallFire      int     `json:"penalty_small_fire"`
	PenaltyFailedDriveOff int     `json:"penalty_failed_drive_off"`
	PenaltyLargeFire      int     `json:"penalty_large_fire"`
	PenaltyDisqualified   bool    `json:"penalty_disqualified"`
}

// Submission is a judge's score on its way through the pipeline.
type Submission struct {
	SubmissionID string    `json:"submission_id"`
	JudgeID      string    `json:"judge_id"`
	JudgeName    string    `json:"judge_name"`
	CompetitorID string    `json:"competitor_id"`
	RoundID      string    `json:"round_id"`
	Card         ScoreCard `json:"card"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// ScoreRecord is the persisted unit the leaderboard aggregates.
// Subtotal, penalty total, and final score are derived from Card by the
// calculator at submit/edit time and are re-derivable from it.
type ScoreRecord struct {
	ID           string `json:"id"`
	JudgeID      string `json:"judge_id"`
	JudgeName    string `json:"judge_name"`
	CompetitorID string `json:"competitor_id"`
	RoundID      string `json:"round_id"`

	Card ScoreCard `json:"card"`

	ScoreSubtotal float64 `json:"score_subtotal"`
	PenaltyTotal  float64 `json:"penalty_total"`
	FinalScore    float64 `json:"final_score"`

	SubmittedAt time.Time  `json:"submitted_at"`
	EditedAt    *time.Time `json:"edited_at,omitempty"`

	EmailSent             bool `json:"email_sent"`
	DeviationAcknowledged bool `json:"deviation_acknowledged"`
}

// ScorePatch is a partial edit of a score record's raw inputs. Nil
// fields are left untouched; totals are always recomputed from the
// full resulting card, never applied as deltas.
type ScorePatch struct {
	TipIn                 *float64 `json:"tip_in,omitempty"`
	InstantSmoke          *float64 `json:"instant_smoke,omitempty"`
	ConstantSmoke         *float64 `json:"constant_smoke,omitempty"`
	VolumeOfSmoke         *float64 `json:"volume_of_smoke,omitempty"`
	DrivingSkill          *float64 `json:"driving_skill,omitempty"`
	TyresPopped           *int     `json:"tyres_popped,omitempty"`
	PenaltyReversing      *int     `json:"penalty_reversing,omitempty"`
	PenaltyStopping       *int     `json:"penalty_stopping,omitempty"`
	PenaltyContactBarrier *int     `json:"penalty_contact_barrier,omitempty"`
	PenaltySmallFire      *int     `json:"penalty_small_fire,omitempty"`
	PenaltyFailedDriveOff *int     `json:"penalty_failed_drive_off,omitempty"`
	PenaltyLargeFire      *int     `json:"penalty_large_fire,omitempty"`
	PenaltyDisqualified   *bool    `json:"penalty_disqualified,omitempty"`
}

// Apply overlays the patch onto a card and returns the result.
func (p ScorePatch) Apply(card ScoreCard) ScoreCard {
	if p.TipIn != nil {
		card.TipIn = *p.TipIn
	}
	if p.InstantSmoke != nil {
		card.InstantSmoke = *p.InstantSmoke
	}
	if p.ConstantSmoke != nil {
		card.ConstantSmoke = *p.ConstantSmoke
	}
	if p.VolumeOfSmoke != nil {
		card.VolumeOfSmoke = *p.VolumeOfSmoke
	}
	if p.DrivingSkill != nil {
		card.DrivingSkill = *p.DrivingSkill
	}
	if p.TyresPopped != nil {
		card.TyresPopped = *p.TyresPopped
	}
	if p.PenaltyReversing != nil {
		card.PenaltyReversing = *p.PenaltyReversing
	}
	if p.PenaltyStopping != nil {
		card.PenaltyStopping = *p.PenaltyStopping
	}
	if p.PenaltyContactBarrier != nil {
		card.PenaltyContactBarrier = *p.PenaltyContactBarrier
	}
	if p.PenaltySmallFire != nil {
		card.PenaltySmallFire = *p.PenaltySmallFire
	}
	if p.PenaltyFailedDriveOff != nil {
		card.PenaltyFailedDriveOff = *p.PenaltyFailedDriveOff
	}
	if p.PenaltyLargeFire != nil {
		card.PenaltyLargeFire = *p.PenaltyLargeFire
	}
	if p.PenaltyDisqualified != nil {
		card.PenaltyDisqualified = *p.PenaltyDisqualified
	}
	return card
}

// LeaderboardRow is an aggregated standing joined with competitor
// metadata for display. Derived per request, never persisted.
type LeaderboardRow struct {
	CompetitorID   string  `json:"competitor_id"`
	CompetitorName string  `json:"competitor_name"`
	CarNumber      string  `json:"car_number"`
	VehicleInfo    string  `json:"vehicle_info"`
	ClassID        string  `json:"class_id"`
	ClassName      string  `json:"class_name"`
	AverageScore   float64 `json:"average_score"`
	TotalScore     float64 `json:"total_score"`
	ScoreCount     int     `json:"score_count"`
	RoundsCompeted int     `json:"rounds_competed,omitempty"`
}
