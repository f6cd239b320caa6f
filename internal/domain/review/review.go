// Package review inspects stored score records for judging anomalies:
// duplicate submissions and scores deviating from the judging panel's
// consensus. Findings are advisory; nothing here blocks a submission.
package review

import (
	"math"
	"sort"

	"github.com/tyresmoke/burnboard/internal/domain/model"
)

// Finding types.
const (
	TypeDuplicate = "duplicate_score"
	TypeDeviation = "score_deviation"
)

// DefaultDeviationThreshold is the panel-consensus tolerance in points.
const DefaultDeviationThreshold = 5.0

// Finding is one flagged anomaly for the admin review screen.
type Finding struct {
	ErrorType       string  `json:"error_type"`
	ScoreID         string  `json:"score_id"`
	CompetitorID    string  `json:"competitor_id"`
	RoundID         string  `json:"round_id"`
	JudgeID         string  `json:"judge_id"`
	JudgeName       string  `json:"judge_name"`
	DeviationAmount float64 `json:"deviation_amount,omitempty"`
	Detail          string  `json:"detail"`
}

// Detect runs every check over the record set and returns findings in a
// deterministic order: duplicates first, then deviations, each sorted
// by (round, competitor, score id). The input is never mutated.
func Detect(records []model.ScoreRecord, threshold float64) []Finding {
	findings := detectDuplicates(records)
	findings = append(findings, detectDeviations(records, threshold)...)
	return findings
}

// detectDuplicates flags every record beyond the first for the same
// (competitor, round, judge). Earliest submission wins; the workflow
// expects one score per judge per competitor per round but the store
// does not enforce it.
func detectDuplicates(records []model.ScoreRecord) []Finding {
	type key struct{ competitor, round, judge string }

	sorted := make([]model.ScoreRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].SubmittedAt.Equal(sorted[j].SubmittedAt) {
			return sorted[i].SubmittedAt.Before(sorted[j].SubmittedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	seen := make(map[key]bool)
	var findings []Finding
	for _, r := range sorted {
		k := key{r.CompetitorID, r.RoundID, r.JudgeID}
		if seen[k] {
			findings = append(findings, Finding{
				ErrorType:    TypeDuplicate,
				ScoreID:      r.ID,
				CompetitorID: r.CompetitorID,
				RoundID:      r.RoundID,
				JudgeID:      r.JudgeID,
				JudgeName:    r.JudgeName,
				Detail:       "judge already scored this competitor in this round",
			})
			continue
		}
		seen[k] = true
	}
	sortFindings(findings)
	return findings
}

// detectDeviations flags records whose final score is more than
// threshold points away from the mean of the other judges' scores for
// the same (competitor, round). Groups with a single judge have no
// consensus to deviate from. Acknowledged records are skipped.
func detectDeviations(records []model.ScoreRecord, threshold float64) []Finding {
	type key struct{ competitor, round string }
	groups := make(map[key][]model.ScoreRecord)
	for _, r := range records {
		k := key{r.CompetitorID, r.RoundID}
		groups[k] = append(groups[k], r)
	}

	var findings []Finding
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		var sum float64
		for _, r := range group {
			sum += r.FinalScore
		}
		for _, r := range group {
			if r.DeviationAcknowledged {
				continue
			}
			othersMean := (sum - r.FinalScore) / float64(len(group)-1)
			deviation := math.Abs(r.FinalScore - othersMean)
			if deviation <= threshold {
				continue
			}
			findings = append(findings, Finding{
				ErrorType:       TypeDeviation,
				ScoreID:         r.ID,
				CompetitorID:    r.CompetitorID,
				RoundID:         r.RoundID,
				JudgeID:         r.JudgeID,
				JudgeName:       r.JudgeName,
				DeviationAmount: deviation,
				Detail:          "final score deviates from the rest of the panel",
			})
		}
	}
	sortFindings(findings)
	return findings
}

func sortFindings(findings []Finding) {
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.RoundID != b.RoundID {
			return a.RoundID < b.RoundID
		}
		if a.CompetitorID != b.CompetitorID {
			return a.CompetitorID < b.CompetitorID
		}
		return a.ScoreID < b.ScoreID
	})
}
