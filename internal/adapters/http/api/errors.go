package api

import "errors"

var (
	// ErrMissingJudgeID marks a judge listing without the judge_id query
	// parameter.
	ErrMissingJudgeID = errors.New("missing judge_id")

	// ErrInvalidLimit marks a limit query parameter that is not a
	// positive integer.
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)
