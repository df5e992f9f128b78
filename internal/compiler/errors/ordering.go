package errors

import (
	"fmt"
	"strings"
)

// Ordering error codes (ORD400-499)
const (
	// ErrMissingStage indicates a stage requiring a stage that is not registered
	ErrMissingStage ErrorCode = "ORD401"
	// ErrStageCycle indicates stages whose requirements form a cycle
	ErrStageCycle ErrorCode = "ORD402"
	// ErrStageNotRun indicates a stage output read before the stage completed
	ErrStageNotRun ErrorCode = "ORD403"
	// ErrDuplicateStage indicates a stage registered twice
	ErrDuplicateStage ErrorCode = "ORD404"
)

// NewMissingStage creates an ORD401 error
func NewMissingStage(stage, required string) *CompilerError {
	return newError(
		ErrMissingStage,
		"missing_stage",
		CategoryOrdering,
		SeverityError,
		fmt.Sprintf("Stage '%s' requires stage '%s', which is not registered", stage, required),
		Location{},
	)
}

// NewStageCycle creates an ORD402 error
func NewStageCycle(stages []string) *CompilerError {
	return newError(
		ErrStageCycle,
		"stage_cycle",
		CategoryOrdering,
		SeverityError,
		fmt.Sprintf("Stage requirements form a cycle among: %s", strings.Join(stages, ", ")),
		Location{},
	)
}

// NewStageNotRun creates an ORD403 error
func NewStageNotRun(loc Location, stage string) *CompilerError {
	return newError(
		ErrStageNotRun,
		"stage_not_run",
		CategoryOrdering,
		SeverityError,
		fmt.Sprintf("Output of stage '%s' read before the stage ran", stage),
		loc,
	).WithSuggestion("Declare the stage in Requires() so the pipeline orders it first")
}

// NewDuplicateStage creates an ORD404 error
func NewDuplicateStage(stage string) *CompilerError {
	return newError(
		ErrDuplicateStage,
		"duplicate_stage",
		CategoryOrdering,
		SeverityError,
		fmt.Sprintf("Stage '%s' registered more than once", stage),
		Location{},
	)
}
