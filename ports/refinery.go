package ports

import (
	"context"

	"adept/domain/refine"
)

// RefineryPort generates refinement artifacts from a generative model.
//
// Both operations are single-attempt: implementations must not retry on
// their own, the workflow lets the user resubmit. Errors carry the
// internal/errors codes so callers can distinguish credential problems from
// transient failures from malformed model output.
type RefineryPort interface {
	// GenerateQuestions derives the clarifying-question set for a raw idea
	GenerateQuestions(ctx context.Context, rawIdea string) (*refine.QuestionSet, error)

	// GenerateSpecification synthesizes the final specification from the raw
	// idea and the collected answers. Empty answer categories are valid input.
	GenerateSpecification(ctx context.Context, rawIdea string, answers refine.AnswerSet) (*refine.Specification, error)
}
