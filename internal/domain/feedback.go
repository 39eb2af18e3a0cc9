package domain

// DefaultFeedbackRating is used when the operator does not pick a rating.
const DefaultFeedbackRating = 5

// Feedback is an operator's usefulness vote on a triage result.
type Feedback struct {
	TriagemID      string
	Useful         bool
	Comment        string
	Rating         int
	SolutionUsed   *string
	ResolutionTime *string
}

// FeedbackState is the per-result feedback sub-state.
type FeedbackState string

const (
	FeedbackNotSubmitted FeedbackState = "NOT_SUBMITTED"
	FeedbackSubmitted    FeedbackState = "SUBMITTED"
)
