// Package classifier calls the external complaint-classification service.
// The service receives a complaint's title, description, and student-chosen
// category, and returns a suggested category, a priority with confidence
// score, and a draft response for the reviewing admin.
package classifier

import (
	"context"
	"fmt"
	"slices"
)

// Request is the wire payload sent to the classification service.
type Request struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Result is the validated classification outcome. Field values are the wire
// contract's closed sets; callers parse them into their own domain types.
type Result struct {
	SuggestedCategory string  `json:"suggestedCategory"`
	Priority          string  `json:"priority"`
	PriorityScore     float64 `json:"priorityScore"`
	SuggestedResponse string  `json:"suggestedResponse"`
}

// Closed value sets of the classification wire contract.
var (
	Categories = []string{
		"Infrastructure", "Faculty", "Curriculum",
		"Administration", "Facilities", "Other",
	}
	Priorities = []string{"Low", "Medium", "High"}
)

// System defines the classification contract consumed by the complaints
// domain. Implemented by Client and by mocks in tests.
type System interface {
	Classify(ctx context.Context, req Request) (*Result, error)
}

// validate enforces the contract: all four fields present, category and
// priority within the closed sets, score in [0,1]. A violation means the
// upstream service returned garbage and is treated as a service fault.
func (r *Result) validate() error {
	if !slices.Contains(Categories, r.SuggestedCategory) {
		return fmt.Errorf("%w: suggested category %q", ErrInvalidResult, r.SuggestedCategory)
	}
	if !slices.Contains(Priorities, r.Priority) {
		return fmt.Errorf("%w: priority %q", ErrInvalidResult, r.Priority)
	}
	if r.PriorityScore < 0 || r.PriorityScore > 1 {
		return fmt.Errorf("%w: priority score %v out of range", ErrInvalidResult, r.PriorityScore)
	}
	if r.SuggestedResponse == "" {
		return fmt.Errorf("%w: empty suggested response", ErrInvalidResult)
	}
	return nil
}
