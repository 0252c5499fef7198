// Package complaints implements the complaint domain: student submission
// with synchronous AI classification, scoped reads, student corrections
// while pending, and admin triage.
package complaints

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of complaint categories. Students pick one at
// submission; the classifier may suggest a different one.
type Category string

const (
	CategoryInfrastructure Category = "Infrastructure"
	CategoryFaculty        Category = "Faculty"
	CategoryCurriculum     Category = "Curriculum"
	CategoryAdministration Category = "Administration"
	CategoryFacilities     Category = "Facilities"
	CategoryOther          Category = "Other"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CategoryInfrastructure, CategoryFaculty, CategoryCurriculum,
	CategoryAdministration, CategoryFacilities, CategoryOther,
}

// ParseCategory converts a string into a Category, rejecting unknown values.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if Category(s) == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: category %q", ErrUnknownVariant, s)
}

// Priority is the classifier-assigned triage priority.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority converts a string into a Priority, rejecting unknown values.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", fmt.Errorf("%w: priority %q", ErrUnknownVariant, s)
}

// Status is the complaint workflow state. New complaints start Pending;
// students may only modify their complaints while Pending.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusWithdrawn  Status = "Withdrawn"
)

// ParseStatus converts a string into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusResolved, StatusWithdrawn:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: status %q", ErrUnknownVariant, s)
}

// Complaint is a student-filed complaint enriched with the classification
// outcome. The owner (StudentID) never changes after creation.
type Complaint struct {
	ID                uuid.UUID `json:"id"`
	TicketCode        string    `json:"ticket_code"`
	StudentID         uuid.UUID `json:"student_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Category          Category  `json:"category"`
	SuggestedCategory Category  `json:"suggested_category"`
	Priority          Priority  `json:"priority"`
	AIPriorityScore   float64   `json:"ai_priority_score"`
	Status            Status    `json:"status"`
	AdminResponse     *string   `json:"admin_response"`
	AIDraftResponse   *string   `json:"ai_draft_response"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SubmitCommand carries the student-provided fields of a new complaint.
type SubmitCommand struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// UpdateCommand carries the fields a student may correct while the
// complaint is still Pending.
type UpdateCommand struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ReviewCommand carries an admin triage decision. AdoptAIDraft pre-fills
// the response from the stored AI draft when no response text is supplied.
type ReviewCommand struct {
	Status        string  `json:"status"`
	AdminResponse *string `json:"admin_response"`
	AdoptAIDraft  bool    `json:"adopt_ai_draft"`
}

// Filters narrows complaint listings. Nil fields are ignored.
type Filters struct {
	Status    *Status
	Category  *Category
	Priority  *Priority
	StudentID *uuid.UUID
}

// TicketCode renders a ticket code for a year and sequence number, zero
// padded to three digits minimum.
func TicketCode(year, seq int) string {
	return fmt.Sprintf("CMP-%d-%03d", year, seq)
}
