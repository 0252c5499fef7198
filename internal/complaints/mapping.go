package complaints

import (
	"github.com/campusdesk/campusdesk/pkg/query"
	"github.com/campusdesk/campusdesk/pkg/repository"
)

func columnMap() *query.ColumnMap {
	return query.NewColumnMap("complaints", "c").
		Map("id", "id").
		Map("ticket_code", "ticket_code").
		Map("student_id", "student_id").
		Map("title", "title").
		Map("description", "description").
		Map("category", "category").
		Map("suggested_category", "suggested_category").
		Map("priority", "priority").
		Map("ai_priority_score", "ai_priority_score").
		Map("status", "status").
		Map("admin_response", "admin_response").
		Map("ai_draft_response", "ai_draft_response").
		Map("created_at", "created_at").
		Map("updated_at", "updated_at")
}

func scanComplaint(s repository.Scanner) (Complaint, error) {
	var c Complaint
	err := s.Scan(
		&c.ID,
		&c.TicketCode,
		&c.StudentID,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.SuggestedCategory,
		&c.Priority,
		&c.AIPriorityScore,
		&c.Status,
		&c.AdminResponse,
		&c.AIDraftResponse,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func scanCount(s repository.Scanner) (int, error) {
	var count int
	err := s.Scan(&count)
	return count, err
}

func (f Filters) apply(b *query.Builder) *query.Builder {
	if f.Status != nil {
		b.WhereEquals("status", string(*f.Status))
	}
	if f.Category != nil {
		b.WhereEquals("category", string(*f.Category))
	}
	if f.Priority != nil {
		b.WhereEquals("priority", string(*f.Priority))
	}
	if f.StudentID != nil {
		b.WhereEquals("student_id", *f.StudentID)
	}
	return b
}
