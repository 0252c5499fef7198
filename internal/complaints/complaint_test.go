package complaints

import (
	"errors"
	"testing"
)

func TestTicketCode(t *testing.T) {
	tests := []struct {
		year int
		seq  int
		want string
	}{
		{2026, 1, "CMP-2026-001"},
		{2026, 42, "CMP-2026-042"},
		{2026, 999, "CMP-2026-999"},
		{2026, 1000, "CMP-2026-1000"},
		{2027, 1, "CMP-2027-001"},
	}

	for _, tc := range tests {
		if got := TicketCode(tc.year, tc.seq); got != tc.want {
			t.Errorf("TicketCode(%d, %d): got %q, expected %q", tc.year, tc.seq, got, tc.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, category := range Categories {
		got, err := ParseCategory(string(category))
		if err != nil {
			t.Errorf("valid category %s rejected: %v", category, err)
		}
		if got != category {
			t.Errorf("got %s, expected %s", got, category)
		}
	}

	if _, err := ParseCategory("Parking"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
	if _, err := ParseCategory("infrastructure"); !errors.Is(err, ErrUnknownVariant) {
		t.Error("category matching must be case-sensitive")
	}
}

func TestParsePriority(t *testing.T) {
	for _, s := range []string{"Low", "Medium", "High"} {
		if _, err := ParsePriority(s); err != nil {
			t.Errorf("valid priority %s rejected: %v", s, err)
		}
	}
	if _, err := ParsePriority("Urgent"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"Pending", "In Progress", "Resolved", "Withdrawn"} {
		if _, err := ParseStatus(s); err != nil {
			t.Errorf("valid status %s rejected: %v", s, err)
		}
	}
	if _, err := ParseStatus("Closed"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}
