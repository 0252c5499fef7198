package query

import (
	"strings"
	"testing"
)

func testColumns() *ColumnMap {
	return NewColumnMap("complaints", "c").
		Map("id", "id").
		Map("title", "title").
		Map("status", "status").
		Map("created_at", "created_at")
}

func TestBuilderBuildCount(t *testing.T) {
	b := NewBuilder(testColumns())
	b.WhereEquals("status", "Pending")

	sql, args := b.BuildCount()

	if sql != "SELECT COUNT(*) FROM complaints c WHERE c.status = $1" {
		t.Errorf("unexpected sql: %s", sql)
	}
	if len(args) != 1 || args[0] != "Pending" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuilderParamNumbering(t *testing.T) {
	search := "leak"
	b := NewBuilder(testColumns())
	b.WhereEquals("status", "Pending")
	b.WhereSearch(&search, "title")
	b.WhereEquals("id", 7)

	sql, args := b.BuildCount()

	for _, param := range []string{"$1", "$2", "$3"} {
		if !strings.Contains(sql, param) {
			t.Errorf("sql missing %s: %s", param, sql)
		}
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	if args[1] != "%leak%" {
		t.Errorf("search arg not wrapped: %v", args[1])
	}
}

func TestBuilderBuildPage(t *testing.T) {
	b := NewBuilder(testColumns(), SortField{Field: "created_at", Descending: true})

	sql, args := b.BuildPage(2, 10)

	if !strings.Contains(sql, "ORDER BY c.created_at DESC") {
		t.Errorf("missing default sort: %s", sql)
	}
	if !strings.Contains(sql, "LIMIT 10 OFFSET 10") {
		t.Errorf("wrong limit/offset: %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuilderOrderByOverride(t *testing.T) {
	b := NewBuilder(testColumns(), SortField{Field: "created_at", Descending: true})
	b.OrderBy([]SortField{{Field: "title"}})

	sql, _ := b.BuildPage(1, 5)

	if !strings.Contains(sql, "ORDER BY c.title ASC") {
		t.Errorf("override not applied: %s", sql)
	}
}

func TestBuilderNilConditionsSkipped(t *testing.T) {
	b := NewBuilder(testColumns())
	b.WhereEquals("status", nil)
	b.WhereContains("title", nil)

	sql, args := b.BuildCount()

	if strings.Contains(sql, "WHERE") {
		t.Errorf("expected no conditions: %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuilderOrderByDropsUnmappedFields(t *testing.T) {
	b := NewBuilder(testColumns(), SortField{Field: "created_at", Descending: true})
	b.OrderBy([]SortField{
		{Field: "(SELECT email FROM profiles LIMIT 1)"},
		{Field: "title; DROP TABLE complaints", Descending: true},
	})

	sql, _ := b.BuildPage(1, 5)

	for _, fragment := range []string{"SELECT email", "DROP TABLE", "profiles"} {
		if strings.Contains(sql, fragment) {
			t.Errorf("raw sort input reached sql: %s", sql)
		}
	}
	if !strings.Contains(sql, "ORDER BY c.created_at DESC") {
		t.Errorf("expected fallback to default sort: %s", sql)
	}
}

func TestBuilderOrderByKeepsMappedFields(t *testing.T) {
	b := NewBuilder(testColumns(), SortField{Field: "created_at", Descending: true})
	b.OrderBy([]SortField{
		{Field: "status"},
		{Field: "1; SELECT pg_sleep(10)"},
	})

	sql, _ := b.BuildPage(1, 5)

	if !strings.Contains(sql, "ORDER BY c.status ASC") {
		t.Errorf("mapped sort field dropped: %s", sql)
	}
	if strings.Contains(sql, "pg_sleep") {
		t.Errorf("raw sort input reached sql: %s", sql)
	}
}

func TestBuilderWhereUnmappedFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unmapped predicate field")
		}
	}()

	NewBuilder(testColumns()).WhereEquals("email", "x")
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		input string
		want  []SortField
	}{
		{"", nil},
		{"title", []SortField{{Field: "title"}}},
		{"-created_at", []SortField{{Field: "created_at", Descending: true}}},
		{"status,-created_at", []SortField{
			{Field: "status"},
			{Field: "created_at", Descending: true},
		}},
		{" title , ", []SortField{{Field: "title"}}},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := ParseSortFields(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, expected %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("field %d: got %v, expected %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}
