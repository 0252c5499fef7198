package query

import (
	"fmt"
	"reflect"
	"strings"
)

type condition struct {
	clause string
	args   []any
}

// SortField represents a single column in an ORDER BY clause. Field is the
// logical field name resolved through the ColumnMap.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses a comma-separated sort string into a SortField
// slice. Fields prefixed with "-" are descending, e.g. "status,-createdAt".
// Returns nil for empty input.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	fields := make([]SortField, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if after, ok := strings.CutPrefix(part, "-"); ok {
			fields = append(fields, SortField{Field: after, Descending: true})
		} else {
			fields = append(fields, SortField{Field: part, Descending: false})
		}
	}

	return fields
}

// Builder constructs SQL queries with a fluent API and automatic parameter
// numbering.
type Builder struct {
	columns     *ColumnMap
	conditions  []condition
	sortFields  []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder for the given column map with optional
// default sort fields.
func NewBuilder(columns *ColumnMap, defaultSort ...SortField) *Builder {
	return &Builder{
		columns:     columns,
		conditions:  make([]condition, 0),
		defaultSort: defaultSort,
	}
}

// WhereEquals adds an equality condition. No-op for nil values.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.column(field)
	b.conditions = append(b.conditions, condition{
		clause: fmt.Sprintf("%s = $%%d", col),
		args:   []any{value},
	})
	return b
}

// WhereContains adds a case-insensitive ILIKE condition. No-op for nil or
// empty values.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	col := b.column(field)
	b.conditions = append(b.conditions, condition{
		clause: fmt.Sprintf("%s ILIKE $%%d", col),
		args:   []any{"%" + *value + "%"},
	})
	return b
}

// WhereSearch adds an OR condition across multiple fields with ILIKE.
// No-op for nil or empty search.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	clauses := make([]string, len(fields))
	args := make([]any, len(fields))
	pattern := "%" + *search + "%"

	for i, field := range fields {
		clauses[i] = fmt.Sprintf("%s ILIKE $%%d", b.column(field))
		args[i] = pattern
	}

	b.conditions = append(b.conditions, condition{
		clause: "(" + strings.Join(clauses, " OR ") + ")",
		args:   args,
	})
	return b
}

// OrderBy sets the sort order, overriding default sort fields.
func (b *Builder) OrderBy(fields []SortField) *Builder {
	b.sortFields = fields
	return b
}

// BuildCount returns a COUNT(*) query with the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.buildWhere()
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.columns.Table(), where)
	return sql, args
}

// BuildPage returns a paginated SELECT query with ordering, limit, and offset.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	where, args := b.buildWhere()
	offset := (page - 1) * pageSize

	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.columns.Columns(),
		b.columns.Table(),
		where,
		b.buildOrderBy(),
		pageSize,
		offset,
	)

	return sql, args
}

// BuildSingle returns a SELECT query for a single record by a unique field.
func (b *Builder) BuildSingle(field string, value any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.columns.Columns(),
		b.columns.Table(),
		b.column(field),
	)
	return sql, []any{value}
}

// buildOrderBy resolves sort fields through the ColumnMap, silently dropping
// any field without a mapping. Sort input arrives from the client, so raw
// field names never reach the SQL text.
func (b *Builder) buildOrderBy() string {
	parts := b.orderParts(b.sortFields)
	if len(parts) == 0 {
		parts = b.orderParts(b.defaultSort)
	}
	if len(parts) == 0 {
		return ""
	}

	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) orderParts(fields []SortField) []string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := b.columns.Column(f.Field)
		if !ok {
			continue
		}
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("%s %s", col, dir))
	}
	return parts
}

// column resolves a code-supplied field name; an unmapped field here is a
// programming error, not client input.
func (b *Builder) column(field string) string {
	col, ok := b.columns.Column(field)
	if !ok {
		panic(fmt.Sprintf("query: unmapped field %q", field))
	}
	return col
}

func (b *Builder) buildWhere() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(b.conditions))
	args := make([]any, 0)
	param := 1

	for _, cond := range b.conditions {
		clause := cond.clause
		for _, arg := range cond.args {
			clause = strings.Replace(clause, "$%d", fmt.Sprintf("$%d", param), 1)
			args = append(args, arg)
			param++
		}
		clauses = append(clauses, clause)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}

	return false
}
