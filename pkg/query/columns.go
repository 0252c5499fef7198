// Package query provides single-table SQL query building with logical
// field-to-column mapping and automatic parameter numbering.
package query

import (
	"fmt"
	"strings"
)

// ColumnMap maps logical field names to qualified column references
// (alias.column) for a single table.
type ColumnMap struct {
	table      string
	alias      string
	columns    map[string]string
	columnList []string
}

// NewColumnMap creates a ColumnMap for the given table and alias.
func NewColumnMap(table, alias string) *ColumnMap {
	return &ColumnMap{
		table:      table,
		alias:      alias,
		columns:    make(map[string]string),
		columnList: make([]string, 0),
	}
}

// Map adds a column mapping from database column to logical field name.
func (m *ColumnMap) Map(column, field string) *ColumnMap {
	qualified := fmt.Sprintf("%s.%s", m.alias, column)
	m.columns[field] = qualified
	m.columnList = append(m.columnList, qualified)
	return m
}

// Table returns the table reference with alias.
func (m *ColumnMap) Table() string {
	return fmt.Sprintf("%s %s", m.table, m.alias)
}

// Column returns the qualified column for a logical field name. The second
// return reports whether the field is mapped; unmapped fields must never be
// interpolated into SQL.
func (m *ColumnMap) Column(field string) (string, bool) {
	col, ok := m.columns[field]
	return col, ok
}

// Columns returns all mapped columns as a comma-separated string.
func (m *ColumnMap) Columns() string {
	return strings.Join(m.columnList, ", ")
}
