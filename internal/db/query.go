package db

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/example/paddock/internal/ports/secondary"
)

// Dialect selects placeholder syntax.
type Dialect int

const (
	// SQLite uses `?` placeholders.
	SQLite Dialect = iota
	// Postgres uses `$n` placeholders.
	Postgres
)

// Statement is a rendered SQL statement with its arguments.
// Columns lists the selected/returned columns in order.
type Statement struct {
	SQL     string
	Args    []any
	Columns []string
}

var errNoFilters = errors.New("refusing to modify a relation without filters")

type builder struct {
	dialect Dialect
	args    []any
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	if b.dialect == Postgres {
		return "$" + strconv.Itoa(len(b.args))
	}
	return "?"
}

func (b *builder) where(rel Relation, filters []secondary.Filter) (string, error) {
	if len(filters) == 0 {
		return "", nil
	}
	conds := make([]string, 0, len(filters))
	for _, f := range filters {
		if !rel.HasColumn(f.Field) {
			return "", fmt.Errorf("unknown field %q on relation %s", f.Field, rel.Name)
		}
		switch {
		case f.Empty():
			conds = append(conds, "1 = 0")
		case f.In:
			ph := make([]string, len(f.Values))
			for i, v := range f.Values {
				ph[i] = b.bind(v)
			}
			conds = append(conds, fmt.Sprintf("%s IN (%s)", f.Field, strings.Join(ph, ", ")))
		case len(f.Values) == 0 || f.Values[0] == nil:
			conds = append(conds, f.Field+" IS NULL")
		default:
			conds = append(conds, fmt.Sprintf("%s = %s", f.Field, b.bind(f.Values[0])))
		}
	}
	return " WHERE " + strings.Join(conds, " AND "), nil
}

// sortedKeys returns row keys in a stable order so statements are reproducible.
func sortedKeys(row secondary.Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BuildSelect renders a filtered read. An empty projection selects every column.
func BuildSelect(d Dialect, relation string, filters []secondary.Filter, projection []string) (Statement, error) {
	rel, err := Lookup(relation)
	if err != nil {
		return Statement{}, err
	}
	columns := projection
	if len(columns) == 0 {
		columns = rel.Columns
	}
	if err := rel.CheckColumns(columns); err != nil {
		return Statement{}, err
	}

	b := &builder{dialect: d}
	where, err := b.where(rel, filters)
	if err != nil {
		return Statement{}, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		strings.Join(columns, ", "), rel.Name, where, rel.OrderBy)
	return Statement{SQL: query, Args: b.args, Columns: columns}, nil
}

// BuildInsert renders an insert returning every column of the stored row.
func BuildInsert(d Dialect, relation string, row secondary.Row) (Statement, error) {
	rel, err := Lookup(relation)
	if err != nil {
		return Statement{}, err
	}
	if len(row) == 0 {
		return Statement{}, fmt.Errorf("empty row for relation %s", rel.Name)
	}
	keys := sortedKeys(row)
	if err := rel.CheckColumns(keys); err != nil {
		return Statement{}, err
	}

	b := &builder{dialect: d}
	ph := make([]string, len(keys))
	for i, k := range keys {
		ph[i] = b.bind(row[k])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		rel.Name, strings.Join(keys, ", "), strings.Join(ph, ", "), strings.Join(rel.Columns, ", "))
	return Statement{SQL: query, Args: b.args, Columns: rel.Columns}, nil
}

// BuildUpdate renders a filtered update. Unfiltered updates are rejected.
func BuildUpdate(d Dialect, relation string, patch secondary.Row, filters []secondary.Filter) (Statement, error) {
	rel, err := Lookup(relation)
	if err != nil {
		return Statement{}, err
	}
	if len(filters) == 0 {
		return Statement{}, errNoFilters
	}
	if len(patch) == 0 {
		return Statement{}, fmt.Errorf("empty patch for relation %s", rel.Name)
	}
	keys := sortedKeys(patch)
	if err := rel.CheckColumns(keys); err != nil {
		return Statement{}, err
	}

	b := &builder{dialect: d}
	sets := make([]string, len(keys))
	for i, k := range keys {
		sets[i] = fmt.Sprintf("%s = %s", k, b.bind(patch[k]))
	}
	where, err := b.where(rel, filters)
	if err != nil {
		return Statement{}, err
	}

	query := fmt.Sprintf("UPDATE %s SET %s%s", rel.Name, strings.Join(sets, ", "), where)
	return Statement{SQL: query, Args: b.args}, nil
}

// BuildDelete renders a filtered delete. Unfiltered deletes are rejected.
func BuildDelete(d Dialect, relation string, filters []secondary.Filter) (Statement, error) {
	rel, err := Lookup(relation)
	if err != nil {
		return Statement{}, err
	}
	if len(filters) == 0 {
		return Statement{}, errNoFilters
	}

	b := &builder{dialect: d}
	where, err := b.where(rel, filters)
	if err != nil {
		return Statement{}, err
	}

	return Statement{SQL: fmt.Sprintf("DELETE FROM %s%s", rel.Name, where), Args: b.args}, nil
}
