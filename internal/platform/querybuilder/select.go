package querybuilder

import (
	"errors"
	"strings"
)

type SelectBuilder struct {
	columns []string
	from    string
	joins   []string
	where   []Condition
	orderBy []string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (s *SelectBuilder) From(table string) *SelectBuilder {
	s.from = table
	return s
}

func (s *SelectBuilder) LeftJoin(table, on string) *SelectBuilder {
	s.joins = append(s.joins, "LEFT JOIN "+table+" ON "+on)
	return s
}

func (s *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	s.where = append(s.where, conditions...)
	return s
}

func (s *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	s.orderBy = append(s.orderBy, terms...)
	return s
}

func (s *SelectBuilder) ToSQL() (string, []any, error) {
	if len(s.columns) == 0 || s.from == "" {
		return "", nil, errors.New("select needs columns and a table")
	}

	var out strings.Builder
	out.WriteString("SELECT " + strings.Join(s.columns, ", ") + " FROM " + s.from)
	for _, j := range s.joins {
		out.WriteString(" " + j)
	}

	var b binder
	if err := renderWhere(&out, &b, s.where); err != nil {
		return "", nil, err
	}
	if len(s.orderBy) > 0 {
		out.WriteString(" ORDER BY " + strings.Join(s.orderBy, ", "))
	}
	return out.String(), b.values, nil
}
