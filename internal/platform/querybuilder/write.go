package querybuilder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

type assignment struct {
	column string
	render func(b *binder) (string, error)
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (u *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	u.sets = append(u.sets, assignment{column: column, render: func(b *binder) (string, error) {
		return b.bind(value), nil
	}})
	return u
}

// SetExpr assigns a raw SQL expression, e.g. NOW().
func (u *UpdateBuilder) SetExpr(column, expr string, values ...any) *UpdateBuilder {
	u.sets = append(u.sets, assignment{column: column, render: func(b *binder) (string, error) {
		return b.expand(expr, values)
	}})
	return u
}

func (u *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	u.where = append(u.where, conditions...)
	return u
}

func (u *UpdateBuilder) ToSQL() (string, []any, error) {
	if u.table == "" || len(u.sets) == 0 {
		return "", nil, errors.New("update needs a table and at least one column")
	}

	var b binder
	parts := make([]string, 0, len(u.sets))
	for _, set := range u.sets {
		value, err := set.render(&b)
		if err != nil {
			return "", nil, fmt.Errorf("set %s: %w", set.column, err)
		}
		parts = append(parts, set.column+" = "+value)
	}

	var out strings.Builder
	out.WriteString("UPDATE " + u.table + " SET " + strings.Join(parts, ", "))
	if err := renderWhere(&out, &b, u.where); err != nil {
		return "", nil, err
	}
	return out.String(), b.values, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (d *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	d.where = append(d.where, conditions...)
	return d
}

// ToSQL refuses to render a DELETE without a WHERE clause.
func (d *DeleteBuilder) ToSQL() (string, []any, error) {
	if d.table == "" {
		return "", nil, errors.New("delete needs a table")
	}
	if len(d.where) == 0 {
		return "", nil, errors.New("delete without where is not allowed")
	}

	var out strings.Builder
	var b binder
	out.WriteString("DELETE FROM " + d.table)
	if err := renderWhere(&out, &b, d.where); err != nil {
		return "", nil, err
	}
	return out.String(), b.values, nil
}

// InsertModel renders a single-row INSERT from the exported, db-tagged fields
// of model. suffix is appended verbatim, e.g. "RETURNING id".
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	v := reflect.Indirect(reflect.ValueOf(model))
	if v.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("insert model must be a struct, got %T", model)
	}

	var b binder
	var columns, params []string
	for _, field := range reflect.VisibleFields(v.Type()) {
		if !field.IsExported() || field.Anonymous {
			continue
		}
		column, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		if column == "" || column == "-" {
			continue
		}
		columns = append(columns, column)
		params = append(params, b.bind(v.FieldByIndex(field.Index).Interface()))
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("insert model %T has no db columns", model)
	}

	sql := "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + strings.Join(params, ", ") + ")"
	if suffix = strings.TrimSpace(suffix); suffix != "" {
		sql += " " + suffix
	}
	return sql, b.values, nil
}
