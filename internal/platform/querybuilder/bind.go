// Package querybuilder renders the handful of PostgreSQL statements the
// equipe repositories issue. Values are always bound as $n parameters.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// binder numbers bind parameters in the order they are rendered.
type binder struct {
	values []any
}

func (b *binder) bind(v any) string {
	b.values = append(b.values, v)
	return "$" + strconv.Itoa(len(b.values))
}

// expand replaces each ? in expr with the next value.
func (b *binder) expand(expr string, values []any) (string, error) {
	if n := strings.Count(expr, "?"); n != len(values) {
		return "", fmt.Errorf("expression %q has %d placeholders for %d values", expr, n, len(values))
	}

	var out strings.Builder
	rest := expr
	for _, v := range values {
		before, after, _ := strings.Cut(rest, "?")
		out.WriteString(before)
		out.WriteString(b.bind(v))
		rest = after
	}
	out.WriteString(rest)
	return out.String(), nil
}

// Condition is one predicate of a WHERE clause. Conditions are ANDed.
type Condition func(b *binder) (string, error)

func Eq(column string, value any) Condition {
	return func(b *binder) (string, error) {
		return column + " = " + b.bind(value), nil
	}
}

// ILikeContains matches rows whose column contains value, case-insensitively.
// LIKE wildcards in value are matched literally.
func ILikeContains(column, value string) Condition {
	return func(b *binder) (string, error) {
		return column + " ILIKE " + b.bind("%"+EscapeLike(value)+"%") + ` ESCAPE '\'`, nil
	}
}

// Expr is a raw predicate with ? markers for its values.
func Expr(expr string, values ...any) Condition {
	return func(b *binder) (string, error) {
		return b.expand(expr, values)
	}
}

func renderWhere(out *strings.Builder, b *binder, conditions []Condition) error {
	for i, cond := range conditions {
		sql, err := cond(b)
		if err != nil {
			return err
		}
		if i == 0 {
			out.WriteString(" WHERE ")
		} else {
			out.WriteString(" AND ")
		}
		out.WriteString(sql)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// EscapeLike escapes LIKE wildcards so value matches literally with ESCAPE '\'.
func EscapeLike(value string) string {
	return likeEscaper.Replace(value)
}
