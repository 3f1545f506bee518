package postgrest

import (
	"net/url"
	"strings"

	qb "github.com/riskibarqy/equipe-service/internal/platform/querybuilder"
	"github.com/valyala/bytebufferpool"
)

type param struct {
	key   string
	value string
}

// Query collects PostgREST query parameters in insertion order.
type Query struct {
	params []param
}

func NewQuery() *Query {
	return &Query{}
}

func (q *Query) Select(expr string) *Query {
	return q.add("select", expr)
}

func (q *Query) Eq(column, value string) *Query {
	return q.add(column, "eq."+value)
}

// ILikeContains matches column against *value* case-insensitively.
func (q *Query) ILikeContains(column, value string) *Query {
	return q.add(column, "ilike.*"+qb.EscapeLike(value)+"*")
}

func (q *Query) In(column string, values []string) *Query {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("in.(")
	for i, v := range values {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		_, _ = buf.WriteString(quoteListValue(v))
	}
	_ = buf.WriteByte(')')

	return q.add(column, buf.String())
}

func (q *Query) Order(expr string) *Query {
	return q.add("order", expr)
}

func (q *Query) add(key, value string) *Query {
	q.params = append(q.params, param{key: key, value: value})
	return q
}

// Encode renders the query string without the leading '?'.
func (q *Query) Encode() string {
	if q == nil || len(q.params) == 0 {
		return ""
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, p := range q.params {
		if i > 0 {
			_ = buf.WriteByte('&')
		}
		_, _ = buf.WriteString(url.QueryEscape(p.key))
		_ = buf.WriteByte('=')
		_, _ = buf.WriteString(url.QueryEscape(p.value))
	}

	return buf.String()
}

// quoteListValue double-quotes values that would break an in.() list.
func quoteListValue(v string) string {
	if !strings.ContainsAny(v, `,()" \`) {
		return v
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(v) + `"`
}
