// Package query holds the query AST. Every node implements elastic.Query and
// renders itself for the protocol generation it is asked for; nodes carry no
// wire format of their own.
package query

import (
	"encoding/json"

	"github.com/pteich/elastic-purge/elastic"
)

// Bool combines sub-queries with must/filter/should/must_not semantics.
type Bool struct {
	must    []elastic.Query
	filter  []elastic.Query
	should  []elastic.Query
	mustNot []elastic.Query
}

func NewBoolQuery() *Bool { return &Bool{} }

func (q *Bool) Must(queries ...elastic.Query) *Bool {
	q.must = append(q.must, queries...)
	return q
}

func (q *Bool) Filter(queries ...elastic.Query) *Bool {
	q.filter = append(q.filter, queries...)
	return q
}

func (q *Bool) Should(queries ...elastic.Query) *Bool {
	q.should = append(q.should, queries...)
	return q
}

func (q *Bool) MustNot(queries ...elastic.Query) *Bool {
	q.mustNot = append(q.mustNot, queries...)
	return q
}

func renderClauses(v elastic.ProtocolVersion, queries []elastic.Query) []interface{} {
	out := make([]interface{}, len(queries))
	for i, sub := range queries {
		out[i] = sub.Source(v)
	}
	return out
}

func (q *Bool) Source(v elastic.ProtocolVersion) map[string]interface{} {
	clause := map[string]interface{}{}
	if len(q.must) > 0 {
		clause["must"] = renderClauses(v, q.must)
	}
	if len(q.filter) > 0 {
		clause["filter"] = renderClauses(v, q.filter)
	}
	if len(q.should) > 0 {
		clause["should"] = renderClauses(v, q.should)
	}
	if len(q.mustNot) > 0 {
		clause["must_not"] = renderClauses(v, q.mustNot)
	}
	return map[string]interface{}{"bool": clause}
}

// Term matches one exact value.
type Term struct {
	field string
	value interface{}
}

func NewTermQuery(field string, value interface{}) Term {
	return Term{field: field, value: value}
}

func (q Term) Source(v elastic.ProtocolVersion) map[string]interface{} {
	return map[string]interface{}{
		"term": map[string]interface{}{q.field: q.value},
	}
}

// Terms matches any of several exact values.
type Terms struct {
	field  string
	values []interface{}
}

func NewTermsQuery(field string, values ...interface{}) Terms {
	return Terms{field: field, values: values}
}

func (q Terms) Source(v elastic.ProtocolVersion) map[string]interface{} {
	return map[string]interface{}{
		"terms": map[string]interface{}{q.field: q.values},
	}
}

// Ids matches documents by id. Under 2.x the clause still names the document
// type.
type Ids struct {
	tpe    elastic.Type
	values []string
}

func NewIdsQuery(values ...string) *Ids { return &Ids{values: values} }

func (q *Ids) Type(tpe elastic.Type) *Ids {
	q.tpe = tpe
	return q
}

func (q *Ids) Source(v elastic.ProtocolVersion) map[string]interface{} {
	clause := map[string]interface{}{"values": q.values}
	if v == elastic.V2 && q.tpe != "" {
		clause["type"] = string(q.tpe)
	}
	return map[string]interface{}{"ids": clause}
}

// Range bounds a field. Unset bounds are omitted keys.
type Range struct {
	field string
	gte   interface{}
	gt    interface{}
	lte   interface{}
	lt    interface{}
}

func NewRangeQuery(field string) *Range { return &Range{field: field} }

func (q *Range) Gte(value interface{}) *Range { q.gte = value; return q }
func (q *Range) Gt(value interface{}) *Range  { q.gt = value; return q }
func (q *Range) Lte(value interface{}) *Range { q.lte = value; return q }
func (q *Range) Lt(value interface{}) *Range  { q.lt = value; return q }

func (q *Range) Source(v elastic.ProtocolVersion) map[string]interface{} {
	bounds := map[string]interface{}{}
	if q.gte != nil {
		bounds["gte"] = q.gte
	}
	if q.gt != nil {
		bounds["gt"] = q.gt
	}
	if q.lte != nil {
		bounds["lte"] = q.lte
	}
	if q.lt != nil {
		bounds["lt"] = q.lt
	}
	return map[string]interface{}{
		"range": map[string]interface{}{q.field: bounds},
	}
}

// QueryString is a Lucene query string, same as a Kibana search input.
type QueryString struct {
	query string
}

func NewQueryStringQuery(qs string) QueryString { return QueryString{query: qs} }

func (q QueryString) Source(v elastic.ProtocolVersion) map[string]interface{} {
	return map[string]interface{}{
		"query_string": map[string]interface{}{"query": q.query},
	}
}

// MatchAll matches every document.
type MatchAll struct{}

func NewMatchAllQuery() MatchAll { return MatchAll{} }

func (MatchAll) Source(v elastic.ProtocolVersion) map[string]interface{} {
	return map[string]interface{}{"match_all": map[string]interface{}{}}
}

// Raw wraps a caller-provided JSON query clause verbatim.
type Raw struct {
	clause map[string]interface{}
}

func NewRawQuery(raw string) (Raw, error) {
	q := Raw{}
	if err := json.Unmarshal([]byte(raw), &q.clause); err != nil {
		return Raw{}, err
	}
	return q, nil
}

func (q Raw) Source(v elastic.ProtocolVersion) map[string]interface{} {
	return q.clause
}
