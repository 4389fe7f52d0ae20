// Copyright 2023 the Firebase REST Firestore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package firestore

import "context"

// A Direction is the sort direction of an OrderBy clause.
type Direction string

const (
	// Asc sorts results from smallest to largest.
	Asc Direction = "ASCENDING"
	// Desc sorts results from largest to smallest.
	Desc Direction = "DESCENDING"
)

// A Filter is a single (field, operator, value) condition. Multiple
// filters on a query combine with logical AND.
//
// Operators are the ergonomic symbols "==", "!=", "<", "<=", ">", ">=",
// "array-contains", "in", "array-contains-any" and "not-in". An operator
// outside this set is sent to the service unchanged.
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// QueryOptions is the accumulated constraint set of a query: filters,
// at most one ordering, and optional limit and offset. A zero limit or
// offset means unset.
type QueryOptions struct {
	Filters      []Filter
	OrderByField string
	OrderByDir   Direction
	Limit        int
	Offset       int
}

// clone returns a copy of o whose filter slice does not alias o's.
func (o QueryOptions) clone() QueryOptions {
	c := o
	c.Filters = make([]Filter, len(o.Filters))
	copy(c.Filters, o.Filters)
	return c
}

// wireOperators maps the ergonomic operator symbols to the service's
// operator tokens.
var wireOperators = map[string]string{
	"==":                 "EQUAL",
	"!=":                 "NOT_EQUAL",
	"<":                  "LESS_THAN",
	"<=":                 "LESS_THAN_OR_EQUAL",
	">":                  "GREATER_THAN",
	">=":                 "GREATER_THAN_OR_EQUAL",
	"array-contains":     "ARRAY_CONTAINS",
	"in":                 "IN",
	"array-contains-any": "ARRAY_CONTAINS_ANY",
	"not-in":             "NOT_IN",
}

func wireOperator(op string) string {
	if w, ok := wireOperators[op]; ok {
		return w
	}
	// Unknown operators pass through for forward compatibility.
	return op
}

// Wire representation of a structured query, per the REST protocol.
type runQueryRequest struct {
	StructuredQuery structuredQuery `json:"structuredQuery"`
}

type structuredQuery struct {
	From    []collectionSelector `json:"from"`
	Where   *queryFilter         `json:"where,omitempty"`
	OrderBy []order              `json:"orderBy,omitempty"`
	Limit   int                  `json:"limit,omitempty"`
	Offset  int                  `json:"offset,omitempty"`
}

type collectionSelector struct {
	CollectionID   string `json:"collectionId"`
	AllDescendants bool   `json:"allDescendants"`
}

// queryFilter has exactly one of its fields set.
type queryFilter struct {
	CompositeFilter *compositeFilter `json:"compositeFilter,omitempty"`
	FieldFilter     *fieldFilter     `json:"fieldFilter,omitempty"`
}

type compositeFilter struct {
	Op      string        `json:"op"`
	Filters []queryFilter `json:"filters"`
}

type fieldFilter struct {
	Field fieldReference `json:"field"`
	Op    string         `json:"op"`
	Value Value          `json:"value"`
}

type fieldReference struct {
	FieldPath string `json:"fieldPath"`
}

type order struct {
	Field     fieldReference `json:"field"`
	Direction Direction      `json:"direction,omitempty"`
}

// A runQuery response is a sequence of result slots; slots without a
// document are progress markers and carry no match.
type runQueryResult struct {
	Document *Document `json:"document,omitempty"`
	ReadTime string    `json:"readTime,omitempty"`
}

// compileQuery translates a constraint set into the structured-query wire
// payload. allDescendants marks a collection-group query, matching the
// collection ID at any depth.
func compileQuery(collectionID string, opts QueryOptions, allDescendants bool) structuredQuery {
	sq := structuredQuery{
		From: []collectionSelector{{
			CollectionID:   collectionID,
			AllDescendants: allDescendants,
		}},
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}

	// One filter is sent bare; two or more are wrapped in an AND
	// composite. Zero filters omit the where clause entirely.
	fs := make([]queryFilter, 0, len(opts.Filters))
	for _, f := range opts.Filters {
		fs = append(fs, queryFilter{FieldFilter: &fieldFilter{
			Field: fieldReference{FieldPath: f.Field},
			Op:    wireOperator(f.Op),
			Value: EncodeValue(f.Value),
		}})
	}
	switch len(fs) {
	case 0:
	case 1:
		sq.Where = &fs[0]
	default:
		sq.Where = &queryFilter{CompositeFilter: &compositeFilter{
			Op:      "AND",
			Filters: fs,
		}}
	}

	if opts.OrderByField != "" {
		dir := opts.OrderByDir
		if dir == "" {
			dir = Asc
		}
		sq.OrderBy = []order{{
			Field:     fieldReference{FieldPath: opts.OrderByField},
			Direction: dir,
		}}
	}
	return sq
}

// A Query is an immutable, lazily-evaluated query over a collection or
// collection group. Each constraint method returns a new Query; nothing
// touches the network until Get.
type Query struct {
	client         *Client
	path           string
	allDescendants bool
	opts           QueryOptions
}

// Where returns a new Query with the condition (field op value) appended
// to the receiver's filters.
func (q Query) Where(field, op string, value interface{}) Query {
	q.opts = q.opts.clone()
	q.opts.Filters = append(q.opts.Filters, Filter{Field: field, Op: op, Value: value})
	return q
}

// OrderBy returns a new Query ordered by field in the given direction.
// A query holds at most one ordering; the last call wins.
func (q Query) OrderBy(field string, dir Direction) Query {
	q.opts = q.opts.clone()
	q.opts.OrderByField = field
	q.opts.OrderByDir = dir
	return q
}

// Limit returns a new Query that returns at most n results.
func (q Query) Limit(n int) Query {
	q.opts = q.opts.clone()
	q.opts.Limit = n
	return q
}

// Offset returns a new Query that skips the first n results.
func (q Query) Offset(n int) Query {
	q.opts = q.opts.clone()
	q.opts.Offset = n
	return q
}

// Get executes the query.
func (q Query) Get(ctx context.Context) (*QuerySnapshot, error) {
	docs, err := q.client.RunQuery(ctx, q.path, q.opts, q.allDescendants)
	if err != nil {
		return nil, err
	}
	return newQuerySnapshot(q.client, q.path, docs), nil
}
