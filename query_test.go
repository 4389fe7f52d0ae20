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

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWireOperator(t *testing.T) {
	for _, test := range []struct {
		in, want string
	}{
		{"==", "EQUAL"},
		{"!=", "NOT_EQUAL"},
		{"<", "LESS_THAN"},
		{"<=", "LESS_THAN_OR_EQUAL"},
		{">", "GREATER_THAN"},
		{">=", "GREATER_THAN_OR_EQUAL"},
		{"array-contains", "ARRAY_CONTAINS"},
		{"in", "IN"},
		{"array-contains-any", "ARRAY_CONTAINS_ANY"},
		{"not-in", "NOT_IN"},
		// Unknown operators pass through unchanged.
		{"FUTURE_OP", "FUTURE_OP"},
	} {
		if got := wireOperator(test.in); got != test.want {
			t.Errorf("%q: got %q, want %q", test.in, got, test.want)
		}
	}
}

func TestCompileQueryFilterArity(t *testing.T) {
	f := func(field, op string, v interface{}) Filter {
		return Filter{Field: field, Op: op, Value: v}
	}

	// Zero filters: no where clause at all.
	sq := compileQuery("c", QueryOptions{}, false)
	if sq.Where != nil {
		t.Errorf("zero filters: got where %+v, want nil", sq.Where)
	}

	// One filter: a bare fieldFilter, no composite wrapper.
	sq = compileQuery("c", QueryOptions{Filters: []Filter{f("a", ">=", 3)}}, false)
	if sq.Where == nil || sq.Where.FieldFilter == nil || sq.Where.CompositeFilter != nil {
		t.Fatalf("one filter: got %+v, want bare field filter", sq.Where)
	}
	if got := sq.Where.FieldFilter.Op; got != "GREATER_THAN_OR_EQUAL" {
		t.Errorf("one filter: got op %q, want GREATER_THAN_OR_EQUAL", got)
	}

	// Two or more filters: an AND composite with one entry each.
	sq = compileQuery("c", QueryOptions{Filters: []Filter{
		f("a", ">=", 3),
		f("b", "==", "x"),
		f("c", "in", []string{"y"}),
	}}, false)
	comp := sq.Where.CompositeFilter
	if comp == nil || sq.Where.FieldFilter != nil {
		t.Fatalf("three filters: got %+v, want composite", sq.Where)
	}
	if comp.Op != "AND" {
		t.Errorf("composite op: got %q, want AND", comp.Op)
	}
	var ops []string
	for _, qf := range comp.Filters {
		ops = append(ops, qf.FieldFilter.Op)
	}
	want := []string{"GREATER_THAN_OR_EQUAL", "EQUAL", "IN"}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("composite ops: (-want +got):\n%s", diff)
	}
}

func TestCompileQueryFrom(t *testing.T) {
	sq := compileQuery("cities", QueryOptions{}, false)
	want := []collectionSelector{{CollectionID: "cities", AllDescendants: false}}
	if diff := cmp.Diff(want, sq.From); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	sq = compileQuery("cities", QueryOptions{}, true)
	if !sq.From[0].AllDescendants {
		t.Error("collection group: allDescendants not set")
	}
}

func TestCompileQueryOrderBy(t *testing.T) {
	sq := compileQuery("c", QueryOptions{OrderByField: "population"}, false)
	want := []order{{Field: fieldReference{FieldPath: "population"}, Direction: Asc}}
	if diff := cmp.Diff(want, sq.OrderBy); diff != "" {
		t.Errorf("default direction: (-want +got):\n%s", diff)
	}

	sq = compileQuery("c", QueryOptions{OrderByField: "population", OrderByDir: Desc}, false)
	if sq.OrderBy[0].Direction != Desc {
		t.Errorf("got %q, want %q", sq.OrderBy[0].Direction, Desc)
	}
}

func TestCompileQueryLimitOffsetOmitted(t *testing.T) {
	// Zero limit and offset mean unset and are left off the wire.
	b, err := json.Marshal(compileQuery("c", QueryOptions{}, false))
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"limit", "offset", "where", "orderBy"} {
		if strings.Contains(string(b), key) {
			t.Errorf("unconstrained query contains %q: %s", key, b)
		}
	}

	b, err = json.Marshal(compileQuery("c", QueryOptions{Limit: 10, Offset: 5}, false))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"limit":10`) || !strings.Contains(string(b), `"offset":5`) {
		t.Errorf("got %s", b)
	}
}

func TestQueryImmutable(t *testing.T) {
	base := Query{path: "c"}
	q1 := base.Where("a", "==", 1)
	q2 := q1.Where("b", "==", 2).Limit(3)
	q3 := q1.OrderBy("a", Desc)

	if len(base.opts.Filters) != 0 {
		t.Errorf("base mutated: %+v", base.opts)
	}
	if len(q1.opts.Filters) != 1 || q1.opts.Limit != 0 || q1.opts.OrderByField != "" {
		t.Errorf("q1 mutated: %+v", q1.opts)
	}
	if len(q2.opts.Filters) != 2 || q2.opts.Limit != 3 {
		t.Errorf("q2 wrong: %+v", q2.opts)
	}
	if q3.opts.OrderByField != "a" || len(q3.opts.Filters) != 1 {
		t.Errorf("q3 wrong: %+v", q3.opts)
	}
}
