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

// The fluent reference model layered over the Client: collection and
// document references, collection groups, and the snapshot types their
// terminal operations return. References are immutable; chaining
// constraint methods returns new values and performs no I/O until a
// terminal Get/Set/Update/Delete/Add call.

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nabettu/firebase-rest-firestore/internal/gcerr"
)

// A CollectionReference is a lazily-bound handle to a collection,
// identified by a slash-delimited path with an odd number of segments.
type CollectionReference struct {
	client *Client

	// Path is the collection's path, e.g. "states" or
	// "states/wisconsin/cities".
	Path string
}

// Collection returns a reference to the collection at path.
func (c *Client) Collection(path string) *CollectionReference {
	return &CollectionReference{client: c, Path: strings.Trim(path, "/")}
}

// ID returns the collection's ID, the final segment of its path.
func (c *CollectionReference) ID() string {
	return DocumentID(c.Path)
}

// Doc returns a reference to the document with the given ID inside the
// collection.
func (c *CollectionReference) Doc(id string) *DocumentReference {
	return &DocumentReference{
		client:         c.client,
		collectionPath: c.Path,
		ID:             id,
	}
}

// NewDoc returns a reference to a document with a freshly generated
// random ID. The ID is drawn locally from a 62-character alphanumeric
// alphabet; collisions are the store's responsibility to reject, and no
// existence check is made before the first write.
func (c *CollectionReference) NewDoc() *DocumentReference {
	return c.Doc(autoID())
}

// Add creates a document with data and a store-assigned ID, returning a
// reference to the created document.
func (c *CollectionReference) Add(ctx context.Context, data map[string]interface{}) (*DocumentReference, *WriteResult, error) {
	created, err := c.client.Add(ctx, c.Path, data)
	if err != nil {
		return nil, nil, err
	}
	id, _ := created["id"].(string)
	return c.Doc(id), &WriteResult{UpdateTime: time.Now()}, nil
}

// Where returns a query on the collection filtered by (field op value).
func (c *CollectionReference) Where(field, op string, value interface{}) Query {
	return c.query().Where(field, op, value)
}

// OrderBy returns a query on the collection ordered by field.
func (c *CollectionReference) OrderBy(field string, dir Direction) Query {
	return c.query().OrderBy(field, dir)
}

// Limit returns a query on the collection limited to n results.
func (c *CollectionReference) Limit(n int) Query {
	return c.query().Limit(n)
}

// Offset returns a query on the collection that skips the first n results.
func (c *CollectionReference) Offset(n int) Query {
	return c.query().Offset(n)
}

// Get executes an unconstrained query over the collection.
func (c *CollectionReference) Get(ctx context.Context) (*QuerySnapshot, error) {
	return c.query().Get(ctx)
}

func (c *CollectionReference) query() Query {
	return Query{client: c.client, path: c.Path}
}

// A DocumentReference is a lazily-bound handle to a document.
type DocumentReference struct {
	client         *Client
	collectionPath string

	// ID is the document's identifier, the final segment of its path.
	ID string
}

// Doc returns a reference to the document at path, which must have an
// even number of segments. A malformed path returns an error before any
// network activity.
func (c *Client) Doc(path string) (*DocumentReference, error) {
	path = strings.Trim(path, "/")
	if err := validateDocumentPath(path); err != nil {
		return nil, err
	}
	i := strings.LastIndex(path, "/")
	return &DocumentReference{
		client:         c,
		collectionPath: path[:i],
		ID:             path[i+1:],
	}, nil
}

// Path returns the document's full path, e.g. "states/wisconsin".
func (d *DocumentReference) Path() string {
	return d.collectionPath + "/" + d.ID
}

// Collection returns a reference to the subcollection with the given ID
// under the document. Nesting is pure path concatenation; there is no
// separate subcollection entity.
func (d *DocumentReference) Collection(id string) *CollectionReference {
	return &CollectionReference{
		client: d.client,
		Path:   d.Path() + "/" + strings.Trim(id, "/"),
	}
}

// Get reads the document. A missing document yields a snapshot whose
// Exists reports false, not an error.
func (d *DocumentReference) Get(ctx context.Context) (*DocumentSnapshot, error) {
	data, err := d.client.Get(ctx, d.collectionPath, d.ID)
	if err != nil {
		return nil, err
	}
	return &DocumentSnapshot{Ref: d, ID: d.ID, data: data}, nil
}

// Set writes data to the document, creating it if it does not exist.
// With Merge, fields of data are merged one level deep onto an existing
// document instead of replacing it. (Update's dot-path merge is deeper;
// the two merge depths intentionally differ.)
func (d *DocumentReference) Set(ctx context.Context, data map[string]interface{}, opts ...SetOption) (*WriteResult, error) {
	merge := false
	for _, o := range opts {
		o(&merge)
	}
	existing, err := d.client.Get(ctx, d.collectionPath, d.ID)
	if err != nil {
		return nil, err
	}
	switch {
	case existing != nil && merge:
		delete(existing, "id")
		for k, v := range data {
			existing[k] = v
		}
		_, err = d.client.Update(ctx, d.collectionPath, d.ID, existing)
	default:
		// Overwrite, or create at the chosen ID.
		_, err = d.client.CreateWithID(ctx, d.collectionPath, d.ID, data)
	}
	if err != nil {
		return nil, err
	}
	return &WriteResult{UpdateTime: time.Now()}, nil
}

// A SetOption configures Set.
type SetOption func(*bool)

// Merge makes Set merge its data onto the existing document instead of
// replacing it.
func Merge(merge *bool) { *merge = true }

// Update merges data onto the document. Dot-delimited keys in data
// address nested paths; see Client.Update.
func (d *DocumentReference) Update(ctx context.Context, data map[string]interface{}) (*WriteResult, error) {
	if _, err := d.client.Update(ctx, d.collectionPath, d.ID, data); err != nil {
		return nil, err
	}
	return &WriteResult{UpdateTime: time.Now()}, nil
}

// Delete removes the document. Deleting a missing document succeeds.
func (d *DocumentReference) Delete(ctx context.Context) (*WriteResult, error) {
	if err := d.client.Delete(ctx, d.collectionPath, d.ID); err != nil {
		return nil, err
	}
	return &WriteResult{UpdateTime: time.Now()}, nil
}

// A CollectionGroup queries every collection sharing an ID, at any
// nesting depth. It offers the same chaining surface as a
// CollectionReference, but every compiled query sets allDescendants.
type CollectionGroup struct {
	client *Client

	// ID is the collection ID matched at any depth.
	ID string
}

// CollectionGroup returns a reference to the group of all collections
// with the given ID.
func (c *Client) CollectionGroup(id string) *CollectionGroup {
	return &CollectionGroup{client: c, ID: id}
}

// Where returns a query on the group filtered by (field op value).
func (g *CollectionGroup) Where(field, op string, value interface{}) Query {
	return g.query().Where(field, op, value)
}

// OrderBy returns a query on the group ordered by field.
func (g *CollectionGroup) OrderBy(field string, dir Direction) Query {
	return g.query().OrderBy(field, dir)
}

// Limit returns a query on the group limited to n results.
func (g *CollectionGroup) Limit(n int) Query {
	return g.query().Limit(n)
}

// Offset returns a query on the group that skips the first n results.
func (g *CollectionGroup) Offset(n int) Query {
	return g.query().Offset(n)
}

// Get executes an unconstrained query over the group.
func (g *CollectionGroup) Get(ctx context.Context) (*QuerySnapshot, error) {
	return g.query().Get(ctx)
}

func (g *CollectionGroup) query() Query {
	return Query{client: g.client, path: g.ID, allDescendants: true}
}

// A QuerySnapshot is the materialized result of executing a query, fixed
// at the moment of retrieval.
type QuerySnapshot struct {
	// Docs holds the results in the order the service returned them.
	// Without an OrderBy that order is store-defined and not stable.
	Docs []*DocumentSnapshot
}

func newQuerySnapshot(c *Client, collectionPath string, docs []map[string]interface{}) *QuerySnapshot {
	snap := &QuerySnapshot{}
	for _, data := range docs {
		id, _ := data["id"].(string)
		ref := &DocumentReference{client: c, collectionPath: collectionPath, ID: id}
		snap.Docs = append(snap.Docs, &DocumentSnapshot{Ref: ref, ID: id, data: data})
	}
	return snap
}

// Size returns the number of results.
func (s *QuerySnapshot) Size() int { return len(s.Docs) }

// Empty reports whether the query matched no documents.
func (s *QuerySnapshot) Empty() bool { return len(s.Docs) == 0 }

// ForEach calls f for each result in order.
func (s *QuerySnapshot) ForEach(f func(*DocumentSnapshot)) {
	for _, d := range s.Docs {
		f(d)
	}
}

// A DocumentSnapshot is the materialized result of reading a document.
type DocumentSnapshot struct {
	// Ref is the reference the snapshot was read through.
	Ref *DocumentReference

	// ID is the identifier that was requested or assigned. It is set
	// even when the document does not exist.
	ID string

	data map[string]interface{}
}

// Exists reports whether the read found a document.
func (s *DocumentSnapshot) Exists() bool { return s.data != nil }

// Data returns the decoded field map, or nil when the document does not
// exist. The map includes the document's ID under "id".
func (s *DocumentSnapshot) Data() map[string]interface{} { return s.data }

// DataTo decodes the document's fields into p, which must be a pointer.
// Fields map by their "json" struct tags.
func (s *DocumentSnapshot) DataTo(p interface{}) error {
	if s.data == nil {
		return gcerr.Newf(gcerr.NotFound, nil, "firestore: document %q does not exist", s.ID)
	}
	b, err := json.Marshal(s.data)
	if err != nil {
		return gcerr.Newf(gcerr.InvalidArgument, err, "firestore: encoding document data")
	}
	if err := json.Unmarshal(b, p); err != nil {
		return gcerr.Newf(gcerr.InvalidArgument, err, "firestore: decoding document into %T", p)
	}
	return nil
}

// A WriteResult reports the completion of a write. UpdateTime is when
// the client observed the write to finish, not a server commit time.
type WriteResult struct {
	UpdateTime time.Time
}
