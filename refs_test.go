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
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nabettu/firebase-rest-firestore/fserrors"
)

func TestReferencePaths(t *testing.T) {
	c := NewClient(Config{ProjectID: "p"})

	coll := c.Collection("states")
	if coll.Path != "states" || coll.ID() != "states" {
		t.Errorf("got Path %q ID %q", coll.Path, coll.ID())
	}

	doc := coll.Doc("wi")
	if doc.Path() != "states/wi" || doc.ID != "wi" {
		t.Errorf("got Path %q ID %q", doc.Path(), doc.ID)
	}

	// Nesting is path concatenation all the way down.
	sub := doc.Collection("cities")
	if sub.Path != "states/wi/cities" {
		t.Errorf("got subcollection path %q", sub.Path)
	}
	if sub.Doc("madison").Path() != "states/wi/cities/madison" {
		t.Errorf("got nested doc path %q", sub.Doc("madison").Path())
	}
}

func TestClientDoc(t *testing.T) {
	c := NewClient(Config{ProjectID: "p"})

	doc, err := c.Doc("states/wi")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Path() != "states/wi" {
		t.Errorf("got %q", doc.Path())
	}

	// An odd number of segments names a collection, not a document.
	if _, err := c.Doc("states"); fserrors.Code(err) != fserrors.InvalidArgument {
		t.Errorf("got %v, want InvalidArgument", err)
	}
	if _, err := c.Doc("states/wi/cities"); fserrors.Code(err) != fserrors.InvalidArgument {
		t.Errorf("got %v, want InvalidArgument", err)
	}
}

func TestNewDocID(t *testing.T) {
	c := NewClient(Config{ProjectID: "p"})
	coll := c.Collection("c")

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		doc := coll.NewDoc()
		if len(doc.ID) != autoIDLength {
			t.Fatalf("got ID length %d, want %d", len(doc.ID), autoIDLength)
		}
		for _, r := range doc.ID {
			if !strings.ContainsRune(autoIDAlphabet, r) {
				t.Fatalf("ID %q contains %q, outside the alphabet", doc.ID, r)
			}
		}
		if seen[doc.ID] {
			t.Fatalf("duplicate ID %q", doc.ID)
		}
		seen[doc.ID] = true
	}
}

func TestDocumentReferenceLifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	doc := c.Collection("users").Doc("ada")
	if _, err := doc.Set(ctx, map[string]interface{}{"name": "Ada", "age": 36}); err != nil {
		t.Fatal(err)
	}

	snap, err := doc.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !snap.Exists() {
		t.Fatal("snapshot should exist after Set")
	}
	if snap.Data()["name"] != "Ada" || snap.Data()["age"] != int64(36) {
		t.Errorf("got %v", snap.Data())
	}

	if _, err := doc.Update(ctx, map[string]interface{}{"age": 37}); err != nil {
		t.Fatal(err)
	}
	snap, err = doc.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Data()["age"] != int64(37) || snap.Data()["name"] != "Ada" {
		t.Errorf("after update: got %v", snap.Data())
	}

	if _, err := doc.Delete(ctx); err != nil {
		t.Fatal(err)
	}
	snap, err = doc.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Exists() {
		t.Error("snapshot should not exist after Delete")
	}
	if snap.ID != "ada" {
		t.Errorf("missing snapshot keeps its ID: got %q", snap.ID)
	}
	if snap.Data() != nil {
		t.Errorf("missing snapshot Data: got %v, want nil", snap.Data())
	}
}

func TestSetOverwriteAndMerge(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	doc := c.Collection("cfg").Doc("main")
	if _, err := doc.Set(ctx, map[string]interface{}{"a": 1, "b": 2}); err != nil {
		t.Fatal(err)
	}

	// Plain Set replaces the whole document.
	if _, err := doc.Set(ctx, map[string]interface{}{"a": 10}); err != nil {
		t.Fatal(err)
	}
	snap, err := doc.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, found := snap.Data()["b"]; found {
		t.Errorf("overwrite kept field b: %v", snap.Data())
	}

	// Set with Merge keeps unmentioned top-level fields.
	if _, err := doc.Set(ctx, map[string]interface{}{"a": 1, "b": 2}); err != nil {
		t.Fatal(err)
	}
	if _, err := doc.Set(ctx, map[string]interface{}{"a": 99}, Merge); err != nil {
		t.Fatal(err)
	}
	snap, err = doc.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Data()["a"] != int64(99) || snap.Data()["b"] != int64(2) {
		t.Errorf("merge: got %v", snap.Data())
	}
}

func TestCollectionAddAndQuery(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	coll := c.Collection("items")
	for _, it := range []map[string]interface{}{
		{"name": "apple", "price": 3},
		{"name": "banana", "price": 1},
		{"name": "cherry", "price": 7},
	} {
		ref, _, err := coll.Add(ctx, it)
		if err != nil {
			t.Fatal(err)
		}
		if len(ref.ID) == 0 {
			t.Fatal("Add returned a reference with no ID")
		}
	}

	snap, err := coll.Where("price", ">=", 3).OrderBy("price", Asc).Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	snap.ForEach(func(d *DocumentSnapshot) {
		names = append(names, d.Data()["name"].(string))
	})
	if diff := cmp.Diff([]string{"apple", "cherry"}, names); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	snap, err = coll.Limit(1).OrderBy("price", Desc).Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Size() != 1 || snap.Docs[0].Data()["name"] != "cherry" {
		t.Errorf("limit 1 desc: got %v", snap.Docs)
	}

	snap, err = coll.Where("price", ">", 100).Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !snap.Empty() {
		t.Errorf("got %d docs, want none", snap.Size())
	}
}

func TestCollectionGroupQuery(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	wi := c.Collection("states").Doc("wi").Collection("cities")
	ca := c.Collection("states").Doc("ca").Collection("cities")
	if _, err := wi.Doc("madison").Set(ctx, map[string]interface{}{"pop": 250000}); err != nil {
		t.Fatal(err)
	}
	if _, err := ca.Doc("fresno").Set(ctx, map[string]interface{}{"pop": 540000}); err != nil {
		t.Fatal(err)
	}

	snap, err := c.CollectionGroup("cities").OrderBy("pop", Asc).Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	snap.ForEach(func(d *DocumentSnapshot) { ids = append(ids, d.ID) })
	if diff := cmp.Diff([]string{"madison", "fresno"}, ids); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	snap, err = c.CollectionGroup("cities").Where("pop", ">", 300000).Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Size() != 1 || snap.Docs[0].ID != "fresno" {
		t.Errorf("got %v", snap.Docs)
	}
}

func TestDataTo(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	doc := c.Collection("users").Doc("ada")
	if _, err := doc.Set(ctx, map[string]interface{}{"name": "Ada", "age": 36}); err != nil {
		t.Fatal(err)
	}
	snap, err := doc.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}

	var u struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	if err := snap.DataTo(&u); err != nil {
		t.Fatal(err)
	}
	if u.Name != "Ada" || u.Age != 36 {
		t.Errorf("got %+v", u)
	}

	// A missing document cannot be decoded.
	missing, err := c.Collection("users").Doc("nobody").Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := missing.DataTo(&u); fserrors.Code(err) != fserrors.NotFound {
		t.Errorf("got %v, want NotFound", err)
	}
}
