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
	"fmt"
	"strings"

	"github.com/nabettu/firebase-rest-firestore/internal/gcerr"
)

const (
	// productionHost is the fixed host of the Firestore REST API.
	productionHost = "firestore.googleapis.com"

	// DefaultDatabaseID is the sentinel identifier of a project's default
	// database.
	DefaultDatabaseID = "(default)"
)

// pathBuilder constructs resource URLs for the REST API from a resolved
// configuration. The zero value is not usable; build one with
// newPathBuilder.
type pathBuilder struct {
	projectID    string
	databaseID   string
	emulator     bool
	emulatorHost string // "host:port"
}

func newPathBuilder(cfg Config) pathBuilder {
	db := cfg.DatabaseID
	if db == "" {
		db = DefaultDatabaseID
	}
	host := cfg.EmulatorHost
	if cfg.EmulatorPort != 0 {
		host = fmt.Sprintf("%s:%d", cfg.EmulatorHost, cfg.EmulatorPort)
	}
	return pathBuilder{
		projectID:    cfg.ProjectID,
		databaseID:   db,
		emulator:     cfg.Emulator,
		emulatorHost: host,
	}
}

// basePath returns the URL of the database's documents root:
// {scheme}://{host}/v1/projects/{project}/databases/{database}/documents.
// The emulator is plain HTTP on its configured host and port; production
// is HTTPS on the fixed host.
func (b pathBuilder) basePath() string {
	scheme, host := "https", productionHost
	if b.emulator {
		scheme, host = "http", b.emulatorHost
	}
	return fmt.Sprintf("%s://%s/v1/projects/%s/databases/%s/documents",
		scheme, host, b.projectID, b.databaseID)
}

// collectionPath returns the URL of a collection. Leading and trailing
// slashes on path are ignored.
func (b pathBuilder) collectionPath(path string) string {
	return b.basePath() + "/" + strings.Trim(path, "/")
}

// documentPath returns the URL of a document inside a collection URL. The
// document ID is not escaped; IDs containing slashes are not supported.
func (b pathBuilder) documentPath(collectionPath, documentID string) string {
	return collectionPath + "/" + documentID
}

// queryPath resolves the runQuery endpoint for a collection path and
// returns it along with the ID of the collection being queried. A
// single-segment path targets a top-level collection; a longer path
// queries the last segment under the parent document formed by the
// remaining segments.
func (b pathBuilder) queryPath(path string) (url, collectionID string) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	collectionID = segs[len(segs)-1]
	if len(segs) == 1 {
		return b.basePath() + ":runQuery", collectionID
	}
	parent := strings.Join(segs[:len(segs)-1], "/")
	return b.basePath() + "/" + parent + ":runQuery", collectionID
}

// DocumentID returns the trailing segment of a fully-qualified resource
// name, or "" for an empty name.
func DocumentID(resourceName string) string {
	if resourceName == "" {
		return ""
	}
	segs := strings.Split(resourceName, "/")
	return segs[len(segs)-1]
}

// validateDocumentPath rejects paths whose segment count is not even; a
// document path must alternate collection and document IDs and end on a
// document ID.
func validateDocumentPath(path string) error {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs)%2 != 0 || segs[0] == "" {
		return gcerr.Newf(gcerr.InvalidArgument, nil, "invalid document path %q; must have an even number of segments", path)
	}
	return nil
}
