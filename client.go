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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nabettu/firebase-rest-firestore/internal/gcerr"
	ilog "github.com/nabettu/firebase-rest-firestore/internal/log"
	"github.com/nabettu/firebase-rest-firestore/internal/oc"
	"github.com/nabettu/firebase-rest-firestore/internal/useragent"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const pkgName = "github.com/nabettu/firebase-rest-firestore"

var (
	latencyMeasure = oc.LatencyMeasure(pkgName)

	// OpenCensusViews are predefined views for OpenCensus metrics.
	// The views include counts and latency distributions for API method calls.
	OpenCensusViews = oc.Views(pkgName, latencyMeasure)
)

// tokenCacheDuration is how long a fetched token is reused. It is
// deliberately shorter than the token's real one-hour lifetime so a
// cached token cannot expire mid-request.
const tokenCacheDuration = 50 * time.Minute

// A Client performs document operations against the Firestore REST API.
//
// A Client is safe for concurrent use. Concurrent operations share only
// the cached bearer token; a burst of calls observing a stale token may
// each refresh it independently.
type Client struct {
	cfg    Config
	hc     *http.Client
	ts     oauth2.TokenSource
	paths  pathBuilder
	tracer *oc.Tracer
	logger *zap.SugaredLogger

	checkOnce sync.Once
	checkErr  error

	mu          sync.Mutex
	cachedToken string
	tokenExpiry time.Time
}

// NewClient returns a Client for cfg. The configuration is not validated
// here; validation runs at the start of the first operation.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:    cfg,
		paths:  newPathBuilder(cfg),
		logger: ilog.Logger,
		tracer: &oc.Tracer{
			Package:        pkgName,
			Provider:       pkgName,
			LatencyMeasure: latencyMeasure,
		},
	}
	for _, o := range opts {
		o(c)
	}
	if c.hc == nil {
		c.hc = http.DefaultClient
	}
	c.hc = useragent.HTTPClient(c.hc)
	return c
}

// Close releases resources associated with the client. It exists for
// symmetry with heavier clients; the REST client holds none.
func (c *Client) Close() error { return nil }

// checkConfig runs lazy one-time configuration validation.
func (c *Client) checkConfig() error {
	c.checkOnce.Do(func() {
		c.checkErr = c.cfg.validate(c.ts != nil)
	})
	return c.checkErr
}

// getToken returns a bearer token for the configured credential,
// reusing the cached one until its soft expiry. Emulator mode skips
// acquisition entirely; the emulator accepts a fixed placeholder.
func (c *Client) getToken(ctx context.Context) (string, error) {
	if c.cfg.Emulator {
		return emulatorToken, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cachedToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.cachedToken, nil
	}
	if c.ts == nil {
		c.ts = TokenSource(context.Background(), c.cfg)
	}
	tok, err := c.ts.Token()
	if err != nil {
		return "", gcerr.Newf(gcerr.PermissionDenied, err, "firestore: obtaining bearer token")
	}
	expiry := time.Now().Add(tokenCacheDuration)
	if !tok.Expiry.IsZero() {
		// Stay well short of the real expiry to tolerate clock skew
		// and in-flight latency.
		if hard := tok.Expiry.Add(-5 * time.Minute); hard.Before(expiry) {
			expiry = hard
		}
	}
	c.cachedToken = tok.AccessToken
	c.tokenExpiry = expiry
	return c.cachedToken, nil
}

// do issues one HTTP call and returns the status code and response body.
// It does not interpret the status; callers decide what is an error.
func (c *Client) do(ctx context.Context, method, url string, body interface{}) (int, []byte, error) {
	if err := c.checkConfig(); err != nil {
		return 0, nil, err
	}
	token, err := c.getToken(ctx)
	if err != nil {
		return 0, nil, err
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, gcerr.Newf(gcerr.InvalidArgument, err, "firestore: encoding request body")
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return 0, nil, gcerr.Newf(gcerr.InvalidArgument, err, "firestore: building request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	var reqID string
	if c.cfg.Debug {
		reqID = uuid.New().String()
		c.logger.Debugw("firestore request", "id", reqID, "method", method, "url", url)
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, gcerr.Newf(gcerr.Unknown, err, "firestore: %s %s", method, url)
	}
	defer res.Body.Close()
	rb, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, gcerr.Newf(gcerr.Unknown, err, "firestore: reading response body")
	}
	if c.cfg.Debug {
		c.logger.Debugw("firestore response", "id", reqID, "status", res.StatusCode, "bytes", len(rb))
	}
	return res.StatusCode, rb, nil
}

// apiError converts a non-2xx response into a coded error carrying the
// status and raw body. No finer classification is attempted.
func apiError(method, url string, status int, body []byte) error {
	return gcerr.Newf(gcerr.HTTPCode(status), nil, "firestore: %s %s: status %d: %s",
		method, url, status, strings.TrimSpace(string(body)))
}

func statusOK(status int) bool { return status >= 200 && status < 300 }

// Add creates a document in the collection at collectionPath with a
// store-assigned ID and returns the decoded created document, including
// its new "id" field.
func (c *Client) Add(ctx context.Context, collectionPath string, data map[string]interface{}) (_ map[string]interface{}, err error) {
	ctx = c.tracer.Start(ctx, "Add")
	defer func() { c.tracer.End(ctx, err) }()

	url := c.paths.collectionPath(collectionPath)
	status, body, err := c.do(ctx, http.MethodPost, url, EncodeDocument(data))
	if err != nil {
		return nil, err
	}
	if !statusOK(status) {
		return nil, apiError(http.MethodPost, url, status, body)
	}
	return decodeDocumentBody(body)
}

// Get reads a document. A missing document is not an error: Get returns
// a nil map and a nil error.
func (c *Client) Get(ctx context.Context, collectionPath, documentID string) (_ map[string]interface{}, err error) {
	ctx = c.tracer.Start(ctx, "Get")
	defer func() { c.tracer.End(ctx, err) }()
	return c.getDocument(ctx, collectionPath, documentID)
}

// getDocument is Get without tracing, for internal reads.
func (c *Client) getDocument(ctx context.Context, collectionPath, documentID string) (map[string]interface{}, error) {
	url := c.paths.documentPath(c.paths.collectionPath(collectionPath), documentID)
	status, body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if !statusOK(status) {
		return nil, apiError(http.MethodGet, url, status, body)
	}
	return decodeDocumentBody(body)
}

// Update merges data onto the document and writes the result back.
//
// The merge reads the existing document first. Dot-delimited keys in
// data address nested paths inside it, creating intermediate maps as
// needed; remaining keys merge shallowly. If the document does not
// exist, data is written as-is. This read-modify-write compensates for
// the protocol's PATCH being field replacement rather than deep merge;
// a concurrent writer between the read and the write is not detected.
func (c *Client) Update(ctx context.Context, collectionPath, documentID string, data map[string]interface{}) (_ map[string]interface{}, err error) {
	ctx = c.tracer.Start(ctx, "Update")
	defer func() { c.tracer.End(ctx, err) }()

	existing, err := c.getDocument(ctx, collectionPath, documentID)
	if err != nil {
		return nil, err
	}
	merged := data
	if existing != nil {
		delete(existing, "id")
		merged, err = mergeUpdate(existing, data)
		if err != nil {
			return nil, err
		}
	}
	return c.patchDocument(ctx, collectionPath, documentID, merged)
}

// CreateWithID writes a document at a caller-chosen ID. The underlying
// PATCH upserts, so it also overwrites an existing document wholesale.
func (c *Client) CreateWithID(ctx context.Context, collectionPath, documentID string, data map[string]interface{}) (_ map[string]interface{}, err error) {
	ctx = c.tracer.Start(ctx, "CreateWithID")
	defer func() { c.tracer.End(ctx, err) }()
	return c.patchDocument(ctx, collectionPath, documentID, data)
}

func (c *Client) patchDocument(ctx context.Context, collectionPath, documentID string, data map[string]interface{}) (map[string]interface{}, error) {
	url := c.paths.documentPath(c.paths.collectionPath(collectionPath), documentID)
	status, body, err := c.do(ctx, http.MethodPatch, url, EncodeDocument(data))
	if err != nil {
		return nil, err
	}
	if !statusOK(status) {
		return nil, apiError(http.MethodPatch, url, status, body)
	}
	return decodeDocumentBody(body)
}

// Delete removes a document. Deleting a document that is already gone
// succeeds.
func (c *Client) Delete(ctx context.Context, collectionPath, documentID string) (err error) {
	ctx = c.tracer.Start(ctx, "Delete")
	defer func() { c.tracer.End(ctx, err) }()

	url := c.paths.documentPath(c.paths.collectionPath(collectionPath), documentID)
	status, body, err := c.do(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	if !statusOK(status) && status != http.StatusNotFound {
		return apiError(http.MethodDelete, url, status, body)
	}
	return nil
}

// RunQuery compiles opts into a structured query against the collection
// at path and returns the decoded matches. allDescendants widens the
// query to every collection with the same ID at any depth; path is then
// a bare collection ID.
func (c *Client) RunQuery(ctx context.Context, path string, opts QueryOptions, allDescendants bool) (_ []map[string]interface{}, err error) {
	ctx = c.tracer.Start(ctx, "RunQuery")
	defer func() { c.tracer.End(ctx, err) }()

	url, collectionID := c.paths.queryPath(path)
	req := runQueryRequest{StructuredQuery: compileQuery(collectionID, opts, allDescendants)}
	status, body, err := c.do(ctx, http.MethodPost, url, req)
	if err != nil {
		return nil, err
	}
	if !statusOK(status) {
		return nil, apiError(http.MethodPost, url, status, body)
	}
	var results []runQueryResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, gcerr.Newf(gcerr.Internal, err, "firestore: decoding query response")
	}
	var docs []map[string]interface{}
	for _, r := range results {
		// Slots without a document are progress markers.
		if r.Document == nil {
			continue
		}
		docs = append(docs, DecodeDocument(r.Document))
	}
	return docs, nil
}

func decodeDocumentBody(body []byte) (map[string]interface{}, error) {
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, gcerr.Newf(gcerr.Internal, err, "firestore: decoding document response")
	}
	return DecodeDocument(&doc), nil
}

// mergeUpdate merges updates onto existing. Dot-delimited keys address
// nested paths; all other keys replace at the top level.
func mergeUpdate(existing, updates map[string]interface{}) (map[string]interface{}, error) {
	merged := make(map[string]interface{}, len(existing)+len(updates))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range updates {
		if !strings.Contains(k, ".") {
			merged[k] = v
			continue
		}
		if err := setAtFieldPath(merged, strings.Split(k, "."), v); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// setAtFieldPath sets m's value at fp to val, creating intermediate maps
// as needed. It returns an error if a non-final component of fp denotes
// a value that is not a map.
func setAtFieldPath(m map[string]interface{}, fp []string, val interface{}) error {
	m2, err := getParentMap(m, fp)
	if err != nil {
		return err
	}
	m2[fp[len(fp)-1]] = val
	return nil
}

// getParentMap returns the map that directly contains the given field
// path; that is, the value of m at the field path that excludes the last
// component of fp. Missing intermediates are created.
func getParentMap(m map[string]interface{}, fp []string) (map[string]interface{}, error) {
	for _, k := range fp[:len(fp)-1] {
		if m[k] == nil {
			m[k] = map[string]interface{}{}
		}
		mv, ok := m[k].(map[string]interface{})
		if !ok {
			return nil, gcerr.Newf(gcerr.InvalidArgument, nil, "invalid field path %q at %q", strings.Join(fp, "."), k)
		}
		m = mv
	}
	return m, nil
}
