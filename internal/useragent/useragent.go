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

// Package useragent includes constants and utilities for setting the
// User-Agent on requests to the Firestore REST API.
package useragent

import (
	"net/http"
)

// UserAgent is the User-Agent to set for requests to the service.
const UserAgent = "firebase-rest-firestore/0.1"

// userAgentTransport wraps an http.RoundTripper, adding a User-Agent header
// to each request.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid mutating it.
	newReq := *req
	newReq.Header = make(http.Header)
	for k, vv := range req.Header {
		newReq.Header[k] = vv
	}
	// Append to the User-Agent string to preserve other information.
	ua := req.UserAgent()
	if ua == "" {
		newReq.Header.Set("User-Agent", UserAgent)
	} else {
		newReq.Header.Set("User-Agent", ua+" "+UserAgent)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(&newReq)
}

// HTTPClient wraps client and appends UserAgent to the User-Agent header
// for all requests.
func HTTPClient(client *http.Client) *http.Client {
	c := *client
	c.Transport = &userAgentTransport{base: c.Transport}
	return &c
}
