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

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

// Scope is the OAuth2 scope required by the Firestore REST API.
const Scope = "https://www.googleapis.com/auth/datastore"

// emulatorToken is the placeholder bearer accepted by the emulator,
// which performs no authentication.
const emulatorToken = "owner"

// TokenSource returns the token source used by default for cfg: a
// service-account JWT assertion exchanged at Google's token endpoint.
// Token issuance itself (signing, the endpoint) is oauth2's business;
// the client only consumes the opaque bearer tokens it yields.
func TokenSource(ctx context.Context, cfg Config) oauth2.TokenSource {
	c := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{Scope},
		TokenURL:   google.JWTTokenURL,
	}
	return c.TokenSource(ctx)
}
