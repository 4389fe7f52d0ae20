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

import "github.com/nabettu/firebase-rest-firestore/internal/gcerr"

// Config holds the settings of a Client.
//
// Config is not validated at construction time. Validation runs once, at
// the start of the first operation, so a Client may be built before its
// configuration source (e.g. the environment) is fully populated.
type Config struct {
	// ProjectID is the Google Cloud project. Required.
	ProjectID string

	// DatabaseID is the logical database. Empty means DefaultDatabaseID.
	DatabaseID string

	// ClientEmail and PrivateKey are the service-account credential used
	// to obtain bearer tokens. Required unless Emulator is set or a
	// custom token source is installed with WithTokenSource.
	ClientEmail string
	PrivateKey  string

	// Emulator routes all traffic to the local emulator at
	// EmulatorHost:EmulatorPort over plain HTTP and disables token
	// acquisition. EmulatorHost may already carry a port, in which case
	// EmulatorPort can stay zero.
	Emulator     bool
	EmulatorHost string
	EmulatorPort int

	// Debug turns on request/response logging.
	Debug bool
}

// validate reports whether the configuration is usable. It is called
// lazily by the client, not by NewClient.
func (c Config) validate(haveTokenSource bool) error {
	if c.ProjectID == "" {
		return gcerr.Newf(gcerr.InvalidArgument, nil, "firestore: config missing ProjectID")
	}
	if c.Emulator {
		if c.EmulatorHost == "" {
			return gcerr.Newf(gcerr.InvalidArgument, nil, "firestore: emulator mode requires EmulatorHost")
		}
		return nil
	}
	if !haveTokenSource && (c.ClientEmail == "" || c.PrivateKey == "") {
		return gcerr.Newf(gcerr.InvalidArgument, nil, "firestore: config missing ClientEmail or PrivateKey")
	}
	return nil
}
