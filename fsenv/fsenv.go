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

// Package fsenv loads a firestore.Config from environment variables.
// It is a thin loader kept outside the core client so programs that
// configure clients some other way never touch the environment.
package fsenv

import (
	"os"
	"strconv"
	"strings"

	firestore "github.com/nabettu/firebase-rest-firestore"
)

// The environment variables read by FromEnv.
const (
	EnvProjectID    = "FIRESTORE_PROJECT_ID"
	EnvDatabaseID   = "FIRESTORE_DATABASE_ID"
	EnvClientEmail  = "FIREBASE_CLIENT_EMAIL"
	EnvPrivateKey   = "FIREBASE_PRIVATE_KEY"
	EnvEmulatorHost = "FIRESTORE_EMULATOR_HOST"
	EnvDebug        = "FIRESTORE_DEBUG"
)

// FromEnv builds a Config from the environment. Missing variables leave
// the corresponding fields zero; validation happens on first use of the
// client, not here.
//
// FIRESTORE_EMULATOR_HOST, when set to "host:port", switches the client
// to the emulator, matching the variable the official tooling uses.
// FIREBASE_PRIVATE_KEY may carry literal "\n" sequences (common when
// keys are stored in single-line environment entries); they are replaced
// with newlines.
func FromEnv() firestore.Config {
	cfg := firestore.Config{
		ProjectID:   os.Getenv(EnvProjectID),
		DatabaseID:  os.Getenv(EnvDatabaseID),
		ClientEmail: os.Getenv(EnvClientEmail),
		PrivateKey:  strings.ReplaceAll(os.Getenv(EnvPrivateKey), `\n`, "\n"),
	}
	if host := os.Getenv(EnvEmulatorHost); host != "" {
		cfg.Emulator = true
		cfg.EmulatorHost = host
	}
	if d := os.Getenv(EnvDebug); d != "" {
		debug, err := strconv.ParseBool(d)
		cfg.Debug = err == nil && debug
	}
	return cfg
}
