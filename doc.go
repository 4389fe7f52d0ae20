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

/*
Package firestore is a lightweight Firestore client that talks to the
Firestore REST API instead of the native gRPC client, for runtimes where
the heavier official client is impractical.

A Client is built from a Config (or from the environment via the fsenv
package) and exposes both a flat document API (Add, Get, Update, Delete,
RunQuery) and a fluent reference API mirroring the official client's
ergonomics:

	client := firestore.NewClient(cfg)
	snap, err := client.Collection("cities").
		Where("population", ">=", 100000).
		OrderBy("population", firestore.Desc).
		Limit(10).
		Get(ctx)

References are immutable values; each chaining call returns a new query
and nothing touches the network until a terminal Get, Set, Update,
Delete or Add.

Documents are field maps (map[string]interface{}). The codec converts
between Go values and the REST API's tagged value union; see EncodeValue
for the supported types. Reads of missing documents are not errors: a
single-document Get returns a snapshot whose Exists reports false.

Set FIRESTORE_EMULATOR_HOST (or Config.Emulator) to run against the
local emulator, which requires no credentials.

# OpenCensus Integration

OpenCensus supports tracing and metric collection for multiple languages
and backend providers. See https://opencensus.io.

This API collects an OpenCensus trace span per client operation and a
latency metric, tagged by method and status. Register OpenCensusViews to
export the metrics.

Transactions, batched writes, change listeners, field masks and index
management are out of scope.
*/
package firestore
