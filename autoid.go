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
	crand "crypto/rand"
	"fmt"
)

const (
	autoIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	autoIDLength   = 20
)

// autoID returns a 20-character random identifier, each character drawn
// uniformly from the 62-character alphanumeric alphabet. Enough entropy
// to make client-side collisions negligible, but uniqueness is ultimately
// the store's to enforce.
func autoID() string {
	id := make([]byte, autoIDLength)
	buf := make([]byte, 1)
	for i := 0; i < autoIDLength; {
		if _, err := crand.Read(buf); err != nil {
			panic(fmt.Sprintf("firestore: reading random bytes: %v", err))
		}
		// Reject bytes beyond the largest multiple of 62 to keep the
		// per-character distribution uniform.
		if buf[0] >= 62*4 {
			continue
		}
		id[i] = autoIDAlphabet[int(buf[0])%len(autoIDAlphabet)]
		i++
	}
	return string(id)
}
