// Copyright 2023 The acquirecloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// jsonErrorMarker delimits the JSON payload embedded into an error's message.
// It is chosen to be vanishingly unlikely to appear in a formatted error string.
const jsonErrorMarker = " ~J~ "

// EmbedObject wraps err (usually one of the sentinel errors in this package) with a
// JSON-encoded copy of obj. The result still satisfies Is(result, err) because it wraps
// err with %w. Use ExtractObject to recover obj on the receiving side.
//
// Panics if obj or err is nil, if obj cannot be marshaled to JSON, or if err already
// carries an embedded object.
func EmbedObject(obj interface{}, err error) error {
	if obj == nil {
		panic("EmbedObject: obj must not be nil")
	}
	if err == nil {
		panic("EmbedObject: err must not be nil")
	}
	if strings.Contains(err.Error(), jsonErrorMarker) {
		panic("EmbedObject: err already carries an embedded object")
	}
	data, mErr := json.Marshal(obj)
	if mErr != nil {
		panic(fmt.Sprintf("EmbedObject: could not marshal object: %v", mErr))
	}
	return fmt.Errorf("%w%s%s%s", err, jsonErrorMarker, data, jsonErrorMarker)
}

// ExtractObject looks for a JSON payload embedded by EmbedObject in err's message and,
// if found, unmarshals it into target. It returns false if err is nil, carries no
// embedded payload, or the payload doesn't unmarshal into target.
func ExtractObject(err error, target interface{}) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	start := strings.Index(s, jsonErrorMarker)
	if start < 0 {
		return false
	}
	rest := s[start+len(jsonErrorMarker):]
	end := strings.Index(rest, jsonErrorMarker)
	if end < 0 {
		return false
	}
	payload := rest[:end]
	return json.Unmarshal([]byte(payload), target) == nil
}
