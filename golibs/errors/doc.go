// Copyright 2023 The acquirecloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
/*
Package errors contains a very general class of errors that EdgeFS and its
callers may use. The globally defined error variables describe situations
that the store's API surfaces as -1/false return values per the wire
contract, while still letting Go callers test the underlying cause with
errors.Is.

The package also lets a caller embed an arbitrary value (for example, a
partial-write report) into one of these sentinel errors and extract it back
out, without growing the error type hierarchy.
*/
package errors
