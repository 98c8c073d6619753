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
package edgefs

import "github.com/edgefs/edgefs/golibs/cast"

// Config is the file/environment-loadable shape of SystemInfo. Pointer
// fields distinguish "not set" from "set to zero" so golibs/config's
// Enricher only overwrites what a file or environment variable actually
// provided, leaving CLI flag defaults (applied afterwards) alone.
type Config struct {
	// DiskRootDir is the directory the index and data files live in.
	DiskRootDir *string `json:"diskRootDir"`
	// DiskCapacity is the number of bytes available for chunk payloads.
	DiskCapacity *uint64 `json:"diskCapacity"`
	// UsableMemory bounds the size of the memory-mapped index region.
	UsableMemory *uint64 `json:"usableMemory"`
	// CatalogPath, if set, is the file an attached Catalog persists to.
	// An empty string (as opposed to an unset pointer) requests an
	// in-memory catalog.
	CatalogPath *string `json:"catalogPath"`
}

// DefaultConfig returns a Config with DiskRootDir, DiskCapacity and
// UsableMemory set to their empty/zero values, as the base value an Enricher
// loads a file/environment on top of. These values alone are rejected by
// Open; a file, the environment or flags must supply real ones. CatalogPath is left unset: attaching a catalog is opt-in, and
// a caller that never asked for one should see "no catalog", not an empty
// in-memory one.
func DefaultConfig() Config {
	return Config{
		DiskRootDir:  cast.Ptr(""),
		DiskCapacity: cast.Ptr(uint64(0)),
		UsableMemory: cast.Ptr(uint64(0)),
	}
}

// SystemInfo converts the config into the SystemInfo Store.Open expects.
func (c Config) SystemInfo() SystemInfo {
	return SystemInfo{
		DiskRootDir:  cast.Value(c.DiskRootDir, ""),
		DiskCapacity: cast.Value(c.DiskCapacity, 0),
		UsableMemory: cast.Value(c.UsableMemory, 0),
	}
}
