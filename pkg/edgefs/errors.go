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

import (
	"fmt"

	"github.com/edgefs/edgefs/golibs/errors"
)

// The sentinel errors below name the failure categories the original
// implementation reports as distinct init-failure/runtime-failure cases.
// Each wraps one of golibs/errors' general sentinels so callers can test
// either the specific cause or the broad category with errors.Is.
var (
	// ErrInitMemory means the configured memory budget is below the floor
	// needed for a header plus a single MetaInfo record.
	ErrInitMemory = fmt.Errorf("usable memory budget too small: %w", errors.ErrInvalid)
	// ErrInitSizing means the deterministic sizing computation produced a
	// zero or out-of-budget chunk_num/chunk_size/bitmap_size/disk_size/mmap_size.
	ErrInitSizing = fmt.Errorf("could not compute a valid chunk layout: %w", errors.ErrInvalid)
	// ErrInitMmap means opening, sizing or mapping the index file, or opening
	// or sizing the data file, failed.
	ErrInitMmap = fmt.Errorf("could not map the index file: %w", errors.ErrInternal)
	// ErrInitHeaderMismatch means an existing index file's header does not
	// match the parameters recomputed for the current SystemInfo.
	ErrInitHeaderMismatch = fmt.Errorf("existing index header does not match the requested layout: %w", errors.ErrInternal)
	// ErrNoFreeChunk means the bitmap allocator could not satisfy a request
	// for N free chunk ids.
	ErrNoFreeChunk = fmt.Errorf("no free chunks left: %w", errors.ErrExhausted)
	// ErrIoWrite means a positional write against the data file failed.
	ErrIoWrite = fmt.Errorf("data file write failed: %w", errors.ErrInternal)
	// ErrIoRead means a positional read against the data file failed.
	ErrIoRead = fmt.Errorf("data file read failed: %w", errors.ErrInternal)
	// ErrNotFound means no chunk carrying the name's sha is reachable from
	// the name's bucket (the bucket may hold another name's chain).
	ErrNotFound = fmt.Errorf("no such name: %w", errors.ErrNotExist)
	// ErrBadOffset means a read's offset exceeds the chain's total written length.
	ErrBadOffset = fmt.Errorf("offset exceeds the written length: %w", errors.ErrInvalid)
	// ErrBadArgs means a required buffer argument was nil.
	ErrBadArgs = fmt.Errorf("bad arguments: %w", errors.ErrInvalid)
)

// WriteReport is embedded into ErrIoWrite via golibs/errors.EmbedObject when a
// Write call stops partway through. Callers that need to know exactly where
// the write stopped (rather than just how many bytes made it) can recover it
// with errors.ExtractObject.
type WriteReport struct {
	// WrittenBytes is the number of payload bytes successfully durable before the failure.
	WrittenBytes int64 `json:"writtenBytes"`
	// FailedChunkID is the chunk id whose write call returned the failure.
	FailedChunkID uint32 `json:"failedChunkId"`
}
