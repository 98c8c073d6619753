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
	"crypto/sha1"
	"encoding/binary"

	"github.com/edgefs/edgefs/golibs/cast"
)

// digest returns the 20-byte SHA1 of name, used as the content-address of
// a file's chain. A zero-copy cast avoids allocating a []byte copy of name
// just to feed it to the hash.
func digest(name string) [shaLen]byte {
	return sha1.Sum(cast.StringToByteArray(name))
}

// bucketOf reduces sha to a chunk id in [0, chunkNum) by reading its first
// four bytes as a little-endian u32 and taking it mod chunkNum. This is
// part of the persisted on-disk contract: a reopened image must reproduce
// the same bucket for the same name.
func bucketOf(sha []byte, chunkNum uint32) uint32 {
	return binary.LittleEndian.Uint32(sha[:4]) % chunkNum
}
