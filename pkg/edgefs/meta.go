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

import "encoding/binary"

const (
	// shaLen is the width of the digest identifying a chain's owner.
	shaLen = 20

	isUsedOff  = 0
	shaOff     = isUsedOff + 1
	idleLenOff = shaOff + shaLen
	nextIDOff  = idleLenOff + 4
	// metaInfoSize is the packed, fixed size of one MetaInfo record.
	metaInfoSize = nextIDOff + 4
)

// metaPool is a typed view over the meta-pool region of the mapped index:
// chunkNum fixed-size MetaInfo records, addressed purely by arithmetic.
// There is no separate allocation, the array itself is the image.
type metaPool struct {
	buf      []byte
	chunkNum uint32
}

func newMetaPool(mapped []byte, chunkNum uint32) metaPool {
	return metaPool{buf: mapped, chunkNum: chunkNum}
}

// rec returns the byte slice backing the MetaInfo record for id. Callers
// never hold on to it past a mutation elsewhere in the mapping.
func (m metaPool) rec(id uint32) []byte {
	off := uint64(id) * uint64(metaInfoSize)
	return m.buf[off : off+uint64(metaInfoSize)]
}

func (m metaPool) isUsed(id uint32) bool {
	return m.rec(id)[isUsedOff] != 0
}

func (m metaPool) setUsed(id uint32, used bool) {
	r := m.rec(id)
	if used {
		r[isUsedOff] = 1
	} else {
		r[isUsedOff] = 0
	}
}

func (m metaPool) sha(id uint32) []byte {
	r := m.rec(id)
	return r[shaOff : shaOff+shaLen]
}

func (m metaPool) setSHA(id uint32, sha []byte) {
	copy(m.rec(id)[shaOff:shaOff+shaLen], sha)
}

func (m metaPool) idleLen(id uint32) uint32 {
	return binary.LittleEndian.Uint32(m.rec(id)[idleLenOff:])
}

func (m metaPool) setIdleLen(id uint32, v uint32) {
	binary.LittleEndian.PutUint32(m.rec(id)[idleLenOff:], v)
}

func (m metaPool) nextChunkID(id uint32) uint32 {
	return binary.LittleEndian.Uint32(m.rec(id)[nextIDOff:])
}

func (m metaPool) setNextChunkID(id uint32, next uint32) {
	binary.LittleEndian.PutUint32(m.rec(id)[nextIDOff:], next)
}

// shaEqual reports whether chunk id's stored sha equals sha.
func (m metaPool) shaEqual(id uint32, sha []byte) bool {
	rs := m.sha(id)
	if len(rs) != len(sha) {
		return false
	}
	for i := range rs {
		if rs[i] != sha[i] {
			return false
		}
	}
	return true
}
