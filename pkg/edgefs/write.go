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
	"github.com/edgefs/edgefs/golibs/errors"
)

// ceilDivU64 returns ceil(a/b) for b > 0.
func ceilDivU64(a, b uint64) uint32 {
	return uint32((a + b - 1) / b)
}

// doWrite resolves name to its bucket, finds the chain tail, allocates as
// many continuation chunks as the payload needs, and appends buf. It
// returns the number of bytes actually durable and, on any failure, an
// error wrapping the specific cause (ErrBadArgs, ErrNoFreeChunk, or
// ErrIoWrite with a WriteReport embedded for a partial write).
func doWrite(r *region, d *dataMgr, name string, buf []byte) (int64, error) {
	if buf == nil {
		return -1, ErrBadArgs
	}
	if len(buf) == 0 {
		return 0, nil
	}

	sha := digest(name)
	bucket := bucketOf(sha[:], r.l.chunkNum)
	tail := findTail(r.meta, bucket, sha[:])

	chunkSize := r.l.chunkSize
	chunkSize64 := uint64(chunkSize)

	var firstWriteLen uint64
	tailWasUsed := r.meta.isUsed(tail)
	tailOwned := tailWasUsed && r.meta.shaEqual(tail, sha[:])
	switch {
	case tailOwned:
		idle := uint64(r.meta.idleLen(tail))
		if uint64(len(buf)) >= idle {
			firstWriteLen = idle
		} else {
			firstWriteLen = uint64(len(buf))
		}
	case tailWasUsed:
		// The bucket's chain belongs to another name (a hash collision,
		// see doc.go). Its tail chunk's payload is left alone; this name's
		// bytes all go to fresh chunks hung off the chain's end.
		firstWriteLen = 0
	default:
		if uint64(len(buf)) >= chunkSize64 {
			firstWriteLen = chunkSize64
		} else {
			firstWriteLen = uint64(len(buf))
		}
	}

	remainLen := uint64(len(buf)) - firstWriteLen
	needChunkNum := ceilDivU64(remainLen, chunkSize64)
	lastChunkWriteLen := remainLen % chunkSize64

	var idleIDs []uint32
	if needChunkNum > 0 {
		want := needChunkNum
		if !tailWasUsed {
			// The unused tail slot is still clear in the bitmap but takes the
			// first write below, so it must not also come back as a continuation.
			want++
		}
		ids, ok := r.bm.generateIdle(want)
		if !ok {
			return -1, ErrNoFreeChunk
		}
		for _, id := range ids {
			if id != tail && uint32(len(idleIDs)) < needChunkNum {
				idleIDs = append(idleIDs, id)
			}
		}
	}

	var realWriteLen uint64

	if firstWriteLen != 0 {
		chunkID := tail
		offset := uint64(chunkID) * chunkSize64
		if tailOwned {
			offset += chunkSize64 - uint64(r.meta.idleLen(tail))
		}
		if !d.write(buf[:firstWriteLen], offset) {
			return int64(realWriteLen), embedWriteFailure(int64(realWriteLen), chunkID)
		}
		realWriteLen += firstWriteLen
		remainLen = uint64(len(buf)) - realWriteLen

		if tailOwned {
			r.meta.setIdleLen(tail, r.meta.idleLen(tail)-uint32(firstWriteLen))
		} else {
			r.bm.insert(chunkID)
			r.meta.setUsed(chunkID, true)
			r.meta.setSHA(chunkID, sha[:])
			r.meta.setIdleLen(chunkID, chunkSize-uint32(firstWriteLen))
			r.meta.setNextChunkID(chunkID, invalidChunkID)
		}
	}

	// link is the chunk whose next pointer gets stamped once the following
	// chunk's payload is durable. Linking only after the data write keeps a
	// failed continuation unreachable: the chain still terminates in INVALID
	// at the last chunk whose payload actually landed.
	link := tail
	for i := uint32(0); i < needChunkNum; i++ {
		writeLen := remainLen
		if writeLen >= chunkSize64 {
			writeLen = chunkSize64
		}
		chunkID := idleIDs[i]
		offset := uint64(chunkID) * chunkSize64

		if !d.write(buf[realWriteLen:realWriteLen+writeLen], offset) {
			return int64(realWriteLen), embedWriteFailure(int64(realWriteLen), chunkID)
		}
		remainLen -= writeLen
		realWriteLen += writeLen

		r.bm.insert(chunkID)
		r.meta.setUsed(chunkID, true)
		r.meta.setSHA(chunkID, sha[:])
		r.meta.setNextChunkID(chunkID, invalidChunkID)

		if i+1 == needChunkNum && lastChunkWriteLen != 0 {
			r.meta.setIdleLen(chunkID, chunkSize-uint32(lastChunkWriteLen))
		} else {
			r.meta.setIdleLen(chunkID, 0)
		}

		r.meta.setNextChunkID(link, chunkID)
		link = chunkID
	}

	return int64(realWriteLen), nil
}

func embedWriteFailure(written int64, failedChunk uint32) error {
	return errors.EmbedObject(WriteReport{WrittenBytes: written, FailedChunkID: failedChunk}, ErrIoWrite)
}
