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

import "sort"

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// doRead resolves name to its chain, builds an ordered (disk_offset -> len)
// read plan covering [offset, offset+len(buf)) of the logical byte stream,
// and executes the plan in ascending disk_offset order. That order often
// differs from chain order (continuations take the lowest free ids), so each
// entry's bytes are copied to their own logical position in buf.
func doRead(r *region, d *dataMgr, name string, buf []byte, offset uint64) (int64, error) {
	if buf == nil {
		return -1, ErrBadArgs
	}

	sha := digest(name)
	head := bucketOf(sha[:], r.l.chunkNum)
	ids, totalWritten, lastChunkWritten := gatherChunks(r.meta, head, sha[:], r.l.chunkSize)

	if len(ids) == 0 {
		return -1, ErrNotFound
	}
	if offset > totalWritten {
		return -1, ErrBadOffset
	}
	if offset == totalWritten || len(buf) == 0 {
		return 0, nil
	}

	chunkSize64 := uint64(r.l.chunkSize)
	diskOffset := func(id uint32) uint64 { return uint64(id) * chunkSize64 }

	readLen := uint64(len(buf))
	firstIdx := int(offset / chunkSize64)
	skip := offset % chunkSize64

	readInfo := make(map[uint64]uint64)
	// bufPos maps each plan entry's disk offset to where its bytes belong in buf.
	bufPos := make(map[uint64]uint64)

	if firstIdx+1 == len(ids) {
		length := minU64(uint64(lastChunkWritten)-skip, readLen)
		readInfo[diskOffset(ids[firstIdx])+skip] = length
		bufPos[diskOffset(ids[firstIdx])+skip] = 0
	} else {
		length := minU64(chunkSize64-skip, readLen)
		readInfo[diskOffset(ids[firstIdx])+skip] = length
		bufPos[diskOffset(ids[firstIdx])+skip] = 0

		remain := readLen - length
		needChunkNum := ceilDivU64(remain, chunkSize64)
		for i := uint32(0); i < needChunkNum; i++ {
			idx := firstIdx + 1 + int(i)
			if idx >= len(ids) {
				break
			}
			chunkID := ids[idx]
			// Each entry is capped at the bytes still requested, so the
			// plan never sums past len(buf), and at the tail's written
			// bytes when the entry is the chain's last chunk.
			ln := minU64(remain, chunkSize64)
			if idx+1 == len(ids) {
				ln = minU64(ln, chunkSize64-uint64(r.meta.idleLen(chunkID)))
			}
			readInfo[diskOffset(chunkID)] = ln
			bufPos[diskOffset(chunkID)] = readLen - remain
			remain -= ln
		}
	}

	keys := make([]uint64, 0, len(readInfo))
	for k := range readInfo {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var realReadLen uint64
	for _, off := range keys {
		ln := readInfo[off]
		if ln == 0 {
			continue
		}
		pos := bufPos[off]
		if !d.read(buf[pos:pos+ln], off) {
			return int64(realReadLen), ErrIoRead
		}
		realReadLen += ln
	}
	return int64(realReadLen), nil
}
