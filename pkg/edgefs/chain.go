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

// findTail walks the chain rooted at head and returns the id of the tail
// node: the first unused node encountered (the bucket is empty, or, though
// this can't happen for a well-formed chain, the walk ran into a free
// slot), otherwise the last node along the chain whose sha matches,
// scanning up to the INVALID terminator.
//
// If the bucket is occupied by a chain belonging to a different sha (a
// hash collision, see doc.go), this still walks to the end of that chain
// and returns its last node: the new file's chunks get appended onto the
// colliding chain rather than starting one of their own. That is the
// documented, unfixed behavior of this format.
func findTail(meta metaPool, head uint32, sha []byte) uint32 {
	var tail uint32
	tailSet := false
	cur := head
	for {
		if !meta.isUsed(cur) {
			return cur
		}
		if meta.shaEqual(cur, sha) {
			tail = cur
			tailSet = true
		}
		next := meta.nextChunkID(cur)
		if next == invalidChunkID {
			break
		}
		cur = next
	}
	if !tailSet {
		// Every node visited belonged to a different sha (collision chain
		// with no nodes of our own yet); extend it from its end anyway.
		return cur
	}
	return tail
}

// gatherChunks walks the chain rooted at head and collects the ids of the
// nodes whose sha matches, in chain order, along with the cumulative bytes
// written across them and the byte count held in the last matching node.
func gatherChunks(meta metaPool, head uint32, sha []byte, chunkSize uint32) (ids []uint32, totalWritten uint64, lastChunkWritten uint32) {
	if !meta.isUsed(head) {
		return nil, 0, 0
	}
	cur := head
	for {
		if meta.shaEqual(cur, sha) {
			ids = append(ids, cur)
			lastChunkWritten = chunkSize - meta.idleLen(cur)
			totalWritten += uint64(lastChunkWritten)
		}
		next := meta.nextChunkID(cur)
		if next == invalidChunkID {
			break
		}
		cur = next
	}
	return ids, totalWritten, lastChunkWritten
}
