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

/*
Package edgefs implements an embedded, content-addressed block store.

A fixed-size data file is carved into chunk_num equal-size chunks. A second
file, the index, holds a superblock (Header), a bitmap tracking which chunks
are allocated, and a meta pool: a fixed array of per-chunk records that
doubles as both a hash table (bucket = hash(sha1(name)) mod chunk_num) and
the arena for singly-linked chains of chunks belonging to one file. The
index is memory-mapped MAP_SHARED; all metadata mutation is a direct store
into that mapping, and durability beyond process exit is whatever the OS
write-back gives for free.

The store is single-threaded: Store does not synchronize its own calls, and
the caller must serialize Write/Read/Stat/Close itself.

Two files with colliding bucket hashes are not given independent chains: the
second file's writes simply extend the first chain, and a read for either
name walks whichever nodes carry its own sha. This mirrors a limitation of
the format this package implements and is not fixed here; see write.go.
*/
package edgefs
