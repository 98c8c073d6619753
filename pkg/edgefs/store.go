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
	"path/filepath"
	"time"

	"github.com/edgefs/edgefs/golibs/errors"
	"github.com/edgefs/edgefs/golibs/files"
	"github.com/edgefs/edgefs/golibs/logging"
	"github.com/edgefs/edgefs/pkg/catalog"
)

// Stat reports the shape of a stored chain without reading its payload.
type Stat struct {
	// TotalWritten is the cumulative number of bytes successfully written for the name.
	TotalWritten int64
	// ChunkCount is the number of chunks composing the chain.
	ChunkCount int
}

// Store owns the bitmap, the mmap'd index region, and the data file, and
// exposes the write/read/stat engines as a single handle. It is not safe
// for concurrent use: every method runs to completion synchronously and the
// caller must serialize calls itself.
type Store struct {
	info SystemInfo
	r    *region
	d    *dataMgr
	log  logging.Logger
	cat  *catalog.Catalog
}

// Open runs the sizing/init algorithm for info, then either creates a
// fresh index+data file pair or validates an existing one, and returns a
// ready Store. If log is nil, a default logger named "edgefs.store" is used.
func Open(info SystemInfo, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.NewLogger("edgefs.store")
	}
	log.Infof("opening store at %s, diskCapacity=%d usableMemory=%d", info.DiskRootDir, info.DiskCapacity, info.UsableMemory)

	if err := validateSystemInfo(info); err != nil {
		log.Errorf("rejecting SystemInfo: %v", err)
		return nil, err
	}

	if err := files.EnsureDirExists(info.DiskRootDir); err != nil {
		return nil, fmt.Errorf("could not prepare disk root dir %s: %w", info.DiskRootDir, err)
	}

	l, err := computeLayout(info)
	if err != nil {
		log.Errorf("sizing failed: %v", err)
		return nil, err
	}
	log.Infof("layout chunkNum=%d chunkSize=%d bitmapSize=%d diskSize=%d mmapSize=%d",
		l.chunkNum, l.chunkSize, l.bitmapSize, l.diskSize, l.mmapSize)

	r, err := openRegion(filepath.Join(info.DiskRootDir, indexFileName), l)
	if err != nil {
		log.Errorf("could not open index region: %v", err)
		return nil, err
	}

	d, err := openDataMgr(filepath.Join(info.DiskRootDir, dataFileName), l.diskSize)
	if err != nil {
		r.close()
		log.Errorf("could not open data file: %v", err)
		return nil, err
	}

	return &Store{info: info, r: r, d: d, log: log}, nil
}

// AttachCatalog opens (or creates) the secondary name index at path and
// wires it to this Store so every successful Write of at least one byte
// records an Entry. An
// empty path attaches an in-memory catalog. The catalog is never consulted
// by Write/Read/Stat; losing it does not affect the store's correctness,
// it can be rebuilt by a full scan of the meta pool.
func (s *Store) AttachCatalog(path string) error {
	c, err := catalog.Open(path)
	if err != nil {
		return fmt.Errorf("could not attach catalog at %s: %w", path, err)
	}
	s.cat = c
	return nil
}

// Close flushes and unmaps the index region and closes the data file. It is
// a courtesy on an orderly shutdown path, not a durability guarantee.
func (s *Store) Close() error {
	s.log.Debugf("closing store at %s", s.info.DiskRootDir)
	err := s.d.close()
	if rerr := s.r.close(); err == nil {
		err = rerr
	}
	if s.cat != nil {
		if cerr := s.cat.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Write appends buf to the chain identified by name, allocating
// continuation chunks as needed. It returns the number of bytes actually
// written; see WriteReport for recovering details of a partial write.
func (s *Store) Write(name string, buf []byte) (int64, error) {
	s.log.Debugf("write name=%s len=%d", name, len(buf))
	n, err := doWrite(s.r, s.d, name, buf)
	if err != nil {
		s.log.Warnf("write name=%s failed after %d bytes: %v", name, n, err)
		return n, err
	}
	if s.cat != nil && n > 0 {
		sha := digest(name)
		bucket := bucketOf(sha[:], s.r.l.chunkNum)
		_, total, _ := gatherChunks(s.r.meta, bucket, sha[:], s.r.l.chunkSize)
		entry := catalog.Entry{Name: name, Size: int64(total), Bucket: bucket, UpdatedAtUnix: time.Now().Unix()}
		if cerr := s.cat.Put(sha[:], entry); cerr != nil {
			s.log.Warnf("catalog update for name=%s failed: %v", name, cerr)
		}
	}
	return n, err
}

// Read fills buf starting at offset in the logical byte stream stored
// under name. It returns errors.Is-compatible ErrNotFound/ErrBadOffset for
// the cases the original contract reports as a plain -1.
func (s *Store) Read(name string, buf []byte, offset int64) (int64, error) {
	s.log.Debugf("read name=%s len=%d offset=%d", name, len(buf), offset)
	if offset < 0 {
		return -1, ErrBadArgs
	}
	n, err := doRead(s.r, s.d, name, buf, uint64(offset))
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Warnf("read name=%s failed: %v", name, err)
	}
	return n, err
}

// Stat reports the chain shape for name without reading any payload bytes.
// ok is false if name has no chain.
func (s *Store) Stat(name string) (stat Stat, ok bool) {
	sha := digest(name)
	head := bucketOf(sha[:], s.r.l.chunkNum)
	ids, totalWritten, _ := gatherChunks(s.r.meta, head, sha[:], s.r.l.chunkSize)
	if len(ids) == 0 {
		return Stat{}, false
	}
	return Stat{TotalWritten: int64(totalWritten), ChunkCount: len(ids)}, true
}

// Catalog returns the secondary name index attached via AttachCatalog, or
// nil if none was attached.
func (s *Store) Catalog() *catalog.Catalog {
	return s.cat
}

// Layout reports the sizing computed for this Store's SystemInfo: the
// number of chunks, bytes per chunk, and bitmap size in bytes. Useful for
// an operator CLI reporting what an init call actually produced.
func (s *Store) Layout() (chunkNum, chunkSize, bitmapSize uint32) {
	return s.r.l.chunkNum, s.r.l.chunkSize, s.r.l.bitmapSize
}
