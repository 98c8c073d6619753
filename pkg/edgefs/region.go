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
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/edgefs/edgefs/golibs/files"
)

// indexFileName and dataFileName are the two files living under a Store's DiskRootDir.
const (
	indexFileName = "edgefs.idx"
	dataFileName  = "edgefs.data"
)

// region owns the memory-mapped index file: the Header, the bitmap, and the
// meta pool, all backed by one MAP_SHARED mapping. It is created fresh (the
// index file doesn't exist yet) or reloaded (validated against an existing
// image), per the sizing computed for the requested SystemInfo.
type region struct {
	f    *os.File
	mm   mmap.MMap
	hdr  header
	bm   bitmap
	meta metaPool
	l    layout
}

// openRegion maps indexPath, truncating/zeroing/stamping it if it doesn't
// already exist, or validating it against l if it does.
func openRegion(indexPath string, l layout) (*region, error) {
	fresh := !files.FileExists(indexPath)

	f, err := os.OpenFile(indexPath, os.O_RDWR|os.O_CREATE, 0640)
	if err != nil {
		return nil, fmt.Errorf("could not open index file %s: %w", indexPath, ErrInitMmap)
	}

	if fresh {
		if err := f.Truncate(int64(l.mmapSize)); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not truncate index file %s to %d bytes: %w", indexPath, l.mmapSize, ErrInitMmap)
		}
	}

	mm, err := mmap.MapRegion(f, int(l.mmapSize), mmap.RDWR, 0, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("could not mmap index file %s (%d bytes): %w", indexPath, l.mmapSize, ErrInitMmap)
	}

	r := &region{f: f, mm: mm, l: l}
	r.hdr = newHeaderView(mm)
	r.bm = newBitmap(mm[headerSize:headerSize+l.bitmapSize], l.chunkNum)
	r.meta = newMetaPool(mm[headerSize+l.bitmapSize:], l.chunkNum)

	if fresh {
		for i := range mm {
			mm[i] = 0
		}
		r.hdr.stamp(l)
		return r, nil
	}

	if !r.hdr.matches(l) {
		mm.Unmap()
		f.Close()
		return nil, fmt.Errorf("index file %s: %w", indexPath, ErrInitHeaderMismatch)
	}
	return r, nil
}

// close unmaps the index region and closes its file descriptor. Best
// effort: errors are returned but there is nothing more the caller can do
// about an unmap/close failure than log it.
func (r *region) close() error {
	if r == nil || r.mm == nil {
		return nil
	}
	err := r.mm.Flush()
	if uerr := r.mm.Unmap(); err == nil {
		err = uerr
	}
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	r.mm = nil
	return err
}
