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
)

// dataMgr owns the flat data file: chunk_num*chunk_size bytes, chunk i at
// [i*chunk_size, (i+1)*chunk_size). Unlike the index, the data file is not
// memory-mapped; it is accessed through unaligned positional pread/pwrite.
type dataMgr struct {
	f *os.File
}

// openDataMgr opens (creating if needed) the data file at path and ensures
// it is at least size bytes, matching the region's fresh/reload split: on a
// fresh index the data file is freshly sized too, on reload it is expected
// to already have that size.
func openDataMgr(path string, size uint64) (*dataMgr, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0640)
	if err != nil {
		return nil, fmt.Errorf("could not open data file %s: %w", path, ErrInitMmap)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("could not stat data file %s: %w", path, ErrInitMmap)
	}
	if uint64(fi.Size()) < size {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not truncate data file %s to %d bytes: %w", path, size, ErrInitMmap)
		}
	}
	return &dataMgr{f: f}, nil
}

// write stores buf at offset. false indicates the positional write failed
// or was short.
func (d *dataMgr) write(buf []byte, offset uint64) bool {
	n, err := d.f.WriteAt(buf, int64(offset))
	return err == nil && n == len(buf)
}

// read fills buf from offset. false indicates the positional read failed
// or was short.
func (d *dataMgr) read(buf []byte, offset uint64) bool {
	n, err := d.f.ReadAt(buf, int64(offset))
	return err == nil && n == len(buf)
}

func (d *dataMgr) close() error {
	return d.f.Close()
}
