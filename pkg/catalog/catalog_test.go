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
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_PutGet(t *testing.T) {
	c, err := Open("")
	assert.Nil(t, err)
	defer c.Close()

	sha := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	e := Entry{Name: "foo.txt", Size: 42, Bucket: 7, UpdatedAtUnix: 1000}
	assert.Nil(t, c.Put(sha, e))

	got, ok, err := c.Get(sha)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, e, got)
}

func TestCatalog_GetMissing(t *testing.T) {
	c, err := Open("")
	assert.Nil(t, err)
	defer c.Close()

	_, ok, err := c.Get([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestCatalog_Put_Overwrites(t *testing.T) {
	c, err := Open("")
	assert.Nil(t, err)
	defer c.Close()

	sha := []byte{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	assert.Nil(t, c.Put(sha, Entry{Name: "a", Size: 1, Bucket: 0, UpdatedAtUnix: 1}))
	assert.Nil(t, c.Put(sha, Entry{Name: "a", Size: 2, Bucket: 0, UpdatedAtUnix: 2}))

	got, ok, err := c.Get(sha)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), got.Size)
}

func TestCatalog_List(t *testing.T) {
	c, err := Open("")
	assert.Nil(t, err)
	defer c.Close()

	shaA := []byte{0xAA, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	shaB := []byte{0xBB, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	assert.Nil(t, c.Put(shaA, Entry{Name: "beta", Size: 10, Bucket: 1, UpdatedAtUnix: 1}))
	assert.Nil(t, c.Put(shaB, Entry{Name: "alpha", Size: 20, Bucket: 2, UpdatedAtUnix: 2}))

	entries, err := c.List("")
	assert.Nil(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, "beta", entries[1].Name)

	filtered, err := c.List("al")
	assert.Nil(t, err)
	assert.Len(t, filtered, 1)
	assert.Equal(t, "alpha", filtered[0].Name)
}
