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
package files

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureDirExists(t *testing.T) {
	dir, err := ioutil.TempDir("", "test")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	sub := filepath.Join(dir, "aaa", "bbb")
	assert.False(t, FileExists(sub))
	assert.Nil(t, EnsureDirExists(sub))
	fi, err := os.Stat(sub)
	assert.Nil(t, err)
	assert.True(t, fi.IsDir())

	// calling it again on an existing dir must be a no-op
	assert.Nil(t, EnsureDirExists(sub))
}

func TestFileExists(t *testing.T) {
	dir, err := ioutil.TempDir("", "test")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	fn := filepath.Join(dir, "f1")
	assert.False(t, FileExists(fn))
	assert.Nil(t, os.WriteFile(fn, []byte("data"), 0640))
	assert.True(t, FileExists(fn))
	assert.False(t, FileExists(dir))
}
