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

// Package catalog is an optional secondary index over the names stored in an
// edgefs.Store: a buntdb ordered KV mapping hex(sha) -> Entry. It is not
// consulted by Store.Write/Read/Stat and the store's correctness never
// depends on it. It exists only so a caller can ask "what names do I have"
// without a full scan of the meta pool, and can always be rebuilt that way
// if the catalog file is lost.
package catalog

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/buntdb"

	"github.com/edgefs/edgefs/golibs/cast"
	"github.com/edgefs/edgefs/golibs/errors"
	"github.com/edgefs/edgefs/golibs/logging"
)

type (
	// Entry describes the most recent successful write recorded for a name.
	Entry struct {
		// Name is the logical name the bytes were stored under.
		Name string `json:"name"`
		// Size is the total number of bytes stored under Name (across all
		// writes) as of the write that produced this entry.
		Size int64 `json:"size"`
		// Bucket is the meta-pool chunk id the name's chain is rooted at.
		Bucket uint32 `json:"bucket"`
		// UpdatedAtUnix is the unix timestamp (seconds) of the write that produced this entry.
		UpdatedAtUnix int64 `json:"updatedAtUnix"`
	}

	// Catalog is a buntdb-backed ordered index from hex(sha) to Entry.
	Catalog struct {
		db     *buntdb.DB
		logger logging.Logger
	}
)

const keyPrefix = "/names/"

// Open opens (creating if needed) the catalog file at path. An empty path
// opens an in-memory catalog, matching buntdb's own ":memory:" convention.
func Open(path string) (*Catalog, error) {
	log := logging.NewLogger("edgefs.catalog")
	dbPath := path
	if dbPath == "" {
		dbPath = ":memory:"
	}
	log.Infof("opening catalog at %s", dbPath)

	db, err := buntdb.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("buntdb.Open(%s) failed: %w", dbPath, err)
	}
	return &Catalog{db: db, logger: log}, nil
}

// Close closes the underlying buntdb handle.
func (c *Catalog) Close() error {
	c.logger.Infof("closing catalog")
	return c.db.Close()
}

// Put records e under sha's hex encoding. Called by the Store façade after
// every successful Write; never by Write/Read themselves.
func (c *Catalog) Put(sha []byte, e Entry) error {
	key := entryKey(sha)
	val, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("could not marshal catalog entry for %s: %w", e.Name, err)
	}

	tx, err := c.db.Begin(true)
	if err != nil {
		return fmt.Errorf("could not begin catalog write tx: %w", err)
	}
	if _, _, err := tx.Set(key, cast.ByteArrayToString(val), nil); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("tx.Set(%s) failed: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit catalog write tx: %w", err)
	}
	return nil
}

// Get returns the entry recorded for name's sha, if any.
func (c *Catalog) Get(sha []byte) (Entry, bool, error) {
	tx, err := c.db.Begin(false)
	if err != nil {
		return Entry{}, false, fmt.Errorf("could not begin catalog read tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	val, err := tx.Get(entryKey(sha))
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("tx.Get(%x) failed: %w", sha, err)
	}
	var e Entry
	if err := json.Unmarshal(cast.StringToByteArray(val), &e); err != nil {
		return Entry{}, false, fmt.Errorf("could not unmarshal catalog entry for %x: %w", sha, err)
	}
	return e, true, nil
}

// List returns every entry whose name has the given prefix, sorted by name.
// An empty prefix matches everything.
func (c *Catalog) List(prefix string) ([]Entry, error) {
	tx, err := c.db.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("could not begin catalog read tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var entries []Entry
	var iterErr error
	iter := func(key, val string) bool {
		var e Entry
		if err := json.Unmarshal(cast.StringToByteArray(val), &e); err != nil {
			iterErr = fmt.Errorf("could not unmarshal catalog entry at key=%s: %w", key, err)
			return false
		}
		if strings.HasPrefix(e.Name, prefix) {
			entries = append(entries, e)
		}
		return true
	}
	if err := tx.AscendGreaterOrEqual("", keyPrefix, iter); err != nil {
		return nil, fmt.Errorf("iteration failed: %w", err)
	}
	if iterErr != nil {
		return nil, iterErr
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func entryKey(sha []byte) string {
	return keyPrefix + hex.EncodeToString(sha)
}
