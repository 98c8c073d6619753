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
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgefs/edgefs/golibs/cast"
	"github.com/edgefs/edgefs/golibs/config"
	"github.com/edgefs/edgefs/pkg/edgefs"
)

// cliFlags mirrors edgefs.Config but with cobra-native (non-pointer) fields,
// since pflag doesn't bind *uint64/*string directly. Whatever the user
// actually passed on the command line is re-applied over the enricher's
// result after the config file/environment layer runs, so flags always win.
var cliFlags struct {
	configFile   string
	diskRootDir  string
	diskCapacity uint64
	usableMemory uint64
	catalogPath  string
}

var rootCmd = &cobra.Command{
	Use:   "edgefsctl",
	Short: "Operate an EdgeFS content-addressed block store image",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cliFlags.configFile, "config", "", "path to a YAML/JSON config file")
	pf.StringVar(&cliFlags.diskRootDir, "disk-root", "", "directory the index and data files live in")
	pf.Uint64Var(&cliFlags.diskCapacity, "disk-capacity", 0, "bytes available for chunk payloads")
	pf.Uint64Var(&cliFlags.usableMemory, "usable-memory", 0, "bytes budgeted for the mapped index region")
	pf.StringVar(&cliFlags.catalogPath, "catalog", "", "path to the optional name catalog (empty = in-memory)")

	rootCmd.AddCommand(initCmd, putCmd, getCmd, statCmd, listCmd)
}

// loadConfig layers a config file (if --config was given), then EDGEFS_*
// environment variables, then whatever flags the user actually set on the
// command line. Flags always win.
func loadConfig(cmd *cobra.Command) (edgefs.Config, error) {
	e := config.NewEnricher(edgefs.DefaultConfig())
	if err := e.LoadFromFile(cliFlags.configFile); err != nil {
		return edgefs.Config{}, fmt.Errorf("could not load config file %s: %w", cliFlags.configFile, err)
	}
	if err := e.ApplyEnvVariables("EDGEFS", "_"); err != nil {
		return edgefs.Config{}, fmt.Errorf("could not apply EDGEFS_* environment variables: %w", err)
	}

	cfg := e.Value()
	flags := cmd.Flags()
	if flags.Changed("disk-root") {
		cfg.DiskRootDir = cast.Ptr(cliFlags.diskRootDir)
	}
	if flags.Changed("disk-capacity") {
		cfg.DiskCapacity = cast.Ptr(cliFlags.diskCapacity)
	}
	if flags.Changed("usable-memory") {
		cfg.UsableMemory = cast.Ptr(cliFlags.usableMemory)
	}
	if flags.Changed("catalog") {
		cfg.CatalogPath = cast.Ptr(cliFlags.catalogPath)
	}
	return cfg, nil
}

// openStore loads the layered config and opens a Store against it,
// attaching the catalog whenever CatalogPath is non-nil.
func openStore(cmd *cobra.Command) (*edgefs.Store, edgefs.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	s, err := edgefs.Open(cfg.SystemInfo(), nil)
	if err != nil {
		return nil, cfg, fmt.Errorf("could not open store: %w", err)
	}
	if cfg.CatalogPath != nil {
		if err := s.AttachCatalog(*cfg.CatalogPath); err != nil {
			_ = s.Close()
			return nil, cfg, err
		}
	}
	return s, cfg, nil
}
