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
)

var listPrefix string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List names recorded in the optional catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		c := s.Catalog()
		if c == nil {
			return fmt.Errorf("no catalog attached")
		}

		entries, err := c.List(listPrefix)
		if err != nil {
			return fmt.Errorf("could not list catalog entries: %w", err)
		}
		for _, e := range entries {
			fmt.Printf("%s\tsize=%d\tbucket=%d\n", e.Name, e.Size, e.Bucket)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listPrefix, "prefix", "", "only list names with this prefix")
}
