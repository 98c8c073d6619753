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

var statCmd = &cobra.Command{
	Use:   "stat NAME",
	Short: "Report the total bytes written and chunk count for NAME",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		stat, ok := s.Stat(name)
		if !ok {
			return fmt.Errorf("no such name: %s", name)
		}
		fmt.Printf("totalWritten=%d chunkCount=%d\n", stat.TotalWritten, stat.ChunkCount)
		return nil
	},
}
