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
	"os"

	"github.com/spf13/cobra"
)

var (
	getOffset int64
	getLength int64
)

var getCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Read NAME's bytes from the store and write them to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		length := getLength
		if length == 0 {
			stat, ok := s.Stat(name)
			if !ok {
				return fmt.Errorf("no such name: %s", name)
			}
			length = stat.TotalWritten - getOffset
		}
		if length < 0 {
			length = 0
		}

		buf := make([]byte, length)
		n, err := s.Read(name, buf, getOffset)
		if err != nil {
			return fmt.Errorf("read %s failed: %w", name, err)
		}
		_, err = os.Stdout.Write(buf[:n])
		return err
	},
}

func init() {
	getCmd.Flags().Int64Var(&getOffset, "offset", 0, "logical offset to start reading at")
	getCmd.Flags().Int64Var(&getLength, "length", 0, "number of bytes to read (0 = to end of stored data)")
}
