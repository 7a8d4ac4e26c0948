// Copyright © 2016 Nicholas Ng <nickng@projectfate.org>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"log"
	"os"

	"github.com/nickng/dinephil/protocol"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outfile string // Path to output file
	summary bool   // Print machine summary
)

// cfsmsCmd represents the cfsms command
var cfsmsCmd = &cobra.Command{
	Use:   "cfsms",
	Short: "Export the chopstick protocol as CFSMs",
	Long: `Export the chopstick protocol as CFSMs

One machine models the lock over all chopsticks, and one machine per
philosopher models its acquire / granted / denied / release exchange.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exportCFSMs()
	},
}

func init() {
	cfsmsCmd.Flags().StringVar(&outfile, "output", "", "output CFSM file (default is stdout)")
	cfsmsCmd.Flags().BoolVar(&summary, "summary", false, "print machine summary to stderr")

	RootCmd.AddCommand(cfsmsCmd)
}

func exportCFSMs() {
	n := viper.GetInt("philosophers")
	if n < 2 {
		log.Fatalf("Need at least 2 philosophers, got %d", n)
	}
	sys := protocol.NewCFSMs(n)
	if summary {
		sys.PrintSummary(os.Stderr)
	}
	if outfile == "" {
		sys.WriteTo(os.Stdout)
		return
	}
	f, err := os.Create(outfile)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if _, err := sys.WriteTo(f); err != nil {
		log.Fatal(err)
	}
}
