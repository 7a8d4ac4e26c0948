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
	"time"

	"github.com/nickng/dinephil/fairness"
	"github.com/nickng/dinephil/trace"
	"github.com/spf13/cobra"
)

var checkDuration time.Duration // How long to observe

// checkfairCmd represents the check-fair command
var checkfairCmd = &cobra.Command{
	Use:   "checkfair",
	Short: "Runs the table and reports starvation",
	Long: `Runs the table and reports starvation

Chopsticks are picked up by polling with no queue, so a philosopher can lose
every race to its neighbours. The table runs for --duration, then every
philosopher's meals, failed attempts and longest wait are reported.
Exits non-zero when the run breaks mutual exclusion.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		check()
	},
}

func init() {
	checkfairCmd.Flags().DurationVar(&checkDuration, "duration", 10*time.Second, "how long to run the table")

	RootCmd.AddCommand(checkfairCmd)
}

func check() {
	l := newLogWriter()
	defer l.Cleanup()

	s := newSession(l, true, false)
	ctx, cancel := runContext(checkDuration)
	defer cancel()
	if err := s.Table.Run(ctx); err != nil {
		log.Fatal(err)
	}

	events := s.Recorder.Events()
	logger := l.Logger("fairness: ")
	fairness.Check(s.Table.Size(), events).Print(logger)
	if err := trace.Verify(s.Table.Size(), events); err != nil {
		logger.Println(err)
		l.Cleanup()
		os.Exit(1)
	}
}
