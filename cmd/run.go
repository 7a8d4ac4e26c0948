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
	"time"

	"github.com/nickng/dinephil/fairness"
	"github.com/nickng/dinephil/trace"
	"github.com/spf13/cobra"
)

var (
	runDuration time.Duration // How long to run, 0 for ever
	runVerify   bool          // Verify the trace on exit
	runAttempts bool          // Log failed pick-up attempts
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Seat the philosophers and log what they do",
	Long: `Seat the philosophers and log what they do

Every philosopher thinks, gets hungry, tries to pick up both of its chopsticks
and eats. A philosopher who cannot get both chopsticks backs off and tries
again. The table runs until interrupted, or for --duration.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTable()
	},
}

func init() {
	runCmd.Flags().DurationVar(&runDuration, "duration", 0, "stop after this long (default is run until interrupted)")
	runCmd.Flags().BoolVar(&runVerify, "verify", false, "check the recorded run and print a fairness report on exit")
	runCmd.Flags().BoolVar(&runAttempts, "attempts", false, "log failed attempts to pick up chopsticks")

	RootCmd.AddCommand(runCmd)
}

func runTable() {
	l := newLogWriter()
	defer l.Cleanup()

	s := newSession(l, runVerify, true)
	s.Events.Attempts = runAttempts

	ctx, cancel := runContext(runDuration)
	defer cancel()
	start := time.Now()
	if err := s.Table.Run(ctx); err != nil {
		log.Fatal(err)
	}
	s.Table.Logger.Println("Table closed after", time.Since(start))

	if !runVerify {
		return
	}
	events := s.Recorder.Events()
	if err := trace.Verify(s.Table.Size(), events); err != nil {
		s.Table.Logger.Println("Trace check failed:", err)
	} else {
		s.Table.Logger.Printf("Trace check passed (%d events)", len(events))
	}
	fairness.Check(s.Table.Size(), events).Print(l.Logger("fairness: "))
}
