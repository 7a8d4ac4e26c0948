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

	"github.com/nickng/dinephil/graph"
	"github.com/spf13/cobra"
)

var (
	dotDuration time.Duration // How long to run before the snapshot
	dotOutfile  string        // Path to output file
)

// dotCmd represents the dot command
var dotCmd = &cobra.Command{
	Use:   "dot",
	Short: "Render the table as a Graphviz graph",
	Long: `Render the table as a Graphviz graph

The table runs for --duration, then the state at that instant is written in
DOT format. Philosophers are coloured by state and held chopsticks are red.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		renderDot()
	},
}

func init() {
	dotCmd.Flags().DurationVar(&dotDuration, "duration", 5*time.Second, "run this long before the snapshot")
	dotCmd.Flags().StringVar(&dotOutfile, "output", "", "output dot file (default is stdout)")

	RootCmd.AddCommand(dotCmd)
}

func renderDot() {
	l := newLogWriter()
	defer l.Cleanup()

	s := newSession(l, false, false)
	ctx, cancel := runContext(0)
	defer cancel()
	if err := s.Table.Start(ctx); err != nil {
		log.Fatal(err)
	}
	timer := time.NewTimer(dotDuration)
	select {
	case <-timer.C:
	case <-ctx.Done():
		timer.Stop()
	}
	// Taken while the table still runs, stopping releases every chopstick.
	dot := graph.NewGraphvizDot(s.Snapshot.Table())
	cancel()
	s.Table.Wait()

	if dotOutfile == "" {
		dot.WriteTo(os.Stdout)
		return
	}
	f, err := os.Create(dotOutfile)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if _, err := dot.WriteTo(f); err != nil {
		log.Fatal(err)
	}
}
