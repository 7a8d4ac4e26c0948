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
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/nickng/dinephil/logwriter"
	"github.com/nickng/dinephil/observer"
	"github.com/nickng/dinephil/philosopher"
	"github.com/nickng/dinephil/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// addTableFlags registers the table configuration on cmd and binds it to
// viper, so it can also come from the config file or DINEPHIL_* variables.
func addTableFlags(cmd *cobra.Command) {
	def := table.DefaultConfig()
	flags := cmd.PersistentFlags()
	flags.Int("philosophers", def.Philosophers, "number of philosophers (and chopsticks)")
	flags.Duration("think-min", def.Think.Min, "shortest time spent thinking")
	flags.Duration("think-max", def.Think.Max, "longest time spent thinking")
	flags.Duration("eat-min", def.Eat.Min, "shortest time spent eating")
	flags.Duration("eat-max", def.Eat.Max, "longest time spent eating")
	flags.Duration("backoff", def.Backoff, "wait before retrying to pick up chopsticks")
	flags.Int64("seed", 0, "random seed (0 for time based)")

	for _, name := range []string{"philosophers", "think-min", "think-max", "eat-min", "eat-max", "backoff", "seed"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
}

// tableConfig assembles the table configuration from flags, config file and
// environment.
func tableConfig() table.Config {
	return table.Config{
		Philosophers: viper.GetInt("philosophers"),
		Think:        philosopher.Interval{Min: viper.GetDuration("think-min"), Max: viper.GetDuration("think-max")},
		Eat:          philosopher.Interval{Min: viper.GetDuration("eat-min"), Max: viper.GetDuration("eat-max")},
		Backoff:      viper.GetDuration("backoff"),
		Seed:         viper.GetInt64("seed"),
	}
}

// newLogWriter creates the log destination from the persistent flags.
func newLogWriter() *logwriter.Writer {
	l := logwriter.NewFile(viper.GetString("log"), !viper.GetBool("no-logging"), !viper.GetBool("no-colour"))
	if err := l.Create(); err != nil {
		log.Fatal(err)
	}
	return l
}

// session is a table with its observers.
type session struct {
	Table    *table.Table
	Snapshot *observer.Snapshot
	Recorder *observer.Recorder // nil unless recording
	Events   *observer.Logger   // nil unless logging events
}

// newSession creates a table. Extra observers are appended after the built
// in ones.
func newSession(l *logwriter.Writer, record, logEvents bool, extra ...observer.Observer) *session {
	cfg := tableConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	s := &session{Snapshot: observer.NewSnapshot(cfg.Philosophers)}
	obs := []observer.Observer{s.Snapshot}
	if record {
		s.Recorder = observer.NewRecorder()
		obs = append(obs, s.Recorder)
	}
	if logEvents {
		s.Events = observer.NewLogger(l.Logger("dinephil: "))
		obs = append(obs, s.Events)
	}
	obs = append(obs, extra...)

	t, err := table.New(cfg, observer.Multi(obs...))
	if err != nil {
		log.Fatal(err)
	}
	t.Logger = l.Logger("table: ")
	s.Table = t
	return s
}

// runContext is done on interrupt, or after d when d > 0.
func runContext(d time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if d <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	return ctx, func() {
		cancel()
		stop()
	}
}
