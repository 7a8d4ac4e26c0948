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

	"github.com/nickng/dinephil/fairness"
	"github.com/nickng/dinephil/webservice"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Run the table behind an HTTP webservice",
	Long: `Run the table behind an HTTP webservice.

The current state is served as HTML (/), JSON (/state) and Graphviz (/dot).
The protocol CFSMs are at /cfsm, the fairness report so far at /fairness,
and every event is streamed as JSON on the /events websocket.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		Serve()
	},
}

var (
	addr string // Listen interface.
	port string // Listen port.
)

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&addr, "bind", "127.0.0.1", "Bind address. Defaults to 127.0.0.1.")
	serveCmd.Flags().StringVar(&port, "port", "6060", "Listen port. Defaults to 6060.")
}

// Serve starts the table and the HTTP server.
func Serve() {
	l := newLogWriter()
	defer l.Cleanup()

	cfg := tableConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	hub := webservice.NewHub()
	fair := fairness.NewAccumulator(cfg.Philosophers)
	s := newSession(l, false, false, hub, fair)
	server := webservice.NewServer(addr, port, s.Table.Size(), s.Snapshot, fair, hub)
	server.Logger = l.Logger("webservice: ")

	ctx, cancel := runContext(0)
	defer cancel()
	if err := s.Table.Start(ctx); err != nil {
		log.Fatal(err)
	}
	go func() {
		<-ctx.Done()
		server.Close()
	}()
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
	cancel()
	s.Table.Wait()
	if ctx.Err() == context.Canceled {
		server.Logger.Println("Shut down")
	}
}
