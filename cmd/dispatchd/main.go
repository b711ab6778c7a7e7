// cmd/dispatchd/main.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Dispatchd serves the medical-delivery dispatch planner over HTTP,
// planning against fleet data fetched from the Information-Logistics
// Platform configured via the ILP_ENDPOINT environment variable.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/medifly/dispatch/dispatch"
	"github.com/medifly/dispatch/ilp"
	"github.com/medifly/dispatch/log"
	"github.com/medifly/dispatch/server"
)

var addr = flag.String("addr", ":8080", "Address for the HTTP server to listen on")
var logLevel = flag.String("loglevel", "info", "Logging level: debug, info, warn, error")
var logDir = flag.String("logdir", "", "Directory for log files")

func main() {
	flag.Parse()

	lg := log.New(*logLevel, *logDir)

	endpoint := ilp.EndpointFromEnv()
	lg.Info("starting dispatchd", "addr", *addr, "ilp_endpoint", endpoint)

	client := ilp.NewHTTPClient(endpoint, lg)
	planner := dispatch.NewPlanner(client, lg)
	srv := server.New(planner, endpoint, lg)

	fmt.Printf("Launching HTTP server on %s\n", *addr)
	if err := http.ListenAndServe(*addr, srv); err != nil {
		lg.Errorf("HTTP server error: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", *addr, err)
		os.Exit(1)
	}
}
