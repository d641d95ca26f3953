package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hyp3rd/failover"
	"github.com/hyp3rd/failover/internal/cluster"
	"github.com/hyp3rd/failover/pkg/conn"
	"github.com/hyp3rd/failover/pkg/discovery"
	"github.com/hyp3rd/failover/pkg/logging"
	"github.com/hyp3rd/failover/pkg/pool"
	"github.com/hyp3rd/failover/pkg/stats"
)

// Small playground wiring the transport end to end: static discovery, zerolog
// tracing, latency stats, and the management endpoints.
func main() {
	var (
		urls     = flag.String("nodes", "http://127.0.0.1:9200", "comma-separated node base URLs")
		mgmtAddr = flag.String("mgmt", "127.0.0.1:8081", "management HTTP listen address")
		path     = flag.String("path", "/", "request path to probe")
	)

	flag.Parse()

	nodes, err := pool.New(
		strings.Split(*urls, ","),
		func(node *cluster.Node) (failover.Connection, error) {
			return conn.NewHTTP(node.URL, conn.WithTimeout(5*time.Second)), nil
		},
		pool.WithMaxRetries(3),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	collector := stats.NewLatencyCollector()
	logger := logging.NewZerolog(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.TraceLevel))

	transport, err := failover.New(nodes, failover.WithLogger(stats.NewLoggerHook(logger, collector)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Keep membership refreshed from the static seed list; swap in the Redis
	// discoverer to follow a live node set.
	nodes.StartDiscovery(ctx, discovery.NewStatic(strings.Split(*urls, ",")...), 30*time.Second)

	mgmt := failover.NewManagementHTTPServer(*mgmtAddr, failover.WithMgmtStats(collector.Snapshot))

	err = mgmt.Start(ctx, nodes)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("management endpoints at http://" + mgmt.Address())

	// Fire one asynchronous probe and wait for it alongside the signal context.
	fut := transport.Go(ctx, &failover.Request{Method: http.MethodGet, Path: *path})

	resp, err := fut.Wait(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "probe failed:", err)
	} else {
		fmt.Println("probe status:", resp.StatusCode)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = mgmt.Shutdown(shutdownCtx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
