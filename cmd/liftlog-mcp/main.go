// Command liftlog-mcp serves the LiftLog MCP tools over stdio, reading data
// from a remote LiftLog server's REST API.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	liftmcp "github.com/claude/liftlog/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	baseURL := flag.String("url", os.Getenv("LIFTLOG_URL"), "base URL of the LiftLog server (e.g. http://liftlog)")
	flag.Parse()

	// stdout carries the protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *baseURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-mcp -url http://liftlog\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := liftmcp.New(liftmcp.NewHTTPClient(*baseURL), Version, log)
	log.Info("serving MCP over stdio", "url", *baseURL)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("stdio server failed", "error", err)
		os.Exit(1)
	}
}
