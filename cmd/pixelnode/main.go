package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hexforge/pixelnode/internal/capture"
	"github.com/hexforge/pixelnode/internal/node"
	"github.com/hexforge/pixelnode/internal/server"
	"github.com/hexforge/pixelnode/internal/shader"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("pixelnode %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("pixelnode - JSON-RPC server for procedural image nodes")
			fmt.Println()
			fmt.Println("Usage: pixelnode [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  PIXELNODE_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println()
			fmt.Println("This server communicates via JSON-RPC 2.0 over stdin/stdout.")
			return
		}
	}

	// Configure logging to stderr (stdout is for the protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("PIXELNODE_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("pixelnode v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		shader.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		log.Printf("cameras detected: %v", capture.Probe(0).Indexes())
	}

	registry := node.DefaultRegistry()
	defer registry.Close()

	srv := server.New(registry)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
