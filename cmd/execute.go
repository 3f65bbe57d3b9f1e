// Package cmd contains the command-line entry points for the Ragger server.
//
// Following the pattern used by standard Go CLI tools, all application logic
// lives here, leaving main.go as a minimal entry point.
package cmd

import (
	"fmt"
	"os"
)

// Execute is the main entry point for the ragger binary.
// It handles flag parsing and command routing.
func Execute() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			return printVersionInfo()
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "serve":
			return runServe()
		default:
			printHelp()
			return fmt.Errorf("unknown command %q", os.Args[1])
		}
	}

	// Serving is the default behavior.
	return runServe()
}

// checkRequiredEnv verifies that required environment variables are set.
// GEMINI_API_KEY is read directly by the Genkit Google AI plugin.
func checkRequiredEnv() error {
	if os.Getenv("GEMINI_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY environment variable not set")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ragger requires a Gemini API key to embed and answer.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "To set your API key:")
		fmt.Fprintln(os.Stderr, "  export GEMINI_API_KEY=your-api-key")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Get your API key at: https://ai.google.dev/")

		return fmt.Errorf("GEMINI_API_KEY not set")
	}
	return nil
}

// printHelp displays the help message.
func printHelp() {
	fmt.Println("Ragger - index documents and chat with grounded answers")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ragger             Start the HTTP API server (default)")
	fmt.Println("  ragger serve       Start the HTTP API server")
	fmt.Println("  ragger --version   Show version information")
	fmt.Println("  ragger --help      Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEMINI_API_KEY     Required: Gemini API key")
	fmt.Println("  JWT_SECRET         Required: token signing secret")
	fmt.Println("  QDRANT_URL         Vector index URL (default http://localhost:6333)")
	fmt.Println("  QDRANT_API_KEY     Optional: vector index API key")
	fmt.Println("  RAGGER_LISTEN_ADDR Listen address (default :8080)")
	fmt.Println("  RAGGER_LOG_LEVEL   Log level (default info)")
}
