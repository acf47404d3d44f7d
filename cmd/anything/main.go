// anything is a CLI for the httpbin.org "anything" echo endpoint.
//
// It posts a mail address with bearer-token authorization and prints the
// echoed request, or a structured error, as JSON on stdout.
//
// Usage:
//
//	anything <userId> <mailAddress>    Call the endpoint (needs ACCESS_TOKEN)
//	anything schema [request|response] Print or check the contracts
//	anything version                   Show version info
//
// A .env file in the working directory is loaded before the environment is read.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/port402/anything-cli/internal/commands"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	os.Exit(commands.Execute())
}
