// Package commands implements the CLI commands using Cobra.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/port402/anything-cli/internal/output"
)

// Version information (set at build time via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// exitError carries a process exit code out of a command. A nil err means
// the command already reported the failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// cli holds the state shared by one command tree.
type cli struct {
	getenv func(string) string

	verbose    bool
	configPath string

	host     string
	port     int
	insecure bool
	timeout  int
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "anything [flags] [--] <userId> <mailAddress>",
		Short: "Call the httpbin anything endpoint with a bearer token",
		Long: `anything posts a mail address to the httpbin.org "anything" echo endpoint,
authorized with the bearer token in ACCESS_TOKEN, and prints what the
service echoed back as JSON.

On failure a JSON object with errorName, errorMessage, stackTrace and
error is printed instead and the exit status is 1.

A user ID that matches a command name (schema, version, help, completion)
is only read as a user ID after --.

Commands:
  schema      Print or check the request/response contracts
  version     Show version information
  completion  Generate shell completion scripts

Examples:
  # Echo a mail address
  ACCESS_TOKEN=secret anything u1 a@example.com

  # A user ID that is also a command name
  ACCESS_TOKEN=secret anything -- version a@example.com

  # Point at a local echo server
  ACCESS_TOKEN=secret anything --host 127.0.0.1 --port 8080 --insecure u1 a@example.com

  # Load endpoint settings from a file
  ACCESS_TOKEN=secret anything --config anything.yaml u1 a@example.com`,
		Args:          cobra.ArbitraryArgs,
		RunE:          c.runCall,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags available to all commands
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log request details to stderr")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Config file (.yaml, .yml, .json, .jsonc); defaults to $ANYTHING_CONFIG")

	root.Flags().StringVar(&c.host, "host", "", "Override the endpoint host")
	root.Flags().IntVar(&c.port, "port", 0, "Override the endpoint port")
	root.Flags().BoolVar(&c.insecure, "insecure", false, "Use plain HTTP instead of HTTPS")
	root.Flags().IntVar(&c.timeout, "timeout", 0, "Request timeout in seconds (0 waits indefinitely)")

	root.AddCommand(c.schemaCmd(), c.versionCmd(), c.completionCmd())
	return root
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	c := &cli{getenv: getenv}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(stderr, ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, err)
	return 1
}

// Execute runs the root command against the process environment.
func Execute() int {
	return Run(context.Background(), os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
}

func newLogger(w io.Writer, level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: !output.IsTerminal(w),
		FullTimestamp: true,
	})
	return log
}
