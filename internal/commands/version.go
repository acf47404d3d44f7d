package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/port402/anything-cli/internal/output"
)

func (c *cli) versionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, build information, and runtime details.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version information as JSON")
	return cmd
}

func runVersion(cmd *cobra.Command, jsonOutput bool) error {
	w := cmd.OutOrStdout()

	if jsonOutput {
		return output.PrintJSON(w, map[string]string{
			"version":   Version,
			"commit":    Commit,
			"buildDate": BuildDate,
			"go":        runtime.Version(),
			"os":        runtime.GOOS,
			"arch":      runtime.GOARCH,
		})
	}

	// Compact format: anything 0.1.0 (e0b2c4f)
	commitShort := truncate(Commit, 7)
	if commitShort != "none" {
		fmt.Fprintf(w, "anything %s (%s)\n", Version, commitShort)
	} else {
		fmt.Fprintf(w, "anything %s\n", Version)
	}

	if BuildDate != "unknown" {
		fmt.Fprintf(w, "  Built:    %s\n", truncate(BuildDate, 10))
	}

	goVersion := strings.TrimPrefix(runtime.Version(), "go")
	fmt.Fprintf(w, "  Go:       %s\n", goVersion)
	fmt.Fprintf(w, "  Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}

// truncate returns at most maxLen characters from s.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
