package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, buildDate, gitCommit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display oxc version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "oxc v%s\n", version)
			if buildDate != "unknown" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "built:  %s\n", buildDate)
			}
			if gitCommit != "unknown" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", gitCommit)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "go:     %s\n", runtime.Version())
		},
	}
}
