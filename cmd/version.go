package cmd

import (
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"wavedig.dev/pkg/wavedig/internal/domain/dialects"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version, the Go version used to build this tool and the supported dump dialects.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("wavedig version\t", toolVersion())

			if info, ok := debug.ReadBuildInfo(); ok {
				cmd.Println("go version\t", info.GoVersion)
			}

			cmd.Println("dialects\t", strings.Join(dialects.Names(), ", "))
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
