package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// These variables are set at build time via -ldflags:
//
//	go build -ldflags "-X github.com/teslashibe/go-voice-agent/cmd/voice-agent/commands.Version=v0.1.0 \
//	  -X github.com/teslashibe/go-voice-agent/cmd/voice-agent/commands.Commit=$(git rev-parse --short HEAD)"
var (
	Version = "dev"
	Commit  = "unknown"
)

// VersionString returns a formatted version string.
func VersionString() string {
	return fmt.Sprintf("voice-agent %s (%s) %s/%s", Version, Commit, runtime.GOOS, runtime.GOARCH)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), VersionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
