package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-voice-agent/pkg/audioio"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio input and output devices",
	Long: `List the audio devices PortAudio can see.

The agent always records from the default input and plays through the
default output; those are marked with '*'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := audioio.Devices()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\tNAME\tHOST API\tIN\tOUT\tRATE")
		for _, d := range devices {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.0f\n",
				marker(d), d.Name, d.HostAPI, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)
		}
		return w.Flush()
	},
}

func marker(d audioio.Device) string {
	switch {
	case d.DefaultInput && d.DefaultOutput:
		return "*io"
	case d.DefaultInput:
		return "*i"
	case d.DefaultOutput:
		return "*o"
	}
	return ""
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
