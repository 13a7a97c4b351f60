package commands

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-voice-agent/internal/config"
	"github.com/teslashibe/go-voice-agent/internal/log"
	"github.com/teslashibe/go-voice-agent/pkg/models"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List speech model bundles and their download state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		present := make(map[string]bool)
		for _, info := range m.ListDownloaded() {
			present[info.ID] = true
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tENGINE\tSIZE\tSTATE")
		for _, info := range models.Registry {
			state := "-"
			if present[info.ID] {
				state = "downloaded"
			}
			fmt.Fprintf(w, "%s\t%s\t%d MB\t%s\n", info.ID, info.Engine, info.SizeMB, state)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nCache: %s (%d of %d bundles present)\n",
			m.Dir(), len(present), len(models.Registry))
		return nil
	},
}

var modelsPullCmd = &cobra.Command{
	Use:   "pull <id>...",
	Short: "Download model bundles into the cache",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		m, err := newManager(out)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		for _, id := range args {
			info, err := models.Lookup(id)
			if err != nil {
				return err
			}
			if m.IsDownloaded(info) {
				fmt.Fprintf(out, "✅ %s already downloaded\n", info.ID)
				continue
			}
			if err := m.Download(ctx, info); err != nil {
				return err
			}
			fmt.Fprintf(out, "✅ %s ready at %s\n", info.ID, m.Path(info))
		}
		return nil
	},
}

func newManager(out io.Writer) (*models.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log.Init(config.LogLevel())

	m := models.NewManager(cfg.ModelsDir, models.WithLogger(log.L()))
	m.OnProgress = func(p models.Progress) {
		switch {
		case p.Done:
			if p.Downloaded > 0 {
				fmt.Fprintf(out, "\r📥 %s: %d MB\n", p.ModelID, p.Downloaded>>20)
			}
		case p.Total > 0:
			fmt.Fprintf(out, "\r📥 %s: %d%%", p.ModelID, min(p.Downloaded*100/p.Total, 99))
		}
	}
	return m, nil
}

func init() {
	modelsCmd.AddCommand(modelsPullCmd)
	rootCmd.AddCommand(modelsCmd)
}
