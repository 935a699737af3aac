package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/park285/cheese-board-viewer/internal/config"
	"github.com/park285/cheese-board-viewer/internal/metrics"
	"github.com/park285/cheese-board-viewer/internal/obslog"
)

var (
	stdout = colorable.NewColorableStdout()
	stderr = colorable.NewColorableStderr()
)

var (
	aConfigPath string
	aMetricsOut string

	cfg       *config.AppConfig
	collector = metrics.NewCollector()
)

var rootCmd = &cobra.Command{
	Use:           "boardview",
	Short:         "Shows chess positions read from an engine's position buffer",
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := obslog.InitFromEnv(); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		loaded, err := config.Load(aConfigPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("metrics-out") {
			loaded.MetricsOut = aMetricsOut
		}
		cfg = loaded
		return nil
	},
}

// writeMetrics dumps the collector once the command has finished, failed
// runs included.
func writeMetrics() error {
	if cfg == nil || cfg.MetricsOut == "" {
		return nil
	}
	if err := collector.WriteTextfile(cfg.MetricsOut); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&aConfigPath, "config", "", "config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().StringVar(&aMetricsOut, "metrics-out", "", "write Prometheus text metrics to this file on exit")
	rootCmd.AddCommand(showCmd, playCmd, decodeCmd)
}

// run executes one command line and writes the metrics textfile afterwards.
func run(args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if merr := writeMetrics(); merr != nil {
		fmt.Fprintf(stderr, "boardview: %v\n", merr)
	}
	obslog.Sync()
	return err
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(stderr, "boardview: %v\n", err)
		os.Exit(1)
	}
}
