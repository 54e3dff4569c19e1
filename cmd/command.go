// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/LeeDigitalWorks/zapstore/pkg/logger"
	"github.com/LeeDigitalWorks/zapstore/pkg/metrics"
	"github.com/LeeDigitalWorks/zapstore/pkg/storage/backend"
	"github.com/LeeDigitalWorks/zapstore/pkg/utils"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "zapstore",
	Short: "ZapStore - versioned artifact store",
	Long: `ZapStore publishes and fetches immutable, versioned artifacts on S3-compatible
object storage. Each namespace has a public (readonly.) and a private (private.)
bucket; fetched artifacts are mirrored in a local cache.`,
	SilenceUsage:      true,
	PersistentPreRunE: initialize,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&utils.ConfigurationFileDirectory, "config_dir", "", "Directory searched first for "+utils.ConfigFileName)
	f.String("log_level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	f.String("metrics_textfile", "", "Write Prometheus metrics to this file on exit")

	// Backend
	f.String("backend", "s3", "Storage backend ("+backendTypes()+")")
	f.String("endpoint", "", "S3 end-point (https://host[:port], host:port or hostname)")
	f.String("region", "", "S3 region (default us-east-1)")
	f.String("access_key", "", "S3 access key (empty for anonymous access)")
	f.String("secret_key", "", "S3 secret key")
	f.Bool("path_style", false, "Use path-style S3 addressing")
	f.String("local_root", "", "Root directory of the local backend")

	// Client
	f.String("cache_dir", "", "Local cache root (default "+defaultCacheDir+")")
	f.String("tmp_dir", "", "Temporary files root (default "+defaultTempDir+")")
	f.Bool("legacy_overwrite", false, "Upload over existing artifacts even without --overwrite, logging a warning")

	viper.BindPFlags(f)
}

// backendTypes lists the registered storage backends for help output.
func backendTypes() string {
	registered := backend.Types()
	names := make([]string, 0, len(registered))
	for _, t := range registered {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// initialize merges the config file into viper and applies the log level.
func initialize(cmd *cobra.Command, args []string) error {
	if _, err := utils.LoadConfiguration(viper.GetViper(), utils.ConfigFileName, false); err != nil {
		return fmt.Errorf("load %s: %w", utils.ConfigFileName, err)
	}
	if level := NewFlagLoader(cmd).String("log_level"); level != "" {
		if err := logger.SetLevelString(level); err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	return nil
}

// writeMetrics dumps the metrics registry when --metrics_textfile is set.
// It runs after the command, including failed ones.
func writeMetrics() {
	path := viper.GetString("metrics_textfile")
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(utils.ResolvePath(path)); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Failed to write metrics textfile")
	}
}

func Execute() {
	err := rootCmd.Execute()
	writeMetrics()
	if err != nil {
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}
