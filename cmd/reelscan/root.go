package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "reelscan [path]",
		Short: "Scan media folders and group candidate duplicate clips",
		Long: `Reelscan walks a media folder tree, collects per-file metadata, and
optionally fingerprints every file to group candidate duplicates.

Large files are fingerprinted from head/mid/tail samples, so duplicate
groups are candidates, not proof of byte-identical content. Use
--full-hash when certainty matters more than speed.

Examples:
  reelscan ~/Videos               # Metadata-only scan
  reelscan --hash ~/Videos        # Scan with duplicate grouping
  reelscan --hash --full-hash .   # Byte-exact grouping, any file size
  reelscan -f json --top 20 .     # JSON output, 20 largest files`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/reel/config.yaml)")
	rootCmd.PersistentFlags().IntP("max-concurrency", "c", 0, "max simultaneous directory/file operations (0=config default)")
	rootCmd.PersistentFlags().IntP("batch-size", "b", 0, "files per stat batch (0=config default)")
	rootCmd.PersistentFlags().Bool("hash", false, "enable fingerprinting and duplicate grouping")
	rootCmd.PersistentFlags().String("hash-threshold", "", "full/sampled hashing boundary (e.g. 10KiB)")
	rootCmd.PersistentFlags().String("hash-sample-size", "", "bytes per sample window (e.g. 2KiB)")
	rootCmd.PersistentFlags().Bool("full-hash", false, "hash full contents regardless of size")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "exclude glob patterns")
	rootCmd.PersistentFlags().StringP("format", "f", "pretty", "output format (pretty, plain, json, yaml, tsv, csv)")
	rootCmd.PersistentFlags().IntP("top", "t", 25, "number of largest files to display")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")

	_ = viper.BindPFlag("scan.max_concurrency", rootCmd.PersistentFlags().Lookup("max-concurrency"))
	_ = viper.BindPFlag("scan.batch_size", rootCmd.PersistentFlags().Lookup("batch-size"))
	_ = viper.BindPFlag("scan.exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("hash.enabled", rootCmd.PersistentFlags().Lookup("hash"))
	_ = viper.BindPFlag("hash.threshold", rootCmd.PersistentFlags().Lookup("hash-threshold"))
	_ = viper.BindPFlag("hash.sample_size", rootCmd.PersistentFlags().Lookup("hash-sample-size"))
	_ = viper.BindPFlag("hash.full_always", rootCmd.PersistentFlags().Lookup("full-hash"))
	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("output.top", rootCmd.PersistentFlags().Lookup("top"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

// initConfig reads in the config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "reel"))
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "reel"))
		}
	}

	viper.SetEnvPrefix("REEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message when verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}
