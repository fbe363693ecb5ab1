package cli

import (
	"github.com/spf13/cobra"

	"github.com/eleven-am/couchstorm/internal/logger"
	"github.com/eleven-am/couchstorm/pkg/couchstorm"
)

// Global configuration variables
var (
	configFile string
	config     *Config
	bucketName string
	debug      bool
	verbose    bool
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "couchstorm",
		Short: "couchstorm - N1QL query toolkit for Couchbase",
		Long: `couchstorm builds N1QL statements from YAML query definitions and runs
them against a Couchbase bucket.

It provides tools for:
- Rendering statements and their named parameters without a cluster
- Executing statements with normalized, unwrapped results
- Reading, writing and removing documents by key`,
		Version:       couchstorm.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			config, err = LoadConfig(configFile)
			if err != nil {
				return err
			}
			if config == nil {
				config = DefaultConfig()
				config.applyEnvironment()
			}

			if bucketName == "" {
				bucketName = config.Cluster.Bucket
			}

			return configureLogging(config.Log.Level)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: couchstorm.yaml)")
	rootCmd.PersistentFlags().StringVar(&bucketName, "bucket", "", "bucket to use (default: from config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(upsertCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// configureLogging applies the configured level; --verbose and --debug win.
func configureLogging(level string) error {
	switch {
	case verbose:
		logger.SetLevel(logger.DebugLevel)
	case debug:
		logger.SetLevel(logger.InfoLevel)
	default:
		lvl, err := logger.ParseLevel(level)
		if err != nil {
			return err
		}
		logger.SetLevel(lvl)
	}
	return nil
}
