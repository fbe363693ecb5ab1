package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	initHost  string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new couchstorm configuration file",
	Long: `Creates a couchstorm.yaml configuration file with default settings
that you can customize for your cluster.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initHost, "host", "localhost", "Cluster host")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = configLocations[0]
	}

	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	cfg := DefaultConfig()
	cfg.Cluster.Host = initHost
	cfg.Cluster.Username = "Administrator"
	if bucketName != "" {
		cfg.Cluster.Bucket = bucketName
	}

	if err := SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s configuration file\n", configPath)
	fmt.Fprintf(out, "\nNext steps:\n")
	fmt.Fprintf(out, "1. Set the cluster credentials (or export COUCHSTORM_PASSWORD)\n")
	fmt.Fprintf(out, "2. Run 'couchstorm render -f query.yaml' to check a statement\n")
	fmt.Fprintf(out, "3. Run 'couchstorm query -f query.yaml' to execute it\n")

	return nil
}
