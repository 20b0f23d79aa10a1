package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"netra/internal/config"
	"netra/internal/logger"
)

var (
	configPath string
	logPath    string
)

var rootCmd = &cobra.Command{
	Use:   "netra",
	Short: "Find satellite imagery from a plain-language request",
	Long: `NETRA turns a request such as "Show me floods in Chennai last week" into
search parameters with an LLM, then queries ESA (Copernicus Sentinel-2) and
ISRO (Bhoonidhi Resourcesat-2) and lists the candidate scenes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logPath == "" {
			return nil
		}
		if err := logger.Init(logPath); err != nil {
			return fmt.Errorf("could not initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a netra.toml overriding environment settings")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "netra.log", "log file (empty disables logging)")
	rootCmd.AddCommand(searchCmd, batchCmd, shellCmd)
}

// loadConfig is called at the start of every mission so edits to the
// environment or config file apply to the next mission.
func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
