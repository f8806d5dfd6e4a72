// Command vortex extracts sounding parameters from screenshot OCR, scores the
// tornado they imply and files error reports about bad reads.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/couchcryptid/vortex/internal/config"
	"github.com/couchcryptid/vortex/internal/observability"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "vortex",
	Short: "Vortex - tornado intensity estimates from sounding screenshots",
	Long: `Vortex reads the thermodynamics and composite parameter panels of a
sounding screenshot, extracts the numeric fields, and scores the likely
tornado shape mix, multi-vortex and rain-wrapped likelihoods and EF intensity.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		observability.NewConsoleLogger(cmd.ErrOrStderr(), logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config",
		sharedcfg.EnvOrDefault("VORTEX_CONFIG_FILE", config.DefaultConfigFile), "settings file holding the webhook URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level",
		sharedcfg.EnvOrDefault("LOG_LEVEL", "warn"), "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the service configuration, pointing it at the --config file.
func loadConfig() (*config.Config, error) {
	if err := os.Setenv("VORTEX_CONFIG_FILE", configFile); err != nil {
		return nil, err
	}
	return config.Load()
}
