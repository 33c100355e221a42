package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"camctl/internal/client"
	"camctl/internal/config"
	"camctl/internal/logging"
)

var cfgFile string
var jsonOutput bool

// log is ready once loadConfig has run.
var log = zerolog.Nop()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "camctl",
	Short: "A CLI for the PTZ camera control server",
	Long: `Watch a camera's live feed, send pan-tilt-zoom commands, query
its position and manage the camera grid of a camera control server.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		if err := config.InitConfig(cfgFile); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.camctl.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	rootCmd.PersistentFlags().String("base-url", "", "Camera server URL (e.g. http://10.0.0.5:5000)")
	rootCmd.PersistentFlags().Int("camera", 0, "ID of the camera to control")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")

	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("camera_id", rootCmd.PersistentFlags().Lookup("camera"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// loadConfig decodes the merged configuration and builds the logger.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	log = logging.New(logging.Options{Format: cfg.Log.Format, Level: cfg.Log.Level})
	return cfg
}

// setupClient returns a control API client for the configured server.
func setupClient(cfg *config.Config) *client.CameraClient {
	if cfg.BaseURL == "" {
		fmt.Println("Error: No server configured. Pass --base-url or set base_url in the config file.")
		os.Exit(1)
	}

	return client.New(client.ClientConfig{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Logger:  logging.Module(log, "client"),
	})
}

// requireCamera exits unless a camera id is bound.
func requireCamera(cfg *config.Config) {
	if cfg.CameraID <= 0 {
		fmt.Println("Error: No camera selected. Pass --camera or set camera_id in the config file.")
		os.Exit(1)
	}
}
