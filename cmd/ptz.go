package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"camctl/internal/dispatch"
	"camctl/internal/logging"
	"camctl/internal/page"
	"camctl/internal/view"
	"camctl/pkg/models"
)

var ptzCmd = &cobra.Command{
	Use:       "ptz <command>",
	Short:     "Send a pan-tilt-zoom command to the selected camera",
	Long:      `Commands: pan_left, pan_right, tilt_up, tilt_down, zoom_in, zoom_out, stop, home.`,
	Example:   "  camctl ptz pan_left --camera 7\n  camctl ptz zoom-in",
	ValidArgs: models.CommandTokens,
	Args:      cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		requireCamera(cfg)
		api := setupClient(cfg)

		command, err := dispatch.Parse(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		d := dispatch.New(page.New(cfg.CameraID, nil), api, dispatch.Options{
			Status: view.NewStatus(printStatus),
			Info:   view.NewInfoPanel(printPosition),
			Logger: logging.Module(log, "dispatch"),
		})

		res := d.Dispatch(cmd.Context(), command)
		if jsonOutput {
			printJSON(res)
		}
		if !res.OK {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(ptzCmd)
}
