package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"camctl/internal/dispatch"
	"camctl/internal/logging"
	"camctl/internal/page"
	"camctl/internal/view"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the absolute position of the selected camera",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		requireCamera(cfg)
		api := setupClient(cfg)

		d := dispatch.New(page.New(cfg.CameraID, nil), api, dispatch.Options{
			Status: view.NewStatus(printStatus),
			Info:   view.NewInfoPanel(printPosition),
			Logger: logging.Module(log, "dispatch"),
		})

		res := d.Dispatch(cmd.Context(), dispatch.GetInfo{})
		if jsonOutput {
			printJSON(res)
		}
		if !res.OK {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
