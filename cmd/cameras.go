package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"camctl/internal/config"
	"camctl/internal/dispatch"
	"camctl/internal/logging"
	"camctl/internal/page"
	"camctl/internal/view"
	"camctl/pkg/models"
)

// Variables to hold flag values
var (
	camName      string
	camBrokerURI string
	camGatewayID int
	camID        int
	assumeYes    bool
)

// Parent Command
var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "Manage the camera grid",
	Long:  `List the known cameras, register new ones with the server or delete them.`,
}

// List Command
var camerasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the cameras in the grid",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if jsonOutput {
			printJSON(cfg.Cameras)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tGATEWAY\tBROKER")
		fmt.Fprintln(w, "--\t----\t-------\t------")
		for _, cam := range cfg.Cameras {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", cam.ID, cam.Name, cam.GatewayID, cam.BrokerURI)
		}
		w.Flush()
	},
}

// Add Command
var camerasAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Register a camera with the server",
	Example: `  camctl cameras add --name "Dock 2" --broker-uri mqtt://10.0.0.9:1883 --gateway-id 4`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		api := setupClient(cfg)

		if camName == "" || camBrokerURI == "" {
			fmt.Println("Error: --name and --broker-uri are required.")
			os.Exit(1)
		}

		reg := models.Registration{Name: camName, BrokerURI: camBrokerURI, GatewayID: camGatewayID}
		if err := api.RegisterCamera(cmd.Context(), reg); err != nil {
			fmt.Printf("Error registering camera: %v\n", err)
			os.Exit(1)
		}

		// the server numbers cameras max+1, so the local grid follows suit
		grid := view.NewGrid(cfg.Cameras, nil)
		cam := models.Camera{ID: nextCameraID(grid.Cameras()), Name: camName, BrokerURI: camBrokerURI, GatewayID: camGatewayID}
		grid.Add(cam)

		if err := config.SaveCameras(grid.Cameras()); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(cam)
			return
		}
		fmt.Printf("Camera %q registered as %d.\n", cam.Name, cam.ID)
	},
}

// Delete Command
var camerasDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a camera from the server and the grid",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		api := setupClient(cfg)

		if camID <= 0 {
			fmt.Println("Error: --id is required.")
			os.Exit(1)
		}

		grid := view.NewGrid(cfg.Cameras, nil)
		if _, ok := grid.Card(camID); !ok {
			fmt.Printf("Error: camera %d is not in the grid.\n", camID)
			os.Exit(1)
		}

		var confirm dispatch.Confirmer = promptConfirm(os.Stdin, os.Stdout)
		if assumeYes {
			confirm = dispatch.ConfirmFunc(func(string) bool { return true })
		}

		d := dispatch.New(page.New(cfg.CameraID, nil), api, dispatch.Options{
			Status:  view.NewStatus(printStatus),
			Grid:    grid,
			Confirm: confirm,
			Logger:  logging.Module(log, "dispatch"),
		})

		res := d.Dispatch(cmd.Context(), dispatch.Delete{CameraID: camID})
		if jsonOutput {
			printJSON(res)
		}
		if !res.OK {
			os.Exit(1)
		}

		// FadeOut is idempotent; this waits for the removal already scheduled
		if done, ok := grid.FadeOut(camID); ok {
			<-done
		}

		if err := config.SaveCameras(grid.Cameras()); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			os.Exit(1)
		}
	},
}

func nextCameraID(cameras []models.Camera) int {
	next := 1
	for _, cam := range cameras {
		if cam.ID >= next {
			next = cam.ID + 1
		}
	}
	return next
}

func init() {
	rootCmd.AddCommand(camerasCmd)
	camerasCmd.AddCommand(camerasListCmd)
	camerasCmd.AddCommand(camerasAddCmd)
	camerasCmd.AddCommand(camerasDeleteCmd)

	camerasAddCmd.Flags().StringVar(&camName, "name", "", "Camera name")
	camerasAddCmd.Flags().StringVar(&camBrokerURI, "broker-uri", "", "Message broker URI of the camera gateway")
	camerasAddCmd.Flags().IntVar(&camGatewayID, "gateway-id", 0, "Gateway ID")

	camerasDeleteCmd.Flags().IntVar(&camID, "id", 0, "ID of the camera to delete")
	camerasDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
}
