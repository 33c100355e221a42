package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"camctl/internal/channel"
	"camctl/internal/client"
	"camctl/internal/config"
	"camctl/internal/dispatch"
	"camctl/internal/logging"
	"camctl/internal/metrics"
	"camctl/internal/page"
	"camctl/internal/stream"
	"camctl/internal/view"
)

// Variables to hold flag values
var (
	watchInteractive  bool
	watchDiscardStale bool
	serviceAction     string // install, uninstall, start, stop
)

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	cfg    *config.Config
	api    *client.CameraClient
	log    zerolog.Logger
	input  io.Reader
	cancel context.CancelFunc
	done   chan struct{}

	image      *view.Image
	session    *stream.Session
	dispatcher *dispatch.Dispatcher
	server     *http.Server
}

func newProgram(cfg *config.Config, api *client.CameraClient, logger zerolog.Logger) *program {
	pc := page.New(cfg.CameraID, page.SocketIO(cfg.BaseURL, channel.Options{
		Logger: logging.Module(logger, "channel"),
	}))

	p := &program{
		cfg:   cfg,
		api:   api,
		log:   logger,
		image: &view.Image{},
	}
	p.session = stream.New(pc, p.image, logging.Module(logger, "stream"))
	p.dispatcher = dispatch.New(pc, api, dispatch.Options{
		Status:       view.NewStatus(printStatus),
		Info:         view.NewInfoPanel(printPosition),
		Logger:       logging.Module(logger, "dispatch"),
		DiscardStale: watchDiscardStale,
	})
	return p
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	registry := prometheus.NewRegistry()
	registry.MustRegister(&metrics.Collector{Stream: p.session, Commands: p.dispatcher})

	p.server = &http.Server{
		Addr:              p.cfg.Watch.Listen,
		Handler:           p.routes(registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go p.run(ctx)
	return nil
}

func (p *program) run(ctx context.Context) {
	defer close(p.done)

	go func() {
		p.log.Info().Str("addr", p.cfg.Watch.Listen).Msg("[watch] listening")
		if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.log.Error().Err(err).Msg("[watch] http server")
		}
	}()

	if p.input != nil {
		go p.readCommands(ctx, p.input)
	}

	if p.cfg.CameraID <= 0 {
		p.log.Info().Msg("[watch] no camera selected, stream disabled")
	}

	if err := p.session.Run(ctx); err != nil {
		p.log.Error().Err(err).Msg("[watch] stream ended")
		return
	}
	p.log.Info().Msg("[watch] stream ended")
}

func (p *program) routes(registry *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/frame.jpg", p.image)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := p.session.Stats()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"cam_id": p.cfg.CameraID,
			"state":  stats.State.String(),
			"frames": stats.Frames,
		})
	})
	return mux
}

// readCommands turns each input line into a command. Every command runs in
// its own goroutine so a slow response never holds up the next one.
func (p *program) readCommands(ctx context.Context, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		command, err := dispatch.Parse(line)
		if err != nil {
			fmt.Printf("[%s] %v\n", view.Danger, err)
			continue
		}
		go p.dispatcher.Dispatch(ctx, command)
	}
}

func (p *program) Stop(s service.Service) error {
	// Stop should not block. Signal the app to stop.
	p.log.Info().Msg("[watch] stopping")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.cancel != nil {
		p.cancel()
	}
	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			p.log.Warn().Err(err).Msg("[watch] server forced to shutdown")
		}
	}
	if p.done != nil {
		select {
		case <-p.done:
		case <-ctx.Done():
		}
	}
	return nil
}

// --- COMMAND ---

// serviceArguments rebuilds the watch command line for the installed service.
func serviceArguments(cfg *config.Config) []string {
	args := []string{
		"watch",
		"--base-url", cfg.BaseURL,
		"--camera", strconv.Itoa(cfg.CameraID),
		"--listen", cfg.Watch.Listen,
	}
	if watchDiscardStale {
		args = append(args, "--discard-stale")
	}
	if cfgFile != "" {
		args = append(args, "--config", cfgFile)
	}
	return args
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream the selected camera and serve its frames over HTTP",
	Long: `Attaches to the live feed of the selected camera and serves the latest
frame at /frame.jpg, viewer metrics at /metrics and the stream state at /healthz.
With --interactive, PTZ commands are read from stdin, one per line.
Can be installed as a system service.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		api := setupClient(cfg)

		svcConfig := &service.Config{
			Name:        "camctl-watch",
			DisplayName: "Camera Stream Viewer",
			Description: "Serves the live frames of a PTZ camera over HTTP",
			// Arguments passed to the binary when run as a service
			Arguments: serviceArguments(cfg),
		}

		prg := newProgram(cfg, api, log)
		if watchInteractive {
			prg.input = os.Stdin
		}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("[watch] service")
		}

		// Handle Service Control Actions (Install, Start, Stop, Uninstall)
		if serviceAction != "" {
			if serviceAction == "install" && cfg.CameraID <= 0 {
				log.Fatal().Msg("[watch] a camera must be selected (--camera) to install the service")
			}
			if err := service.Control(s, serviceAction); err != nil {
				log.Fatal().Err(err).Msgf("[watch] failed to %s service", serviceAction)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// Run the Service (Blocking)
		svcLogger, err := s.Logger(nil)
		if err != nil {
			log.Fatal().Err(err).Msg("[watch] service logger")
		}
		if err = s.Run(); err != nil {
			_ = svcLogger.Error(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("listen", "", "Address to serve frames and metrics on (default :9110)")
	watchCmd.Flags().BoolVar(&watchInteractive, "interactive", false, "Read PTZ commands from stdin")
	watchCmd.Flags().BoolVar(&watchDiscardStale, "discard-stale", false, "Drop responses that resolve after a newer one was shown")
	watchCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")

	_ = viper.BindPFlag("watch.listen", watchCmd.Flags().Lookup("listen"))
}
