package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/turtacn/FlightStatus/internal/controller"
	"github.com/turtacn/FlightStatus/internal/export"
	"github.com/turtacn/FlightStatus/internal/monitor"
	"github.com/turtacn/FlightStatus/internal/placement"
	"github.com/turtacn/FlightStatus/internal/source"
	"github.com/turtacn/FlightStatus/internal/status"
	"github.com/turtacn/FlightStatus/internal/telemetry"
	"github.com/turtacn/FlightStatus/pkg/consts"
	"github.com/turtacn/FlightStatus/pkg/errors"
	"github.com/turtacn/FlightStatus/pkg/logger"
	"github.com/turtacn/FlightStatus/pkg/protocol"
)

var (
	cfgFile    string
	socketPath string
)

var rootCmd = &cobra.Command{
	Use:          "flightstatus",
	Short:        "FlightStatus: the flight-status register of a multirotor controller",
	SilenceUsage: true,
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the control loop and serve status",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// 2. Init Logger & Metrics
		logger.InitLogger(cfg.Observability.LogLevel)
		monitor.InitMetrics(cfg.Observability.MetricsPort)

		logger.Log.Info("Booting FlightStatus...", "vehicle", cfg.Vehicle.Name)

		// 3. Wire the status store
		src, err := source.Open(cfg.Source)
		if err != nil {
			return err
		}
		defer src.Close()

		nav := controller.NewNavigator(logger.Log)
		store := status.New(nav,
			status.WithObserver(monitor.Recorder{}),
			status.WithPlacementParams(placement.Params{
				Window:    cfg.Placement.Window,
				Trip:      cfg.Placement.TripCount,
				Threshold: cfg.Placement.Threshold,
			}),
		)

		var opts []controller.Option
		if cfg.Telemetry.Enabled {
			timeout := protocol.Duration(cfg.Telemetry.Timeout, consts.DefaultTelemetryTimeout)
			opts = append(opts, controller.WithTelemetry(telemetry.NewServer(cfg.Telemetry.SocketPath, store, timeout)))
		}
		if cfg.Export.Enabled {
			client, err := export.DialTCP(cfg.Export.Endpoint, protocol.Duration(cfg.Export.Timeout, consts.DefaultExportTimeout))
			if err != nil {
				return err
			}
			exporter := export.NewExporter(client, cfg.Export.UnitID, cfg.Export.Address)
			defer exporter.Close()
			opts = append(opts, controller.WithExporter(exporter))
		}

		// 4. Start Engine
		engine := controller.NewEngine(cfg, store, src, opts...)
		if err := engine.Start(); err != nil {
			logger.Log.Error("Engine fatal error", "err", err)
			return err
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the live status record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendRequest(cmd, telemetry.Request{Op: telemetry.OpStatus})
	},
}

var armCmd = &cobra.Command{
	Use:   "arm",
	Short: "Request arming (rejected until init has finished)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendRequest(cmd, telemetry.Request{Op: telemetry.OpArm})
	},
}

var disarmCmd = &cobra.Command{
	Use:   "disarm",
	Short: "Disarm the motors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendRequest(cmd, telemetry.Request{Op: telemetry.OpDisarm})
	},
}

var modeCmd = &cobra.Command{
	Use:   "mode <code>",
	Short: "Request a flight mode (0 manual, 1 semiauto, 2 auto, 255 no change)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("mode code must be a number: %w", err)
		}
		return sendRequest(cmd, telemetry.Request{Op: telemetry.OpMode, Value: code})
	},
}

var initCmd = &cobra.Command{
	Use:   "init <0|1>",
	Short: "Override the init status (1 finished, 0 not finished)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("init value must be 0 or 1: %w", err)
		}
		return sendRequest(cmd, telemetry.Request{Op: telemetry.OpInit, Value: v})
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay <gyro.csv>",
	Short: "Run the placement classifier over a recorded gyro log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		src, err := source.OpenCSV(args[0], false)
		if err != nil {
			return err
		}
		defer src.Close()

		c := placement.New(placement.Params{
			Window:    cfg.Placement.Window,
			Trip:      cfg.Placement.TripCount,
			Threshold: cfg.Placement.Threshold,
		})

		out := cmd.OutOrStdout()
		samples, windows := 0, 0
		for {
			v, err := src.Next()
			if errors.Is(err, errors.ErrCodeSourceExhausted) {
				break
			}
			if err != nil {
				return err
			}
			samples++
			if verdict, committed := c.Observe(v); committed {
				windows++
				fmt.Fprintf(out, "window %d (samples %d-%d): %s\n",
					windows, samples-c.Params().Window+1, samples, verdict)
			}
		}
		count, _ := c.Progress()
		fmt.Fprintf(out, "%d samples, %d windows, %d samples pending, placement %s\n",
			samples, windows, count, c.Verdict())
		return nil
	},
}

func loadConfig(cmd *cobra.Command) (*protocol.Config, error) {
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			cfg := protocol.Defaults()
			return &cfg, nil
		}
	}
	return protocol.Load(cfgFile)
}

func sendRequest(cmd *cobra.Command, req telemetry.Request) error {
	path := socketPath
	timeout := consts.DefaultTelemetryTimeout
	if path == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path = cfg.Telemetry.SocketPath
		timeout = protocol.Duration(cfg.Telemetry.Timeout, timeout)
	}

	resp, err := telemetry.Send(path, req, timeout)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "flightstatus.yaml", "config file path")
	for _, c := range []*cobra.Command{statusCmd, armCmd, disarmCmd, modeCmd, initCmd} {
		c.Flags().StringVarP(&socketPath, "socket", "s", "", "telemetry socket (defaults to telemetry.socket_path)")
	}
	rootCmd.AddCommand(startCmd, statusCmd, armCmd, disarmCmd, modeCmd, initCmd, replayCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Personal.AI order the ending
