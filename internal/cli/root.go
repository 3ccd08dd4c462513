package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ivlev/screencut/internal/config"
	"github.com/ivlev/screencut/internal/logging"
	"github.com/ivlev/screencut/internal/system"
)

// ffmpeg keeps one descriptor per trimmed input stream
const fileLimit = 4096

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "screencut",
	Short: "Speed-edit and auto-zoom screen recordings",
	Long: `Screencut turns a screen recording and its interaction sidecar into an
edited export: speed-adjusted segments with smooth ramps, automatic zoom
on clicks and key presses, and a smoothed cursor.

The sidecar is read from <recording>.events.json next to the video.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := applyFlags(cmd, cfg); err != nil {
			return err
		}

		if limit, err := system.RaiseFileLimit(fileLimit); err != nil {
			logger.Debugw("Could not raise file limit", "error", err)
		} else {
			logger.Debugw("Open file limit", "limit", limit)
		}
		return nil
	},
}

// Execute runs the CLI; an interrupt cancels the running job
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().Float64("fps", 0, "Output frame rate")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "Frame workers (0 = pick from the machine)")
	rootCmd.PersistentFlags().
		StringP("sensitivity", "s", "", "Auto-zoom sensitivity (low, medium, high)")
	rootCmd.PersistentFlags().Float64("half-ramp", 0, "Half length of speed ramps in seconds")
	rootCmd.PersistentFlags().Float64("zoom", 0, "Zoom level of synthesized regions (1.1 - 4.0)")
}

// applyFlags overrides config values with the flags set on the command line
func applyFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("fps") {
		c.FPS, _ = flags.GetFloat64("fps")
	}
	if flags.Changed("workers") {
		c.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("sensitivity") {
		s, _ := flags.GetString("sensitivity")
		c.Sensitivity = config.Sensitivity(s)
	}
	if flags.Changed("half-ramp") {
		c.HalfRamp, _ = flags.GetFloat64("half-ramp")
	}
	if flags.Changed("zoom") {
		c.ZoomLevel, _ = flags.GetFloat64("zoom")
	}

	return c.Validate()
}
