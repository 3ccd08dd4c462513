package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/screencut/internal/video"
)

var renderCmd = &cobra.Command{
	Use:   "render [recording]",
	Short: "Export the edited recording with ffmpeg",
	Long: `Render the speed-edited, auto-zoomed export of a recording
(default <recording>.export.mp4). Requires ffmpeg on PATH.

Examples:
  screencut render demo.mov
  screencut render demo.mov --segments edit.yaml -o final.mp4
  screencut render ./recordings --auto-zoom -s low`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addJobFlags(renderCmd)
	renderCmd.Flags().String("encoder", "", "Video encoder (default: best available H.264)")
	renderCmd.Flags().Int("quality", 0, "Encoder quality (CRF/CQ, or bitrate/100 for VideoToolbox)")
}

func runRender(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	j, err := loadJob(cmd, args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("encoder") {
		cfg.VideoEncoder, _ = cmd.Flags().GetString("encoder")
	}
	if cmd.Flags().Changed("quality") {
		cfg.Quality, _ = cmd.Flags().GetInt("quality")
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = defaultOutput(j.Video, ".export.mp4")
	}

	project := j.project()
	plan, err := project.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	if err := project.Render(cmd.Context(), video.NewFFmpegEncoder(logger), plan, j.Video, outputPath); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	logger.Infow("Export finished", "output", absOutput, "elapsed", time.Since(startTime).Round(time.Millisecond))
	fmt.Fprintf(cmd.OutOrStdout(), "Export saved: %s\n", absOutput)
	return nil
}
