package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/screencut/internal/system"
	"github.com/ivlev/screencut/internal/video"
)

var previewCmd = &cobra.Command{
	Use:   "preview [recording]",
	Short: "Render one export frame as PNG",
	Long: `Render the export frame shown at a composition time, with zoom crop and
cursor marker applied (default <recording>.preview.png). Requires ffmpeg.

Examples:
  screencut preview demo.mov --at 12.5
  screencut preview demo.mov --at 3 --width 1920 --height 1080 -o frame.png`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	addJobFlags(previewCmd)
	previewCmd.Flags().Float64("at", 0, "Composition time in seconds")
	previewCmd.Flags().Int("width", 1280, "Preview width")
	previewCmd.Flags().Int("height", 720, "Preview height")
}

func runPreview(cmd *cobra.Command, args []string) error {
	j, err := loadJob(cmd, args[0])
	if err != nil {
		return err
	}

	at, _ := cmd.Flags().GetFloat64("at")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid preview size %dx%d", width, height)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = defaultOutput(j.Video, ".preview.png")
	}

	project := j.project()
	plan, err := project.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	img, err := project.Preview(cmd.Context(), video.NewFFmpegEncoder(logger), plan, j.Video, at, width, height)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	defer system.PutImage(img)

	if err := video.SavePNG(img, outputPath); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Preview saved: %s\n", absOutput)
	return nil
}
