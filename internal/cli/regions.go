package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/screencut/internal/director"
	"github.com/ivlev/screencut/internal/source"
)

var regionsCmd = &cobra.Command{
	Use:   "regions [recording]",
	Short: "Synthesize zoom regions from clicks and key presses",
	Long: `Cluster the interactions of a recording into zoom regions and save them
as editable YAML (default <recording>.zoom.yaml).

Examples:
  screencut regions demo.mov
  screencut regions demo.mov -s high --zoom 2.5
  screencut regions ./recordings -o demo.zoom.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRegions,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}

func runRegions(cmd *cobra.Command, args []string) error {
	videoPath, err := resolveVideo(args[0])
	if err != nil {
		return err
	}

	rec, err := source.Open(source.SidecarPath(videoPath))
	if err != nil {
		return fmt.Errorf("read sidecar: %w", err)
	}

	profile, err := cfg.Profile()
	if err != nil {
		return err
	}

	samples := rec.Interactions()
	interactions := make([]director.Interaction, 0, len(samples))
	for _, s := range samples {
		interactions = append(interactions, director.Interaction{Timestamp: s.Timestamp, X: s.X, Y: s.Y})
	}

	width, height := rec.FrameSize()
	d := director.NewDirector(width, height, profile, cfg.ZoomLevel)
	regions := d.Synthesize(interactions)

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = director.RegionsPath(videoPath)
	}

	logger.Infow("Synthesized regions",
		"interactions", len(interactions),
		"regions", len(regions),
		"sensitivity", profile.Name,
		"output", outputPath,
	)

	if err := director.WriteRegions(director.NewRegionSet(width, height, regions), outputPath); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Regions saved: %s (%d)\n", absOutput, len(regions))
	return nil
}
