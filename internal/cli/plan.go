package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/screencut/internal/engine"
)

var planCmd = &cobra.Command{
	Use:   "plan [recording]",
	Short: "Write the per-frame export plan as JSON",
	Long: `Compile the segment timeline, remap time, smooth the cursor and evaluate
the zoom camera for every output frame. The result is written as JSON
(default <recording>.plan.json, "-" for stdout).

Examples:
  screencut plan demo.mov
  screencut plan demo.mov --segments edit.yaml -o -`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	addJobFlags(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	j, err := loadJob(cmd, args[0])
	if err != nil {
		return err
	}

	plan, err := j.project().Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "-" {
		return engine.WritePlan(cmd.OutOrStdout(), plan)
	}
	if outputPath == "" {
		outputPath = defaultOutput(j.Video, ".plan.json")
	}
	if err := engine.SavePlan(plan, outputPath); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Plan saved: %s (%d frames, %.2fs)\n", absOutput, len(plan.Frames), plan.Duration)
	return nil
}
