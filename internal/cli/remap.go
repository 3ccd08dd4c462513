package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ivlev/screencut/internal/remap"
	"github.com/ivlev/screencut/internal/timeline"
)

var remapCmd = &cobra.Command{
	Use:   "remap [recording]",
	Short: "Convert timestamps between source and export time",
	Long: `Map source timestamps into the speed-edited export and back, using the
compiled segment timeline of a recording.

Examples:
  screencut remap demo.mov --source 12.5 --source 40
  screencut remap demo.mov --composition 8
  screencut remap demo.mov --segments edit.yaml --table`,
	Args: cobra.ExactArgs(1),
	RunE: runRemap,
}

func init() {
	rootCmd.AddCommand(remapCmd)
	addJobFlags(remapCmd)
	remapCmd.Flags().Float64Slice("source", nil, "Source timestamps to map into export time")
	remapCmd.Flags().Float64Slice("composition", nil, "Export timestamps to map back to source time")
	remapCmd.Flags().Bool("table", false, "Print the compiled segments and the full remap table")
}

func runRemap(cmd *cobra.Command, args []string) error {
	j, err := loadJob(cmd, args[0])
	if err != nil {
		return err
	}

	segs := j.Segments
	if len(segs) == 0 {
		segs = timeline.WholeRecording(j.Duration)
	}
	exports := timeline.Compile(segs, cfg.HalfRamp)
	table := remap.Build(exports)

	logger.Debugw("Remap table", "segments", len(exports), "entries", table.Len(), "duration", table.Duration())

	sources, _ := cmd.Flags().GetFloat64Slice("source")
	compositions, _ := cmd.Flags().GetFloat64Slice("composition")
	dump, _ := cmd.Flags().GetBool("table")

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	for _, s := range sources {
		if c, ok := table.CompositionTime(s); ok {
			fmt.Fprintf(w, "source %.3f\t-> export %.3f\n", s, c)
		} else {
			fmt.Fprintf(w, "source %.3f\t-> not in export\n", s)
		}
	}
	for _, c := range compositions {
		fmt.Fprintf(w, "export %.3f\t-> source %.3f\n", c, table.SourceTime(c))
	}

	if dump {
		fmt.Fprintln(w, "source_start\tsource_end\tspeed")
		for _, e := range exports {
			fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\n", e.SourceStart, e.SourceEnd, e.Speed)
		}
		fmt.Fprintln(w, "\ncomposition\tsource")
		for _, e := range table.Entries() {
			fmt.Fprintf(w, "%.4f\t%.4f\n", e.CompositionTime, e.SourceTime)
		}
	}

	if len(sources) == 0 && len(compositions) == 0 && !dump {
		fmt.Fprintf(w, "export duration\t%.3f\n", table.Duration())
	}
	return nil
}
