package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/screencut/internal/director"
	"github.com/ivlev/screencut/internal/engine"
	"github.com/ivlev/screencut/internal/source"
	"github.com/ivlev/screencut/internal/system"
	"github.com/ivlev/screencut/internal/timeline"
)

const segmentsSuffix = ".segments.yaml"

// job is the set of inputs shared by the plan, render, preview and remap commands
type job struct {
	Video     string
	Recording *source.Recording
	Segments  []timeline.Segment
	Regions   *director.RegionSet
	Duration  float64 // video length in seconds
}

// mediaDuration reads the length of a video file
var mediaDuration = system.GetMediaDuration

func addJobFlags(cmd *cobra.Command) {
	cmd.Flags().String("segments", "", "Segment timeline YAML (default <recording>"+segmentsSuffix+" when present)")
	cmd.Flags().String("regions", "", "Zoom region YAML (default <recording>.zoom.yaml when present, else synthesized)")
	cmd.Flags().Bool("auto-zoom", false, "Ignore saved regions and synthesize them from interactions")
}

// resolveVideo accepts a recording or a directory holding recordings
func resolveVideo(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return path, nil
	}
	return system.FindLatestRecording(path)
}

// segmentsPath returns the timeline file stored next to a recording
func segmentsPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + segmentsSuffix
}

// defaultOutput derives an output path next to the recording
func defaultOutput(videoPath, suffix string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + suffix
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// loadJob reads the recording sidecar plus optional segment and region files
func loadJob(cmd *cobra.Command, arg string) (*job, error) {
	videoPath, err := resolveVideo(arg)
	if err != nil {
		return nil, err
	}

	rec, err := source.Open(source.SidecarPath(videoPath))
	if err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}

	j := &job{
		Video:     videoPath,
		Recording: rec,
		Duration:  videoDuration(cmd.Context(), videoPath, rec),
	}

	segPath, _ := cmd.Flags().GetString("segments")
	if segPath == "" && fileExists(segmentsPath(videoPath)) {
		segPath = segmentsPath(videoPath)
	}
	if segPath != "" {
		j.Segments, err = timeline.ReadSegments(segPath)
		if err != nil {
			return nil, fmt.Errorf("read segments: %w", err)
		}
		logger.Debugw("Loaded segments", "path", segPath, "count", len(j.Segments))
	}

	autoZoom, _ := cmd.Flags().GetBool("auto-zoom")
	regPath, _ := cmd.Flags().GetString("regions")
	if regPath == "" && !autoZoom && fileExists(director.RegionsPath(videoPath)) {
		regPath = director.RegionsPath(videoPath)
	}
	if regPath != "" && !autoZoom {
		regPath, err = resolveRegions(regPath)
		if err != nil {
			return nil, err
		}
		j.Regions, err = director.ReadRegions(regPath)
		if err != nil {
			return nil, err
		}
		logger.Debugw("Loaded regions", "path", regPath, "count", len(j.Regions.Regions))
	}

	logger.Infow("Loaded recording",
		"video", videoPath,
		"events", len(rec.Events),
		"duration", j.Duration,
		"size", fmt.Sprintf("%.0fx%.0f", rec.SourceSize.Width, rec.SourceSize.Height),
	)
	return j, nil
}

// videoDuration returns the length of the video, falling back to the last
// recorded event when the file cannot be read
func videoDuration(ctx context.Context, videoPath string, rec *source.Recording) float64 {
	d, err := mediaDuration(ctx, videoPath)
	if err != nil || d <= 0 {
		logger.Debugw("Using last event as video length", "video", videoPath, "error", err)
		return rec.Duration()
	}
	return d
}

// resolveRegions accepts a region file or a directory holding region files
func resolveRegions(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("read regions: %w", err)
	}
	if !fi.IsDir() {
		return path, nil
	}
	return director.FindLatestRegions(path)
}

func (j *job) project() *engine.ExportProject {
	p := engine.NewExportProject(cfg, j.Recording, j.Segments, j.Regions, logger)
	p.SourceDuration = j.Duration
	return p
}
