package system

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// VideoExtensions are the container formats screen recordings are saved in
var VideoExtensions = []string{".mov", ".mp4", ".m4v", ".mkv", ".webm"}

// bytes of headroom reserved per frame worker
const workerMemory = 256 << 20

// RaiseFileLimit lifts the soft open-file limit towards want. It returns the
// limit in effect afterwards.
func RaiseFileLimit(want uint64) (uint64, error) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, fmt.Errorf("get file limit: %w", err)
	}
	if rLimit.Cur >= want {
		return rLimit.Cur, nil
	}

	rLimit.Cur = want
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, fmt.Errorf("set file limit: %w", err)
	}
	return rLimit.Cur, nil
}

// RecommendedWorkers sizes the frame worker pool from the logical CPU count,
// capped by available memory. It never returns less than one.
func RecommendedWorkers() int {
	workers, err := cpu.Counts(true)
	if err != nil || workers < 1 {
		workers = 1
	}

	if vm, err := mem.VirtualMemory(); err == nil && vm.Available > 0 {
		byMemory := int(vm.Available / workerMemory)
		if byMemory < workers {
			workers = byMemory
		}
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}

// FindLatest returns the most recently modified file in dir whose extension
// is one of exts (case-insensitive).
func FindLatest(dir string, exts []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no %s files found in %s", strings.Join(exts, "/"), dir)
	}

	return latestFile, nil
}

// FindLatestRecording returns the newest screen recording in dir
func FindLatestRecording(dir string) (string, error) {
	return FindLatest(dir, VideoExtensions)
}

func hasExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// GetMediaDuration asks ffprobe for the container duration in seconds
func GetMediaDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return ParseDuration(string(out))
}

// ParseDuration reads the single number ffprobe prints
func ParseDuration(out string) (float64, error) {
	d, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", strings.TrimSpace(out), err)
	}
	return d, nil
}

// GetBestH264Encoder picks a hardware H.264 encoder when ffmpeg has one,
// falling back to libx264.
func GetBestH264Encoder(ctx context.Context) string {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "libx264"
	}
	return pickEncoder(string(out))
}

// pickEncoder prefers VideoToolbox (macOS), then NVENC, then software
func pickEncoder(encoders string) string {
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(encoders, name) {
			return name
		}
	}
	return "libx264"
}
