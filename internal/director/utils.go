package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const regionsSuffix = ".zoom.yaml"

// RegionsPath returns the region file stored next to a recording
func RegionsPath(recordingPath string) string {
	base := strings.TrimSuffix(recordingPath, filepath.Ext(recordingPath))
	base = strings.TrimSuffix(base, ".events")
	return base + regionsSuffix
}

// FindLatestRegions finds the most recently modified region file in dir
func FindLatestRegions(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read regions directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), regionsSuffix) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	if len(files) == 0 {
		return "", fmt.Errorf("no region files found in %s", dir)
	}

	// Sort by modification time (newest first)
	sort.Slice(files, func(i, j int) bool {
		infoI, _ := os.Stat(files[i])
		infoJ, _ := os.Stat(files[j])
		return infoI.ModTime().After(infoJ.ModTime())
	})

	return files[0], nil
}
