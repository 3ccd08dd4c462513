package timeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// segmentFile is the on-disk layout of an edited timeline
type segmentFile struct {
	Version  string    `yaml:"version"`
	Segments []Segment `yaml:"segments"`
}

// WriteSegments writes an edited timeline to a YAML file
func WriteSegments(segs []Segment, path string) error {
	data, err := yaml.Marshal(&segmentFile{Version: "1.0", Segments: segs})
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadSegments reads and validates an edited timeline from a YAML file
func ReadSegments(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f segmentFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := Validate(f.Segments); err != nil {
		return nil, err
	}

	return f.Segments, nil
}

// WholeRecording returns a single enabled native-speed segment covering [0, duration]
func WholeRecording(duration float64) []Segment {
	return []Segment{{ID: "seg-1", Start: 0, End: duration, Speed: 1.0, Enabled: true}}
}
