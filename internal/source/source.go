// Package source reads the interaction-event sidecar written next to a
// recorded video and exposes its events in source video pixels.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SidecarVersion is the only sidecar schema version understood
const SidecarVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported sidecar version")
	ErrInvalidRecording   = errors.New("invalid recording sidecar")
)

// EventType is the kind of a raw interaction event
type EventType string

const (
	EventMove    EventType = "move"
	EventClick   EventType = "click"
	EventRelease EventType = "release"
	EventScroll  EventType = "scroll"
	EventKeyDown EventType = "keyDown"
)

// Button identifies the mouse button of click/release events
type Button string

const (
	ButtonLeft  Button = "left"
	ButtonRight Button = "right"
)

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Event is one raw pointer or keyboard event. Button is nil when not applicable.
type Event struct {
	Timestamp float64   `json:"timestamp"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Type      EventType `json:"type"`
	Button    *Button   `json:"button"`
}

// Recording is the decoded sidecar
type Recording struct {
	Version            int      `json:"version"`
	FrameRate          float64  `json:"frameRate"`
	SourceSize         Size     `json:"sourceSize"`
	CaptureOrigin      *Point   `json:"captureOrigin,omitempty"`
	DisplayHeight      *float64 `json:"displayHeight,omitempty"`
	BackingScaleFactor *float64 `json:"backingScaleFactor,omitempty"`
	Events             []Event  `json:"events"`
}

// Click is a click event in source pixels
type Click struct {
	Timestamp float64 `json:"timestamp"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Button    Button  `json:"button"`
}

// Sample is a positioned event in source pixels
type Sample struct {
	Timestamp float64
	X         float64
	Y         float64
}

// Open reads and validates a sidecar file
func Open(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rec, nil
}

// Decode parses and validates a sidecar stream
func Decode(r io.Reader) (*Recording, error) {
	var rec Recording
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecording, err)
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Encode writes the recording as sidecar JSON
func (r *Recording) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Validate rejects malformed sidecar data
func (r *Recording) Validate() error {
	if r.Version != SidecarVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, r.Version)
	}
	if !(r.FrameRate > 0) || math.IsInf(r.FrameRate, 0) {
		return fmt.Errorf("%w: frameRate must be positive", ErrInvalidRecording)
	}
	if !(r.SourceSize.Width > 0) || !(r.SourceSize.Height > 0) {
		return fmt.Errorf("%w: sourceSize must be positive", ErrInvalidRecording)
	}
	if r.BackingScaleFactor != nil && !(*r.BackingScaleFactor > 0) {
		return fmt.Errorf("%w: backingScaleFactor must be positive", ErrInvalidRecording)
	}

	for i, e := range r.Events {
		if math.IsNaN(e.Timestamp) || math.IsInf(e.Timestamp, 0) || e.Timestamp < 0 {
			return fmt.Errorf("%w: event %d has invalid timestamp", ErrInvalidRecording, i)
		}
		if math.IsNaN(e.X) || math.IsNaN(e.Y) || math.IsInf(e.X, 0) || math.IsInf(e.Y, 0) {
			return fmt.Errorf("%w: event %d has invalid position", ErrInvalidRecording, i)
		}
		switch e.Type {
		case EventMove, EventClick, EventRelease, EventScroll, EventKeyDown:
		default:
			return fmt.Errorf("%w: event %d has unknown type %q", ErrInvalidRecording, i, e.Type)
		}
		if e.Button != nil && *e.Button != ButtonLeft && *e.Button != ButtonRight {
			return fmt.Errorf("%w: event %d has unknown button %q", ErrInvalidRecording, i, *e.Button)
		}
	}
	return nil
}

// Duration returns the timestamp of the last event
func (r *Recording) Duration() float64 {
	last := 0.0
	for _, e := range r.Events {
		if e.Timestamp > last {
			last = e.Timestamp
		}
	}
	return last
}

// FrameSize returns the source size rounded to whole pixels
func (r *Recording) FrameSize() (int, int) {
	return int(math.Round(r.SourceSize.Width)), int(math.Round(r.SourceSize.Height))
}

// ToSource converts an event position into source video pixels (top-left
// origin). Display coordinates have a bottom-left origin when DisplayHeight
// is set; CaptureOrigin is the capture area's top-left corner in display
// points and BackingScaleFactor converts points to pixels.
func (r *Recording) ToSource(x, y float64) (float64, float64) {
	if r.DisplayHeight != nil {
		y = *r.DisplayHeight - y
	}
	if r.CaptureOrigin != nil {
		x -= r.CaptureOrigin.X
		y -= r.CaptureOrigin.Y
	}
	if r.BackingScaleFactor != nil {
		x *= *r.BackingScaleFactor
		y *= *r.BackingScaleFactor
	}
	return x, y
}

// Samples returns every event position in source pixels, sorted by time
func (r *Recording) Samples() []Sample {
	out := make([]Sample, 0, len(r.Events))
	for _, e := range r.Events {
		x, y := r.ToSource(e.X, e.Y)
		out = append(out, Sample{Timestamp: e.Timestamp, X: x, Y: y})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// Clicks returns click events in source pixels, sorted by time
func (r *Recording) Clicks() []Click {
	var out []Click
	for _, e := range r.Events {
		if e.Type != EventClick {
			continue
		}
		x, y := r.ToSource(e.X, e.Y)
		c := Click{Timestamp: e.Timestamp, X: x, Y: y, Button: ButtonLeft}
		if e.Button != nil {
			c.Button = *e.Button
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// Interactions returns clicks and key presses, the events that drive
// automatic zoom, as positioned samples sorted by time
func (r *Recording) Interactions() []Sample {
	var out []Sample
	for _, e := range r.Events {
		if e.Type != EventClick && e.Type != EventKeyDown {
			continue
		}
		x, y := r.ToSource(e.X, e.Y)
		out = append(out, Sample{Timestamp: e.Timestamp, X: x, Y: y})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// SidecarPath returns the sidecar path for a recorded video
func SidecarPath(videoPath string) string {
	ext := filepath.Ext(videoPath)
	return strings.TrimSuffix(videoPath, ext) + ".events.json"
}
