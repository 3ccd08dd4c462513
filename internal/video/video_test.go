package video

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/screencut/internal/timeline"
)

func TestBuildSpeedFilter(t *testing.T) {
	segs := []timeline.ExportSegment{
		{SourceStart: 0, SourceEnd: 4.85, Speed: 1},
		{SourceStart: 4.85, SourceEnd: 5, Speed: 1.5},
	}

	filter := BuildSpeedFilter(segs)
	for _, part := range []string{
		"[0:v]trim=start=0.000000:end=4.850000,setpts=(PTS-STARTPTS)/1.000000[v0];",
		"[0:v]trim=start=4.850000:end=5.000000,setpts=(PTS-STARTPTS)/1.500000[v1];",
		"[v0][v1]concat=n=2:v=1:a=0[vcat]",
	} {
		if !strings.Contains(filter, part) {
			t.Errorf("Filter should contain %q, got %s", part, filter)
		}
	}
	if strings.Contains(filter, "[0:a]") {
		t.Error("Audio should not be part of the graph")
	}
}

func TestBuildSpeedFilterEmpty(t *testing.T) {
	if BuildSpeedFilter(nil) != "" {
		t.Error("Expected empty graph for no segments")
	}
}

func TestBuildRenderArgs(t *testing.T) {
	params := RenderParams{
		Input:      "in.mov",
		Output:     "out.mp4",
		Segments:   []timeline.ExportSegment{{SourceStart: 0, SourceEnd: 3, Speed: 2}},
		ZoomFilter: "zoompan=z='1.0':d=1",
		FPS:        60,
		Encoder:    "libx264",
	}

	args := buildRenderArgs(params)
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, ";[vcat]zoompan=z='1.0':d=1[vout]") {
		t.Errorf("Zoom stage missing: %s", joined)
	}
	if !strings.Contains(joined, "-map [vout]") {
		t.Errorf("Expected zoomed output to be mapped: %s", joined)
	}
	if !strings.Contains(joined, "-r 60 ") || !strings.Contains(joined, "-crf 20") {
		t.Errorf("Unexpected rate/quality args: %s", joined)
	}
	if !strings.Contains(joined, "-an") {
		t.Errorf("Expected audio to be dropped: %s", joined)
	}
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("Output must be last, got %s", args[len(args)-1])
	}
}

func TestQualityArgs(t *testing.T) {
	tests := []struct {
		encoder string
		quality int
		want    string
	}{
		{"h264_videotoolbox", 0, "-b:v 7500k"},
		{"h264_videotoolbox", 50, "-b:v 5000k"},
		{"h264_nvenc", 0, "-cq 23"},
		{"libx264", 18, "-crf 18 -preset medium"},
	}
	for _, tt := range tests {
		if got := strings.Join(qualityArgs(tt.encoder, tt.quality), " "); got != tt.want {
			t.Errorf("%s/%d: expected %q, got %q", tt.encoder, tt.quality, tt.want, got)
		}
	}
}

func TestFormatRate(t *testing.T) {
	for fps, want := range map[float64]string{60: "60", 29.97: "29.97", 23.976: "23.976"} {
		if got := formatRate(fps); got != want {
			t.Errorf("formatRate(%v) = %s, want %s", fps, got, want)
		}
	}
}

func TestReadRawRGBA(t *testing.T) {
	pix := bytes.Repeat([]byte{1, 2, 3, 255}, 6)

	img, err := readRawRGBA(bytes.NewReader(pix), 3, 2)
	if err != nil {
		t.Fatalf("readRawRGBA failed: %v", err)
	}
	if c := img.RGBAAt(2, 1); c.R != 1 || c.G != 2 || c.B != 3 {
		t.Errorf("Unexpected pixel %+v", c)
	}

	if _, err := readRawRGBA(bytes.NewReader(pix[:10]), 3, 2); err == nil {
		t.Error("Expected error for a short frame")
	}
}

func TestSavePNG(t *testing.T) {
	img, _ := readRawRGBA(bytes.NewReader(make([]byte, 16)), 2, 2)
	if err := SavePNG(img, filepath.Join(t.TempDir(), "frame.png")); err != nil {
		t.Errorf("SavePNG failed: %v", err)
	}
}
