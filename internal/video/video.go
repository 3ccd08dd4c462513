// Package video assembles the final export with ffmpeg: the micro-segment
// speed plan becomes a trim/setpts/concat graph and the zoom keyframes a
// zoompan stage on top of it.
package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/ivlev/screencut/internal/logging"
	"github.com/ivlev/screencut/internal/timeline"
)

// RenderParams describes one export
type RenderParams struct {
	Input      string
	Output     string
	Segments   []timeline.ExportSegment
	ZoomFilter string // optional zoompan stage, composition time
	FPS        float64
	Encoder    string
	Quality    int // 0 picks the encoder default
}

type VideoEncoder interface {
	Render(ctx context.Context, params RenderParams) error
	ExtractFrame(ctx context.Context, input string, sourceTime float64, width, height int) (*image.RGBA, error)
}

type FFmpegEncoder struct {
	Logger *logging.Logger
}

// NewFFmpegEncoder creates an encoder that logs through logger
func NewFFmpegEncoder(logger *logging.Logger) *FFmpegEncoder {
	return &FFmpegEncoder{Logger: logger.WithComponent("ffmpeg")}
}

// BuildSpeedFilter creates a filter_complex graph that plays every export
// segment at its speed and concatenates the results into [vcat]. Audio is
// not carried over.
func BuildSpeedFilter(segs []timeline.ExportSegment) string {
	if len(segs) == 0 {
		return ""
	}

	filterGraph := ""
	concatInputs := ""
	for i, s := range segs {
		filterGraph += fmt.Sprintf("[0:v]trim=start=%.6f:end=%.6f,setpts=(PTS-STARTPTS)/%.6f[v%d];",
			s.SourceStart, s.SourceEnd, s.Speed, i)
		concatInputs += fmt.Sprintf("[v%d]", i)
	}

	filterGraph += fmt.Sprintf("%sconcat=n=%d:v=1:a=0[vcat]", concatInputs, len(segs))
	return filterGraph
}

// buildRenderArgs assembles the full ffmpeg command line for params
func buildRenderArgs(params RenderParams) []string {
	filterGraph := BuildSpeedFilter(params.Segments)
	videoOut := "[vcat]"
	if params.ZoomFilter != "" {
		filterGraph += fmt.Sprintf(";[vcat]%s[vout]", params.ZoomFilter)
		videoOut = "[vout]"
	}

	args := []string{"-y", "-i", params.Input}
	if filterGraph != "" {
		args = append(args, "-filter_complex", filterGraph, "-map", videoOut)
	}

	args = append(args,
		"-an",
		"-r", formatRate(params.FPS),
		"-c:v", params.Encoder,
		"-pix_fmt", "yuv420p",
	)
	args = append(args, qualityArgs(params.Encoder, params.Quality)...)
	args = append(args, params.Output)
	return args
}

// qualityArgs maps quality onto the rate control each encoder understands
func qualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		if quality == 0 {
			quality = 75
		}
		// kbit/s, 75 -> 7.5 Mbit/s
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		if quality == 0 {
			quality = 23
		}
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		if quality == 0 {
			quality = 20
		}
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func formatRate(fps float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", fps), "0"), ".")
}

// Render runs ffmpeg for one export
func (e *FFmpegEncoder) Render(ctx context.Context, params RenderParams) error {
	if len(params.Segments) == 0 {
		return fmt.Errorf("nothing to render: no enabled segments")
	}
	if params.Encoder == "" {
		params.Encoder = "libx264"
	}

	args := buildRenderArgs(params)
	e.Logger.Infow("Rendering",
		"input", params.Input,
		"output", params.Output,
		"segments", len(params.Segments),
		"encoder", params.Encoder,
		"duration", timeline.TotalCompositionDuration(params.Segments),
	)
	e.Logger.Debugw("ffmpeg arguments", "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg render error: %w, output: %s", err, tail(out, 2000))
	}
	return nil
}

// ExtractFrame decodes the frame at sourceTime as raw RGBA
func (e *FFmpegEncoder) ExtractFrame(ctx context.Context, input string, sourceTime float64, width, height int) (*image.RGBA, error) {
	args := []string{
		"-v", "error",
		"-ss", fmt.Sprintf("%.6f", sourceTime),
		"-i", input,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:%d", width, height),
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	}
	e.Logger.Debugw("Extracting frame", "input", input, "source_time", sourceTime)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg extract error: %w, output: %s", err, tail(stderr.Bytes(), 2000))
	}

	return readRawRGBA(&stdout, width, height)
}

// readRawRGBA fills an RGBA image from a tightly packed pixel stream
func readRawRGBA(r io.Reader, width, height int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if _, err := io.ReadFull(r, img.Pix); err != nil {
		return nil, fmt.Errorf("read raw frame %dx%d: %w", width, height, err)
	}
	return img, nil
}

// SavePNG writes img to path
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func tail(out []byte, n int) string {
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return string(out)
}
