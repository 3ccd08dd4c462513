// Package engine runs one export job: it compiles the segment plan, builds
// the time remap table, smooths the cursor, resolves zoom keyframes and
// evaluates every output frame.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/screencut/internal/config"
	"github.com/ivlev/screencut/internal/cursor"
	"github.com/ivlev/screencut/internal/director"
	"github.com/ivlev/screencut/internal/logging"
	"github.com/ivlev/screencut/internal/remap"
	"github.com/ivlev/screencut/internal/renderer"
	"github.com/ivlev/screencut/internal/source"
	"github.com/ivlev/screencut/internal/system"
	"github.com/ivlev/screencut/internal/timeline"
	"github.com/ivlev/screencut/internal/video"
)

// framesPerTask is the number of frames one worker evaluates per task
const framesPerTask = 256

// Click is a click placed on the composition timeline
type Click struct {
	CompositionTime float64       `json:"composition_time"`
	SourceTime      float64       `json:"source_time"`
	X               float64       `json:"x"`
	Y               float64       `json:"y"`
	Button          source.Button `json:"button"`
}

// Frame is the fully resolved state of one output frame
type Frame struct {
	Index           int                `json:"index"`
	CompositionTime float64            `json:"composition_time"`
	SourceTime      float64            `json:"source_time"`
	Cursor          *cursor.Point      `json:"cursor,omitempty"`
	Zoom            renderer.ZoomState `json:"zoom"`
	Crop            renderer.Rect      `json:"crop"`
	Cropped         bool               `json:"cropped"`
	Click           *Click             `json:"click,omitempty"` // most recent click still on display
}

// Plan is everything a compositor needs to produce the export
type Plan struct {
	FPS       float64                  `json:"fps"`
	Width     int                      `json:"width"`
	Height    int                      `json:"height"`
	Duration  float64                  `json:"duration"`
	Segments  []timeline.ExportSegment `json:"segments"`
	Track     []timeline.Placement     `json:"track"`
	Regions   []director.Region        `json:"regions"`
	Keyframes []renderer.Keyframe      `json:"keyframes"` // composition time
	Clicks    []Click                  `json:"clicks"`
	Frames    []Frame                  `json:"frames"`
}

type ExportProject struct {
	Config    *config.Config
	Recording *source.Recording
	Segments  []timeline.Segment
	Regions   *director.RegionSet // nil synthesizes regions from interactions
	Logger    *logging.Logger

	// SourceDuration is the length of the recorded video. Without segments
	// the export covers all of it; zero falls back to the last event.
	SourceDuration float64

	table *remap.Table
}

func NewExportProject(cfg *config.Config, rec *source.Recording, segs []timeline.Segment, regions *director.RegionSet, logger *logging.Logger) *ExportProject {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ExportProject{
		Config:    cfg,
		Recording: rec,
		Segments:  segs,
		Regions:   regions,
		Logger:    logger.WithComponent("engine"),
	}
}

// Table returns the remap table of the last Run
func (p *ExportProject) Table() *remap.Table {
	return p.table
}

// Run builds the export plan. Frames are evaluated in parallel and the job
// stops early when ctx is cancelled.
func (p *ExportProject) Run(ctx context.Context) (*Plan, error) {
	startTime := time.Now()

	if p.Recording == nil {
		return nil, fmt.Errorf("no recording")
	}
	profile, err := p.Config.Profile()
	if err != nil {
		return nil, err
	}

	segs := p.Segments
	if len(segs) == 0 {
		segs = timeline.WholeRecording(p.sourceDuration())
	}
	if err := timeline.Validate(segs); err != nil {
		return nil, err
	}

	width, height := p.Recording.FrameSize()

	exports := timeline.Compile(segs, p.Config.HalfRamp)
	track, err := timeline.Place(exports)
	if err != nil {
		return nil, err
	}
	p.table = remap.Build(exports)
	if len(track) > 0 {
		if end := track[len(track)-1].CompositionEnd(); math.Abs(end-p.table.Duration()) > 1e-6 {
			p.Logger.Warnw("Track and remap table disagree", "track", end, "table", p.table.Duration())
		}
	}

	trajectory := cursor.Smooth(toCursorSamples(p.Recording.Samples()), p.Config.FPS)

	regions := p.resolveRegions(profile, width, height)
	keyframes := renderer.RemapKeyframes(renderer.BuildKeyframes(regions, profile, width, height), p.table)
	clicks := p.remapClicks()

	plan := &Plan{
		FPS:       p.Config.FPS,
		Width:     width,
		Height:    height,
		Duration:  p.table.Duration(),
		Segments:  exports,
		Track:     track,
		Regions:   regions,
		Keyframes: keyframes,
		Clicks:    clicks,
	}

	p.Logger.Infow("Export plan",
		"segments", len(segs),
		"export_segments", len(exports),
		"regions", len(regions),
		"keyframes", len(keyframes),
		"clicks", len(clicks),
		"duration", plan.Duration,
	)

	frames, err := p.evaluateFrames(ctx, plan, trajectory)
	if err != nil {
		return nil, err
	}
	plan.Frames = frames

	p.Logger.Infow("Frames evaluated",
		"frames", len(frames),
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)
	return plan, nil
}

func (p *ExportProject) sourceDuration() float64 {
	if p.SourceDuration > 0 {
		return p.SourceDuration
	}
	return p.Recording.Duration()
}

// resolveRegions returns the enabled regions, synthesizing them when the job
// has no region set
func (p *ExportProject) resolveRegions(profile config.Profile, width, height int) []director.Region {
	if p.Regions != nil {
		return p.Regions.Enabled()
	}

	interactions := p.Recording.Interactions()
	in := make([]director.Interaction, 0, len(interactions))
	for _, s := range interactions {
		in = append(in, director.Interaction{Timestamp: s.Timestamp, X: s.X, Y: s.Y})
	}

	d := director.NewDirector(width, height, profile, p.Config.ZoomLevel)
	regions := d.Synthesize(in)
	p.Logger.Debugw("Synthesized regions", "interactions", len(in), "regions", len(regions))
	return regions
}

// remapClicks moves clicks into composition time, dropping trimmed ones
func (p *ExportProject) remapClicks() []Click {
	var out []Click
	dropped := 0
	for _, c := range p.Recording.Clicks() {
		ct, ok := p.table.CompositionTime(c.Timestamp)
		if !ok {
			dropped++
			continue
		}
		out = append(out, Click{
			CompositionTime: ct,
			SourceTime:      c.Timestamp,
			X:               c.X,
			Y:               c.Y,
			Button:          c.Button,
		})
	}
	if dropped > 0 {
		p.Logger.Debugw("Dropped clicks outside the export", "count", dropped)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompositionTime < out[j].CompositionTime
	})
	return out
}

// evaluateFrames fills one Frame per output frame using a bounded worker pool
func (p *ExportProject) evaluateFrames(ctx context.Context, plan *Plan, trajectory *cursor.Trajectory) ([]Frame, error) {
	count := FrameCount(plan.Duration, plan.FPS)
	frames := make([]Frame, count)
	if count == 0 {
		return frames, nil
	}

	workers := p.Config.Workers
	if workers <= 0 {
		workers = system.RecommendedWorkers()
	}
	p.Logger.Debugw("Evaluating frames", "frames", count, "workers", workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < count; start += framesPerTask {
		if err := gctx.Err(); err != nil {
			break
		}
		start := start
		end := start + framesPerTask
		if end > count {
			end = count
		}

		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				frames[i] = p.evaluateFrame(i, plan, trajectory)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluate frames: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluate frames: %w", err)
	}
	return frames, nil
}

func (p *ExportProject) evaluateFrame(i int, plan *Plan, trajectory *cursor.Trajectory) Frame {
	c := float64(i) / plan.FPS
	s := p.table.SourceTime(c)
	state := renderer.InterpolateZoom(plan.Keyframes, c)
	crop, cropped := renderer.CropRect(state, plan.Width, plan.Height)

	f := Frame{
		Index:           i,
		CompositionTime: c,
		SourceTime:      s,
		Zoom:            state,
		Crop:            crop,
		Cropped:         cropped,
		Click:           activeClick(plan.Clicks, c, p.Config.ClickDisplay),
	}
	if pos, ok := trajectory.LookupPosition(s); ok {
		f.Cursor = &pos
	}
	return f
}

// activeClick returns the latest click at or before t that is still within
// the display window
func activeClick(clicks []Click, t, window float64) *Click {
	i := sort.Search(len(clicks), func(k int) bool {
		return clicks[k].CompositionTime > t
	})
	if i == 0 {
		return nil
	}
	c := clicks[i-1]
	if t-c.CompositionTime > window {
		return nil
	}
	return &c
}

// FrameCount is the number of frames needed to cover duration at fps
func FrameCount(duration, fps float64) int {
	if !(duration > 0) || !(fps > 0) {
		return 0
	}
	return int(math.Ceil(duration*fps - 1e-9))
}

// Render encodes the plan with enc: the speed plan drives trimming and the
// composition-time keyframes drive the zoom stage.
func (p *ExportProject) Render(ctx context.Context, enc video.VideoEncoder, plan *Plan, input, output string) error {
	encoder := p.Config.VideoEncoder
	if encoder == "" {
		encoder = system.GetBestH264Encoder(ctx)
	}

	zoom := ""
	if hasZoom(plan.Keyframes) {
		zoom = renderer.GenerateZoomFilter(plan.Keyframes, plan.FPS, plan.Width, plan.Height)
	}

	return enc.Render(ctx, video.RenderParams{
		Input:      input,
		Output:     output,
		Segments:   plan.Segments,
		ZoomFilter: zoom,
		FPS:        plan.FPS,
		Encoder:    encoder,
		Quality:    p.Config.Quality,
	})
}

func hasZoom(keyframes []renderer.Keyframe) bool {
	for _, kf := range keyframes {
		if kf.Zoom > 1.0 {
			return true
		}
	}
	return false
}

// Preview renders the frame at composition time t as it will appear in the
// export, scaled to outW x outH. Release the image with system.PutImage.
func (p *ExportProject) Preview(ctx context.Context, enc video.VideoEncoder, plan *Plan, input string, t float64, outW, outH int) (*image.RGBA, error) {
	if len(plan.Frames) == 0 {
		return nil, fmt.Errorf("plan has no frames")
	}
	i := int(math.Round(t * plan.FPS))
	if i < 0 {
		i = 0
	}
	if i >= len(plan.Frames) {
		i = len(plan.Frames) - 1
	}
	f := plan.Frames[i]

	src, err := enc.ExtractFrame(ctx, input, f.SourceTime, plan.Width, plan.Height)
	if err != nil {
		return nil, err
	}

	p.Logger.Debugw("Preview", "frame", f.Index, "source_time", f.SourceTime, "zoom", f.Zoom.Zoom)
	return renderer.RenderPreview(src, f.Crop, f.Cursor, outW, outH), nil
}

func toCursorSamples(samples []source.Sample) []cursor.Sample {
	out := make([]cursor.Sample, len(samples))
	for i, s := range samples {
		out[i] = cursor.Sample{Timestamp: s.Timestamp, X: s.X, Y: s.Y}
	}
	return out
}

// WritePlan writes plan as indented JSON
func WritePlan(w io.Writer, plan *Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// SavePlan writes plan to path
func SavePlan(plan *Plan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePlan(f, plan); err != nil {
		f.Close()
		return fmt.Errorf("write plan %s: %w", path, err)
	}
	return f.Close()
}
