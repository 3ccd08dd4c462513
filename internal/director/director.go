package director

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/ivlev/screencut/internal/config"
	"github.com/ivlev/screencut/internal/easing"
)

const (
	// LeadTime starts a region slightly before its first interaction
	LeadTime = 0.3

	// MergeWindow joins regions whose start is this close to the previous end
	MergeWindow = 1.0
)

// regionNamespace seeds the deterministic IDs of synthesized regions
var regionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("screencut/zoom-region"))

// Interaction is a click or key press location in source pixels
type Interaction struct {
	Timestamp float64
	X         float64
	Y         float64
}

// Director generates zoom regions from interaction activity
type Director struct {
	Width     int
	Height    int
	Profile   config.Profile
	ZoomLevel float64
}

// NewDirector creates a Director for a source frame of width x height
func NewDirector(width, height int, profile config.Profile, zoomLevel float64) *Director {
	return &Director{
		Width:     width,
		Height:    height,
		Profile:   profile,
		ZoomLevel: ClampZoom(zoomLevel),
	}
}

type cluster struct {
	start, end float64
	sumX, sumY float64
	count      int
}

type candidate struct {
	start, end     float64
	focusX, focusY float64
}

// Synthesize clusters interactions into zoom regions. The result is ordered
// by start time and identical for identical input.
func (d *Director) Synthesize(interactions []Interaction) []Region {
	if len(interactions) == 0 {
		return nil
	}

	sorted := make([]Interaction, len(interactions))
	copy(sorted, interactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	clusters := d.clusterInteractions(sorted)

	candidates := make([]candidate, 0, len(clusters))
	for _, c := range clusters {
		candidates = append(candidates, candidate{
			start:  math.Max(0, c.start-LeadTime),
			end:    c.end + d.Profile.HoldDuration,
			focusX: c.sumX / float64(c.count),
			focusY: c.sumY / float64(c.count),
		})
	}

	merged := mergeCandidates(candidates)

	regions := make([]Region, 0, len(merged))
	for _, c := range merged {
		fx, fy := ClampFocus(c.focusX, c.focusY, d.ZoomLevel, d.Width, d.Height)
		regions = append(regions, Region{
			ID:        regionID(c.start, c.end, fx, fy),
			Start:     c.start,
			End:       c.end,
			ZoomLevel: d.ZoomLevel,
			FocusX:    fx,
			FocusY:    fy,
			Enabled:   true,
		})
	}

	return regions
}

// clusterInteractions greedily groups sorted interactions whose consecutive
// gaps stay within the cluster window, dropping clusters that are too small.
func (d *Director) clusterInteractions(sorted []Interaction) []cluster {
	var kept []cluster
	var cur *cluster

	closeCluster := func() {
		if cur != nil && cur.count >= d.Profile.MinimumClusterSize {
			kept = append(kept, *cur)
		}
		cur = nil
	}

	for _, in := range sorted {
		if cur != nil && in.Timestamp-cur.end > d.Profile.ClusterWindow {
			closeCluster()
		}
		if cur == nil {
			cur = &cluster{start: in.Timestamp, end: in.Timestamp}
		}
		cur.end = in.Timestamp
		cur.sumX += in.X
		cur.sumY += in.Y
		cur.count++
	}
	closeCluster()

	return kept
}

// mergeCandidates joins candidates that start within MergeWindow of the
// previous region's end so nearby bursts do not flicker in and out.
func mergeCandidates(candidates []candidate) []candidate {
	var merged []candidate
	for _, c := range candidates {
		if n := len(merged); n > 0 && c.start-merged[n-1].end <= MergeWindow {
			last := &merged[n-1]
			last.focusX = (last.focusX + c.focusX) / 2
			last.focusY = (last.focusY + c.focusY) / 2
			last.end = math.Max(last.end, c.end)
			continue
		}
		merged = append(merged, c)
	}
	return merged
}

// ClampFocus keeps the crop rectangle (frame size / zoom, centered on the
// focus) inside the frame.
func ClampFocus(fx, fy, zoom float64, width, height int) (float64, float64) {
	if zoom <= 0 {
		zoom = 1
	}
	w, h := float64(width), float64(height)
	halfW := w / (2 * zoom)
	halfH := h / (2 * zoom)
	return easing.Clamp(fx, halfW, w-halfW), easing.Clamp(fy, halfH, h-halfH)
}

// ClampZoom limits a zoom level to the supported range
func ClampZoom(zoom float64) float64 {
	return easing.Clamp(zoom, config.MinZoomLevel, config.MaxZoomLevel)
}

func regionID(start, end, fx, fy float64) string {
	key := fmt.Sprintf("%.4f:%.4f:%.2f:%.2f", start, end, fx, fy)
	return uuid.NewSHA1(regionNamespace, []byte(key)).String()
}
