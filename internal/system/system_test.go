package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()

	files := []struct {
		name string
		age  time.Duration
	}{
		{"old.mov", 3 * time.Hour},
		{"newest.txt", 0},
		{"recent.MP4", time.Hour},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		mt := time.Now().Add(-f.age)
		if err := os.Chtimes(path, mt, mt); err != nil {
			t.Fatal(err)
		}
	}

	got, err := FindLatestRecording(dir)
	if err != nil {
		t.Fatalf("FindLatestRecording failed: %v", err)
	}
	if filepath.Base(got) != "recent.MP4" {
		t.Errorf("Expected recent.MP4, got %s", got)
	}

	if _, err := FindLatest(dir, []string{".pdf"}); err == nil {
		t.Error("Expected error when nothing matches")
	}
}

func TestRecommendedWorkers(t *testing.T) {
	if n := RecommendedWorkers(); n < 1 {
		t.Errorf("Expected at least one worker, got %d", n)
	}
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("12.480000\n")
	if err != nil || d != 12.48 {
		t.Errorf("Expected 12.48, got %f (%v)", d, err)
	}
	if _, err := ParseDuration("N/A"); err == nil {
		t.Error("Expected error for non-numeric output")
	}
}

func TestPickEncoder(t *testing.T) {
	tests := []struct {
		out  string
		want string
	}{
		{" V....D h264_videotoolbox VideoToolbox H.264 Encoder", "h264_videotoolbox"},
		{" V....D h264_nvenc NVIDIA NVENC H.264 encoder", "h264_nvenc"},
		{" V....D libx264 libx264 H.264", "libx264"},
		{"", "libx264"},
	}
	for _, tt := range tests {
		if got := pickEncoder(tt.out); got != tt.want {
			t.Errorf("pickEncoder(%q) = %s, want %s", tt.out, got, tt.want)
		}
	}
}

func TestImagePool(t *testing.T) {
	pool := NewImagePool()
	rect := image.Rect(0, 0, 16, 9)

	img := pool.Get(rect)
	if img.Bounds() != rect {
		t.Fatalf("Expected bounds %v, got %v", rect, img.Bounds())
	}
	pool.Put(img)

	// foreign sizes are dropped rather than pooled
	pool.Put(image.NewRGBA(image.Rect(0, 0, 3, 3)))
	if got := pool.Get(image.Rect(0, 0, 3, 3)); got.Bounds().Dx() != 3 {
		t.Errorf("Unexpected buffer %v", got.Bounds())
	}
	pool.Put(nil)
}
