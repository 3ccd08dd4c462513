package director

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRegionSetEditing(t *testing.T) {
	set := NewRegionSet(1920, 1080, nil)

	a, err := set.Add(5, 8, 2, 100, 100)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if a.FocusX != 480 || a.FocusY != 270 {
		t.Errorf("Manual region focus should be clamped, got (%f, %f)", a.FocusX, a.FocusY)
	}

	b, err := set.Add(1, 2, 3, 960, 540)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if set.Regions[0].ID != b.ID {
		t.Errorf("Regions should stay sorted by start")
	}

	if err := set.Move(a.ID, -10); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	moved := set.Regions[set.Find(a.ID)]
	if moved.Start != 0 || moved.End != 3 {
		t.Errorf("Move should stop at zero keeping length, got [%f, %f]", moved.Start, moved.End)
	}

	if err := set.Resize(b.ID, 4, 9); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if err := set.Resize(b.ID, 9, 4); err == nil {
		t.Error("Expected error for inverted span")
	}

	if err := set.SetEnabled(a.ID, false); err != nil {
		t.Fatalf("SetEnabled failed: %v", err)
	}
	enabled := set.Enabled()
	if len(enabled) != 1 || enabled[0].ID != b.ID {
		t.Errorf("Enabled() = %+v", enabled)
	}

	if err := set.Delete(a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if set.Find(a.ID) != -1 || len(set.Regions) != 1 {
		t.Errorf("Delete did not remove region")
	}
	if err := set.Delete("missing"); err == nil {
		t.Error("Expected error deleting unknown region")
	}
}

func TestRegionsWriteRead(t *testing.T) {
	set := NewRegionSet(1280, 720, []Region{
		{ID: "r1", Start: 1, End: 3, ZoomLevel: 2, FocusX: 640, FocusY: 360, Enabled: true},
		{ID: "r2", Start: 6, End: 9, ZoomLevel: 1.5, FocusX: 500, FocusY: 300, Enabled: false},
	})

	path := filepath.Join(t.TempDir(), "demo.zoom.yaml")
	if err := WriteRegions(set, path); err != nil {
		t.Fatalf("WriteRegions failed: %v", err)
	}

	read, err := ReadRegions(path)
	if err != nil {
		t.Fatalf("ReadRegions failed: %v", err)
	}

	if read.Version != "1.0" || read.SourceWidth != 1280 || len(read.Regions) != 2 {
		t.Errorf("Round trip mismatch: %+v", read)
	}
	if read.Regions[1] != set.Regions[1] {
		t.Errorf("Region mismatch: %+v vs %+v", read.Regions[1], set.Regions[1])
	}
}

func TestRegionsErrorsWrapCause(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-dir", "demo.zoom.yaml")

	err := WriteRegions(NewRegionSet(1280, 720, nil), missing)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected write error to wrap fs.ErrNotExist, got %v", err)
	}
	if _, err := ReadRegions(missing); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected read error to wrap fs.ErrNotExist, got %v", err)
	}
}

func TestRegionsPath(t *testing.T) {
	tests := map[string]string{
		"/tmp/demo.mov":         "/tmp/demo.zoom.yaml",
		"/tmp/demo.events.json": "/tmp/demo.zoom.yaml",
	}
	for in, want := range tests {
		if got := RegionsPath(in); got != want {
			t.Errorf("RegionsPath(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestFindLatestRegions(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		filepath.Join(dir, "a.zoom.yaml"),
		filepath.Join(dir, "b.zoom.yaml"),
		filepath.Join(dir, "c.zoom.yaml"),
	}

	for i, f := range files {
		if err := os.WriteFile(f, []byte("version: \"1.0\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}
	os.WriteFile(filepath.Join(dir, "ignored.yaml"), []byte("x"), 0644)

	latest, err := FindLatestRegions(dir)
	if err != nil {
		t.Fatalf("FindLatestRegions failed: %v", err)
	}
	if latest != files[2] {
		t.Errorf("Expected %s, got %s", files[2], latest)
	}

	if _, err := FindLatestRegions(t.TempDir()); err == nil {
		t.Error("Expected error for empty directory")
	}
}
