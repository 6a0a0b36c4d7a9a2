package vasfa

import (
	"archive/zip"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phrayse/VAS-File-Architect/pkg/catalog"
	"github.com/phrayse/VAS-File-Architect/pkg/cluster"
)

func writeMaskFile(t *testing.T, path string, width, height int, visible image.Rectangle) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := visible.Min.Y; y < visible.Max.Y; y++ {
		for x := visible.Min.X; x < visible.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

// createTestTree builds a run directory with one root mask and a splits
// subdirectory holding a near pair plus one distant mask.
func createTestTree(t *testing.T) string {
	root := t.TempDir()
	writeMaskFile(t, filepath.Join(root, "title.png"), 100, 100, image.Rect(10, 10, 90, 90))
	writeMaskFile(t, filepath.Join(root, "splits", "boss.png"), 80, 60, image.Rect(5, 5, 25, 15))
	writeMaskFile(t, filepath.Join(root, "splits", "door.png"), 80, 60, image.Rect(30, 5, 50, 15))
	writeMaskFile(t, filepath.Join(root, "splits", "far.png"), 80, 60, image.Rect(5, 40, 25, 50))
	return root
}

func TestNew(t *testing.T) {
	if New(nil) == nil {
		t.Error("New() returned nil")
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() != Version {
		t.Errorf("Expected %s, got %s", Version, GetVersion())
	}
}

func TestAnalyze(t *testing.T) {
	root := createTestTree(t)

	analysis, err := New(nil).Analyze(context.Background(), root)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(analysis.Masks) != 4 {
		t.Fatalf("Expected 4 masks, got %d", len(analysis.Masks))
	}
	if len(analysis.Zones) != 3 {
		t.Fatalf("Expected 3 zones, got %d", len(analysis.Zones))
	}

	// boss and door sit 5px apart and share a zone.
	pair := analysis.Zones[0]
	if len(pair.Masks) != 2 {
		t.Errorf("Expected boss and door in one zone, got %d members", len(pair.Masks))
	}
	if pair.Bounds != image.Rect(5, 5, 50, 15) {
		t.Errorf("Expected zone bounds (5,5)-(50,15), got %v", pair.Bounds)
	}

	if len(analysis.Zones[1].Masks) != 1 || analysis.Zones[1].Masks[0].Name != "far" {
		t.Error("Expected far in its own zone")
	}
	if len(analysis.Zones[2].Masks) != 1 || analysis.Zones[2].Masks[0].Name != "title" {
		t.Error("Expected title in its own zone")
	}

	// Analyze must not write anything.
	if _, err := os.Stat(filepath.Join(root, filepath.Base(root)+".vas")); !os.IsNotExist(err) {
		t.Error("Expected no archive after Analyze")
	}
}

func TestAnalyzeRecordsSkips(t *testing.T) {
	root := createTestTree(t)
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write notes.txt: %v", err)
	}

	analysis, err := New(nil).Analyze(context.Background(), root)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(analysis.Skipped) != 1 {
		t.Fatalf("Expected 1 skip record, got %d", len(analysis.Skipped))
	}
	if filepath.Base(analysis.Skipped[0].Path) != "notes.txt" {
		t.Errorf("Unexpected skip %+v", analysis.Skipped[0])
	}
}

func TestGenerate(t *testing.T) {
	root := createTestTree(t)

	result, err := New(nil).Generate(context.Background(), root)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	want := filepath.Join(root, filepath.Base(root)+".vas")
	if result.ArchivePath != want {
		t.Errorf("Expected archive at %s, got %s", want, result.ArchivePath)
	}

	zr, err := zip.OpenReader(result.ArchivePath)
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	defer zr.Close()

	wantEntries := []string{
		"splits/boss.png",
		"splits/door.png",
		"splits/far.png",
		"title.png",
		"script.asl",
		"structure.xml",
	}
	if len(zr.File) != len(wantEntries) {
		t.Fatalf("Expected %d entries, got %d", len(wantEntries), len(zr.File))
	}
	for i, name := range wantEntries {
		if zr.File[i].Name != name {
			t.Errorf("Expected entry %s at position %d, got %s", name, i, zr.File[i].Name)
		}
	}

	profile := readArchiveEntry(t, zr, "structure.xml")
	if !strings.Contains(profile, "<Name>splits</Name>") {
		t.Errorf("Expected a splits zone in the profile:\n%s", profile)
	}
	for _, fragment := range []string{"<X>5</X>", "<Y>5</Y>", "<Width>45</Width>", "<Height>10</Height>"} {
		if !strings.Contains(profile, fragment) {
			t.Errorf("Expected %s in the profile:\n%s", fragment, profile)
		}
	}

	script := readArchiveEntry(t, zr, "script.asl")
	for _, name := range []string{"boss", "door", "far", "title"} {
		if !strings.Contains(script, `// features["`+name+`"]`) {
			t.Errorf("Expected %s in the script:\n%s", name, script)
		}
	}

	// Members of the shared zone are cropped to the zone rectangle.
	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("Failed to open boss entry: %v", err)
	}
	defer rc.Close()
	img, err := png.Decode(rc)
	if err != nil {
		t.Fatalf("Failed to decode boss entry: %v", err)
	}
	if img.Bounds().Dx() != 45 || img.Bounds().Dy() != 10 {
		t.Errorf("Expected 45x10 crop, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestGenerateRenamedMask(t *testing.T) {
	root := t.TempDir()
	writeMaskFile(t, filepath.Join(root, "pause.png"), 60, 60, image.Rect(10, 10, 30, 30))
	writeMaskFile(t, filepath.Join(root, "stage", "pause.png"), 60, 60, image.Rect(5, 5, 20, 20))

	result, err := New(nil).Generate(context.Background(), root)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	zr, err := zip.OpenReader(result.ArchivePath)
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	defer zr.Close()

	// The root copy is walked first and keeps its name; the stage copy is
	// renamed, and the new name follows through to every artifact.
	wantEntries := []string{"pause.png", "stage/pause_1.png", "script.asl", "structure.xml"}
	if len(zr.File) != len(wantEntries) {
		t.Fatalf("Expected %d entries, got %d", len(wantEntries), len(zr.File))
	}
	for i, name := range wantEntries {
		if zr.File[i].Name != name {
			t.Errorf("Expected entry %s at position %d, got %s", name, i, zr.File[i].Name)
		}
	}

	profile := readArchiveEntry(t, zr, "structure.xml")
	if !strings.Contains(profile, "<FilePath>stage/pause_1.png</FilePath>") {
		t.Errorf("Expected renamed FilePath in the profile:\n%s", profile)
	}

	script := readArchiveEntry(t, zr, "script.asl")
	if !strings.Contains(script, `// features["pause_1"]`) {
		t.Errorf("Expected renamed mask in the script:\n%s", script)
	}
}

func TestGenerateNoUsableImages(t *testing.T) {
	_, err := New(nil).Generate(context.Background(), t.TempDir())
	if !errors.Is(err, catalog.ErrNoUsableImages) {
		t.Errorf("Expected ErrNoUsableImages, got %v", err)
	}
}

func TestNewWithConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cluster = cluster.Config{Proximity: 0}

	root := createTestTree(t)
	analysis, err := NewWithConfig(cfg, nil).Analyze(context.Background(), root)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// At proximity 0 the boss/door pair splits apart.
	if len(analysis.Zones) != 4 {
		t.Errorf("Expected 4 zones at proximity 0, got %d", len(analysis.Zones))
	}
}

func readArchiveEntry(t *testing.T, zr *zip.ReadCloser, name string) string {
	t.Helper()
	for _, entry := range zr.File {
		if entry.Name != name {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("Entry %s not found", name)
	return ""
}
