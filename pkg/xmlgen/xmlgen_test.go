package xmlgen

import (
	"encoding/xml"
	"image"
	"strings"
	"testing"

	"github.com/phrayse/VAS-File-Architect/pkg/types"
)

func testZone(dir string, bounds image.Rectangle, masks ...*types.MaskImage) *types.WatchZone {
	return &types.WatchZone{Directory: dir, Bounds: bounds, Masks: masks}
}

func testMask(name, dir string) *types.MaskImage {
	return &types.MaskImage{Name: name, Directory: dir}
}

func TestGenerate(t *testing.T) {
	root := "/runs/demo"
	zone := testZone("/runs/demo/splits", image.Rect(5, 5, 40, 30),
		testMask("boss", "/runs/demo/splits"),
		testMask("door", "/runs/demo/splits"))

	doc, names, err := New().Generate(root, []*types.WatchZone{zone})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	want := xml.Header + `<GameProfile xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
	<!--Generated using VAS File Architect: https://github.com/phrayse/VAS-File-Architect -->
	<Name>demo</Name>
	<Screens>
		<Screen>
			<Name>Game</Name>
			<Geometry>
				<Width>1280</Width>
				<Height>720</Height>
			</Geometry>
			<WatchZones>
				<!--ErrorMetric options: default=PeakSignalToNoise | MeanErrorPerPixel | Absolute | StructuralDissimilarity-->
				<WatchZone>
					<Name>splits</Name>
					<!--ErrorMetric></ErrorMetric-->
					<!--Equalize>false</Equalize-->
					<Geometry>
						<X>5</X>
						<Y>5</Y>
						<Width>35</Width>
						<Height>25</Height>
					</Geometry>
					<Watches>
						<Watcher>
							<Name>splits</Name>
							<WatchImages>
								<WatchImage>
									<FilePath>splits/boss.png</FilePath>
								</WatchImage>
								<WatchImage>
									<FilePath>splits/door.png</FilePath>
								</WatchImage>
							</WatchImages>
						</Watcher>
					</Watches>
				</WatchZone>
			</WatchZones>
		</Screen>
	</Screens>
</GameProfile>
`

	if string(doc) != want {
		t.Errorf("Unexpected document:\n%s\nwant:\n%s", doc, want)
	}

	if len(names) != 2 || names[0] != "boss" || names[1] != "door" {
		t.Errorf("Unexpected mask names %v", names)
	}
}

func TestGenerateRootLevelMask(t *testing.T) {
	root := "/runs/demo"
	zone := testZone(root, image.Rect(0, 0, 10, 10), testMask("title", root))

	doc, _, err := New().Generate(root, []*types.WatchZone{zone})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(string(doc), "<FilePath>title.png</FilePath>") {
		t.Errorf("Expected bare file path for root-level mask:\n%s", doc)
	}
	// The zone inherits the root directory's stem.
	if !strings.Contains(string(doc), "<Name>demo</Name>") {
		t.Errorf("Expected zone named demo:\n%s", doc)
	}
}

func TestGenerateUniqueZoneNames(t *testing.T) {
	root := "/runs/demo"
	zones := []*types.WatchZone{
		testZone("/runs/demo/act1/final", image.Rect(0, 0, 5, 5), testMask("a", "/runs/demo/act1/final")),
		testZone("/runs/demo/act2/final", image.Rect(0, 0, 5, 5), testMask("b", "/runs/demo/act2/final")),
	}

	doc, names, err := New().Generate(root, zones)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	text := string(doc)
	if !strings.Contains(text, "<Name>final</Name>") || !strings.Contains(text, "<Name>final_1</Name>") {
		t.Errorf("Expected zone names final and final_1:\n%s", text)
	}
	// Watcher names keep the raw stem.
	if strings.Count(text, "<Name>final</Name>") != 3 {
		t.Errorf("Expected both watchers plus the first zone to use the raw stem:\n%s", text)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Unexpected mask names %v", names)
	}
}

func TestGenerateMetricAndEqualize(t *testing.T) {
	root := "/runs/demo"
	equalize := true
	gen := NewWithConfig(Config{Metric: "Absolute", Equalize: &equalize})

	zone := testZone("/runs/demo/splits", image.Rect(0, 0, 5, 5), testMask("a", "/runs/demo/splits"))
	doc, _, err := gen.Generate(root, []*types.WatchZone{zone})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	text := string(doc)
	if !strings.Contains(text, "<ErrorMetric>Absolute</ErrorMetric>") {
		t.Errorf("Expected ErrorMetric element:\n%s", text)
	}
	if !strings.Contains(text, "<Equalize>true</Equalize>") {
		t.Errorf("Expected Equalize element:\n%s", text)
	}
	if strings.Contains(text, "<!--ErrorMetric></ErrorMetric-->") || strings.Contains(text, "<!--Equalize>false</Equalize-->") {
		t.Errorf("Expected placeholders to be replaced:\n%s", text)
	}
}

func TestGenerateZoneMetricWins(t *testing.T) {
	root := "/runs/demo"
	gen := NewWithConfig(Config{Metric: "Absolute"})

	zone := testZone("/runs/demo/splits", image.Rect(0, 0, 5, 5), testMask("a", "/runs/demo/splits"))
	zone.Metric = "MeanErrorPerPixel"

	doc, _, err := gen.Generate(root, []*types.WatchZone{zone})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(string(doc), "<ErrorMetric>MeanErrorPerPixel</ErrorMetric>") {
		t.Errorf("Expected the zone metric to win:\n%s", doc)
	}
}

func TestGenerateCustomScreen(t *testing.T) {
	gen := NewWithConfig(Config{ScreenName: "Capture", ScreenWidth: 1920, ScreenHeight: 1080, MaskExtension: ".webp"})

	zone := testZone("/runs/demo/splits", image.Rect(0, 0, 5, 5), testMask("a", "/runs/demo/splits"))
	doc, _, err := gen.Generate("/runs/demo", []*types.WatchZone{zone})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	text := string(doc)
	if !strings.Contains(text, "<Name>Capture</Name>") {
		t.Errorf("Expected screen name Capture:\n%s", text)
	}
	if !strings.Contains(text, "<Width>1920</Width>") || !strings.Contains(text, "<Height>1080</Height>") {
		t.Errorf("Expected 1920x1080 geometry:\n%s", text)
	}
	if !strings.Contains(text, "<FilePath>splits/a.webp</FilePath>") {
		t.Errorf("Expected webp file path:\n%s", text)
	}
}
