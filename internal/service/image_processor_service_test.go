package service

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/whimsicalfrog/wf-admin/internal/config"
	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/metrics"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"

	"gorm.io/gorm"
)

func setupImageProcessor(t *testing.T, aiCfg config.AIConfig) (*ImageProcessorService, *gorm.DB, string) {
	t.Helper()
	db := openServiceTestDB(t)
	root := t.TempDir()
	cfg := config.ImagesConfig{
		Root:                root,
		PublicPrefix:        "images/",
		ProcessedDir:        "items/processed",
		BackgroundDir:       "backgrounds",
		FallbackTrimPercent: 5,
		JPEGQuality:         85,
	}
	providers := NewAIProviderService(newTestSettingService(db), aiCfg, metrics.NewCollector(nil))
	return NewImageProcessorService(cfg, providers, repository.NewItemImageRepository(db)), db, root
}

// writeFixture 白底 100×80，红色主体位于 (30,20)-(70,60)
func writeFixture(t *testing.T, root, rel string, subject bool) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 100, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 100; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if subject && x >= 30 && x < 70 && y >= 20 && y < 60 {
				c = color.NRGBA{R: 200, G: 20, B: 20, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture failed: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode fixture failed: %v", err)
	}
}

func stepStatus(result *AutoCropResult, stage string) string {
	for _, step := range result.ProcessingSteps {
		if step.Stage == stage {
			return step.Status
		}
	}
	return ""
}

func TestAutoCropEdgeDetection(t *testing.T) {
	svc, db, root := setupImageProcessor(t, config.AIConfig{})
	writeFixture(t, root, "items/frog-tee.png", true)

	result := svc.AutoCrop(context.Background(), AutoCropInput{
		SourcePath: "images/items/frog-tee.png",
		SKU:        "WF-TS-001",
		Formats:    []string{"webp", "png", "jpg"},
	})
	if !result.Success || result.Method != constants.CropMethodEdgeDetection {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.CroppedSize.Width >= 100 || result.CroppedSize.Height >= 80 {
		t.Fatalf("crop should shrink the image: %+v", result.CroppedSize)
	}
	want := map[string]string{
		"webp": "images/items/processed/items/frog-tee.webp",
		"png":  "images/items/processed/items/frog-tee.png",
		"jpeg": "images/items/processed/items/frog-tee.jpg",
	}
	for format, path := range want {
		if result.Outputs[format] != path {
			t.Fatalf("format %s: want %s, got %s", format, path, result.Outputs[format])
		}
		if _, err := os.Stat(filepath.Join(root, "items", "processed", "items", filepath.Base(path))); err != nil {
			t.Fatalf("output %s missing: %v", path, err)
		}
	}

	var row models.ItemImage
	if err := db.Where("sku = ?", "WF-TS-001").First(&row).Error; err != nil {
		t.Fatalf("provenance row missing: %v", err)
	}
	if row.ImagePath != want["webp"] || row.OriginalPath != "images/items/frog-tee.png" || row.ProcessedWithAI {
		t.Fatalf("unexpected provenance row: %+v", row)
	}
	if row.TrimData["method"] != constants.CropMethodEdgeDetection || row.ProcessedAt == nil {
		t.Fatalf("unexpected trim data: %+v", row.TrimData)
	}

	// 再次处理同一文件只更新记录
	svc.AutoCrop(context.Background(), AutoCropInput{SourcePath: "items/frog-tee.png", SKU: "WF-TS-001"})
	var count int64
	db.Model(&models.ItemImage{}).Where("sku = ?", "WF-TS-001").Count(&count)
	if count != 1 {
		t.Fatalf("expected one provenance row, got %d", count)
	}
}

func TestAutoCropFallsBackToFixedTrim(t *testing.T) {
	svc, _, root := setupImageProcessor(t, config.AIConfig{})
	writeFixture(t, root, "blank.png", false)
	trim := 10.0

	result := svc.AutoCrop(context.Background(), AutoCropInput{SourcePath: "blank.png", Formats: []string{"png"}, TrimPercent: &trim})
	if !result.Success || result.Method != constants.CropMethodFixedTrim {
		t.Fatalf("unexpected result: %+v", result)
	}
	if stepStatus(result, constants.CropMethodEdgeDetection) != constants.StepStatusFailed {
		t.Fatalf("edge detection step should fail: %+v", result.ProcessingSteps)
	}
	if result.CroppedSize.Width != 80 || result.CroppedSize.Height != 64 {
		t.Fatalf("unexpected cropped size: %+v", result.CroppedSize)
	}
	if stepStatus(result, "provenance") != constants.StepStatusSkipped {
		t.Fatalf("provenance should be skipped without sku")
	}
}

func TestAutoCropAIVision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"left\":0.25,\"top\":0.25,\"right\":0.75,\"bottom\":0.75}"}}]}`))
	}))
	defer srv.Close()

	svc, db, root := setupImageProcessor(t, config.AIConfig{
		Provider: constants.AIProviderOpenAI,
		APIKey:   "k",
		BaseURLs: map[string]string{constants.AIProviderOpenAI: srv.URL},
	})
	writeFixture(t, root, "items/frog-tee.png", true)

	result := svc.AutoCrop(context.Background(), AutoCropInput{SourcePath: "items/frog-tee.png", SKU: "WF-TS-001", UseAI: true})
	if !result.Success || result.Method != constants.CropMethodAI {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.CroppedSize.Width != 50 || result.CroppedSize.Height != 40 {
		t.Fatalf("unexpected cropped size: %+v", result.CroppedSize)
	}
	var row models.ItemImage
	if err := db.Where("sku = ?", "WF-TS-001").First(&row).Error; err != nil || !row.ProcessedWithAI {
		t.Fatalf("expected ai provenance row, got %+v err=%v", row, err)
	}
}

func TestAutoCropRejectsMalformedAIBox(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"left\":0.8,\"top\":0.1,\"right\":0.2,\"bottom\":0.9}"}}]}`))
	}))
	defer srv.Close()

	svc, _, root := setupImageProcessor(t, config.AIConfig{
		Provider: constants.AIProviderOpenAI,
		APIKey:   "k",
		BaseURLs: map[string]string{constants.AIProviderOpenAI: srv.URL},
	})
	writeFixture(t, root, "frog.png", true)

	result := svc.AutoCrop(context.Background(), AutoCropInput{SourcePath: "frog.png", UseAI: true})
	if result.Method != constants.CropMethodEdgeDetection {
		t.Fatalf("malformed box should fall through to edge detection, got %s", result.Method)
	}
	if stepStatus(result, constants.CropMethodAI) != constants.StepStatusFailed {
		t.Fatalf("ai step should be failed: %+v", result.ProcessingSteps)
	}
}

func TestAutoCropAISkippedWhenNotLive(t *testing.T) {
	svc, _, root := setupImageProcessor(t, config.AIConfig{})
	writeFixture(t, root, "frog.png", true)

	result := svc.AutoCrop(context.Background(), AutoCropInput{SourcePath: "frog.png", UseAI: true})
	if stepStatus(result, constants.CropMethodAI) != constants.StepStatusSkipped {
		t.Fatalf("ai step should be skipped for jons_ai: %+v", result.ProcessingSteps)
	}
	if result.Method != constants.CropMethodEdgeDetection {
		t.Fatalf("unexpected method %s", result.Method)
	}
}

func TestAutoCropNeverErrors(t *testing.T) {
	svc, _, root := setupImageProcessor(t, config.AIConfig{})
	writeFixture(t, root, "frog.png", true)

	cases := []AutoCropInput{
		{SourcePath: "../etc/passwd"},
		{SourcePath: "missing.png"},
		{SourcePath: "frog.png", Formats: []string{"bmp"}},
	}
	for _, input := range cases {
		result := svc.AutoCrop(context.Background(), input)
		if result.Success || len(result.ProcessingSteps) == 0 {
			t.Fatalf("input %+v: expected failed result with steps, got %+v", input, result)
		}
		if result.ProcessingSteps[0].Status != constants.StepStatusFailed {
			t.Fatalf("input %+v: expected failed first step", input)
		}
	}
}

func TestGenerateDualFormat(t *testing.T) {
	svc, _, root := setupImageProcessor(t, config.AIConfig{})
	writeFixture(t, root, "uploads/room.png", true)

	result, err := svc.GenerateDualFormat(DualFormatInput{SourcePath: "uploads/room.png", MaxWidth: 50, MaxHeight: 50, Name: "Room 1 Main"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if result.WebPPath != "images/backgrounds/Room-1-Main.webp" || result.PNGPath != "images/backgrounds/Room-1-Main.png" {
		t.Fatalf("unexpected paths: %+v", result)
	}
	if result.Size.Width != 50 || result.Size.Height != 40 {
		t.Fatalf("unexpected size: %+v", result.Size)
	}
	for _, name := range []string{"Room-1-Main.webp", "Room-1-Main.png"} {
		if _, err := os.Stat(filepath.Join(root, "backgrounds", name)); err != nil {
			t.Fatalf("%s missing: %v", name, err)
		}
	}

	if _, err := svc.GenerateDualFormat(DualFormatInput{SourcePath: "/../../outside.png"}); !errors.Is(err, ErrImagePathInvalid) {
		t.Fatalf("expected ErrImagePathInvalid, got %v", err)
	}
}

func TestConfineImagePath(t *testing.T) {
	root := t.TempDir()
	cases := []struct {
		path string
		rel  string
		ok   bool
	}{
		{"images/items/a.png", filepath.Join("items", "a.png"), true},
		{"/items/a.png", filepath.Join("items", "a.png"), true},
		{"items/../a.png", "a.png", true},
		{"items/../../a.png", "", false},
		{"..", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		_, rel, err := confineImagePath(root, "images/", tc.path)
		if tc.ok && (err != nil || rel != tc.rel) {
			t.Fatalf("path %q: want %q, got %q err=%v", tc.path, tc.rel, rel, err)
		}
		if !tc.ok && !errors.Is(err, ErrImagePathInvalid) {
			t.Fatalf("path %q: expected ErrImagePathInvalid, got %v", tc.path, err)
		}
	}
}

func TestAutoCropKeepsSameNamedSourcesApart(t *testing.T) {
	svc, _, root := setupImageProcessor(t, config.AIConfig{})
	writeFixture(t, root, "items/tees/frog.png", true)
	writeFixture(t, root, "items/mugs/frog.png", false)

	tee := svc.AutoCrop(context.Background(), AutoCropInput{SourcePath: "items/tees/frog.png", Formats: []string{"png"}})
	mug := svc.AutoCrop(context.Background(), AutoCropInput{SourcePath: "items/mugs/frog.png", Formats: []string{"png"}})
	if !tee.Success || !mug.Success {
		t.Fatalf("autocrop failed: %+v %+v", tee.ProcessingSteps, mug.ProcessingSteps)
	}
	if tee.Outputs["png"] != "images/items/processed/items/tees/frog.png" || mug.Outputs["png"] != "images/items/processed/items/mugs/frog.png" {
		t.Fatalf("outputs should not collide: %s %s", tee.Outputs["png"], mug.Outputs["png"])
	}

	for _, tc := range []struct {
		rel  string
		size *ImageSize
	}{
		{rel: "items/processed/items/tees/frog.png", size: tee.CroppedSize},
		{rel: "items/processed/items/mugs/frog.png", size: mug.CroppedSize},
	} {
		f, err := os.Open(filepath.Join(root, filepath.FromSlash(tc.rel)))
		if err != nil {
			t.Fatalf("open %s failed: %v", tc.rel, err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s failed: %v", tc.rel, err)
		}
		if cfg.Width != tc.size.Width || cfg.Height != tc.size.Height {
			t.Fatalf("%s holds %dx%d, want %dx%d", tc.rel, cfg.Width, cfg.Height, tc.size.Width, tc.size.Height)
		}
	}
}
