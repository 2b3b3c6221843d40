package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
)

func newCanvas(w, h int, bg color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, bg)
		}
	}
	return img
}

func fillRect(img *image.NRGBA, rect image.Rectangle, c color.NRGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func TestBoxValidate(t *testing.T) {
	cases := []struct {
		name string
		box  Box
		ok   bool
	}{
		{name: "full", box: Box{0, 0, 1, 1}, ok: true},
		{name: "inner", box: Box{0.1, 0.2, 0.9, 0.8}, ok: true},
		{name: "inverted", box: Box{0.6, 0.2, 0.4, 0.8}, ok: false},
		{name: "out of range", box: Box{-0.1, 0, 1, 1}, ok: false},
		{name: "beyond one", box: Box{0, 0, 1.2, 1}, ok: false},
		{name: "too thin", box: Box{0.5, 0, 0.52, 1}, ok: false},
		{name: "nan", box: Box{math.NaN(), 0, 1, 1}, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.box.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidBox) {
				t.Fatalf("expected ErrInvalidBox, got %v", err)
			}
		})
	}
}

func TestDetectSubjectOnSolidBackground(t *testing.T) {
	img := newCanvas(100, 100, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	fillRect(img, image.Rect(20, 30, 60, 80), color.NRGBA{R: 200, G: 20, B: 20, A: 255})

	box, err := DetectSubject(img, DefaultThreshold)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	want := Box{Left: 0.18, Top: 0.28, Right: 0.62, Bottom: 0.82}
	if math.Abs(box.Left-want.Left) > 0.001 || math.Abs(box.Top-want.Top) > 0.001 ||
		math.Abs(box.Right-want.Right) > 0.001 || math.Abs(box.Bottom-want.Bottom) > 0.001 {
		t.Fatalf("unexpected box: %+v", box)
	}
}

func TestDetectSubjectUsesAlpha(t *testing.T) {
	img := newCanvas(50, 50, color.NRGBA{})
	fillRect(img, image.Rect(10, 10, 40, 40), color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	box, err := DetectSubject(img, 0)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if box.Left <= 0 || box.Right >= 1 || box.Validate() != nil {
		t.Fatalf("unexpected box: %+v", box)
	}
}

func TestDetectSubjectUniformImage(t *testing.T) {
	img := newCanvas(40, 40, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	if _, err := DetectSubject(img, DefaultThreshold); !errors.Is(err, ErrNoSubject) {
		t.Fatalf("expected ErrNoSubject, got %v", err)
	}
}

func TestFixedTrim(t *testing.T) {
	box := FixedTrim(10)
	if box.Left != 0.1 || box.Right != 0.9 {
		t.Fatalf("unexpected trim box: %+v", box)
	}
	if fallback := FixedTrim(80); fallback.Left != 0.05 {
		t.Fatalf("out of range percent should fall back to 5, got %+v", fallback)
	}
}

func TestCropAndResizeDimensions(t *testing.T) {
	img := newCanvas(200, 100, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	cropped := Crop(img, Box{Left: 0.25, Top: 0, Right: 0.75, Bottom: 1}, 0)
	if cropped.Bounds().Dx() != 100 || cropped.Bounds().Dy() != 100 {
		t.Fatalf("unexpected crop size: %v", cropped.Bounds())
	}
	capped := Crop(img, Box{Left: 0, Top: 0, Right: 1, Bottom: 1}, 50)
	if capped.Bounds().Dx() != 50 || capped.Bounds().Dy() != 25 {
		t.Fatalf("unexpected capped size: %v", capped.Bounds())
	}
	resized := Resize(img, 1000, 1000)
	if resized.Bounds().Dx() != 200 {
		t.Fatalf("resize must not upscale, got %v", resized.Bounds())
	}
}

func TestEncodeRoundTripsAllFormats(t *testing.T) {
	img := newCanvas(16, 8, color.NRGBA{R: 10, G: 200, B: 30, A: 128})
	for _, format := range []string{constants.ImageFormatWebP, constants.ImageFormatPNG, "jpg"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, img, format, 80); err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			decoded, _, err := Decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if decoded.Bounds().Dx() != 16 || decoded.Bounds().Dy() != 8 {
				t.Fatalf("unexpected bounds: %v", decoded.Bounds())
			}
		})
	}
	if err := Encode(&bytes.Buffer{}, img, "tiff", 0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSaveWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.png")
	img := newCanvas(4, 4, color.NRGBA{A: 255})
	if err := Save(path, img, constants.ImageFormatPNG, 0); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, _, err := Open(path); err != nil {
		t.Fatalf("open saved file failed: %v", err)
	}
}
