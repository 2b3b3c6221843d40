package imaging

import (
	"image"
	"image/color"
	"math"
)

const (
	// DefaultThreshold 与背景色的最大通道差超过该值视为主体
	DefaultThreshold = 30
	// PaddingFraction 检测结果四周留白
	PaddingFraction = 0.02

	cornerSample     = 4
	alphaTransparent = 16
)

// DetectSubject 以边缘检测定位主体并返回带留白的相对框
// 四角为透明时按 alpha 判断，否则以四角采样平均色作为背景
func DetectSubject(img image.Image, threshold int) (Box, error) {
	bounds := img.Bounds()
	if bounds.Dx() < 2 || bounds.Dy() < 2 {
		return Box{}, ErrNoSubject
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	bg, transparent := sampleBackground(img)
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if !isSubject(c, bg, transparent, threshold) {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX || maxY < minY {
		return Box{}, ErrNoSubject
	}

	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	box := Box{
		Left:   math.Max(0, float64(minX-bounds.Min.X)/w-PaddingFraction),
		Top:    math.Max(0, float64(minY-bounds.Min.Y)/h-PaddingFraction),
		Right:  math.Min(1, float64(maxX-bounds.Min.X+1)/w+PaddingFraction),
		Bottom: math.Min(1, float64(maxY-bounds.Min.Y+1)/h+PaddingFraction),
	}
	box = Box{
		Left:   roundFraction(box.Left),
		Top:    roundFraction(box.Top),
		Right:  roundFraction(box.Right),
		Bottom: roundFraction(box.Bottom),
	}
	if err := box.Validate(); err != nil {
		return Box{}, ErrNoSubject
	}
	return box, nil
}

func isSubject(c, bg color.NRGBA, transparent bool, threshold int) bool {
	if transparent {
		return int(c.A) > threshold
	}
	if c.A < alphaTransparent {
		return false
	}
	diff := absDiff(c.R, bg.R)
	if d := absDiff(c.G, bg.G); d > diff {
		diff = d
	}
	if d := absDiff(c.B, bg.B); d > diff {
		diff = d
	}
	return diff > threshold
}

// sampleBackground 对四角 cornerSample×cornerSample 区域取平均
func sampleBackground(img image.Image) (color.NRGBA, bool) {
	bounds := img.Bounds()
	size := cornerSample
	if bounds.Dx() < size*2 || bounds.Dy() < size*2 {
		size = 1
	}
	origins := []image.Point{
		{X: bounds.Min.X, Y: bounds.Min.Y},
		{X: bounds.Max.X - size, Y: bounds.Min.Y},
		{X: bounds.Min.X, Y: bounds.Max.Y - size},
		{X: bounds.Max.X - size, Y: bounds.Max.Y - size},
	}
	var r, g, b, a, n int
	for _, origin := range origins {
		for dy := 0; dy < size; dy++ {
			for dx := 0; dx < size; dx++ {
				c := color.NRGBAModel.Convert(img.At(origin.X+dx, origin.Y+dy)).(color.NRGBA)
				r += int(c.R)
				g += int(c.G)
				b += int(c.B)
				a += int(c.A)
				n++
			}
		}
	}
	avg := color.NRGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: uint8(a / n)}
	return avg, avg.A < alphaTransparent
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
