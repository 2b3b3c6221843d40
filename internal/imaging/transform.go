package imaging

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Crop 按相对框裁剪到新画布（Catmull-Rom 重采样），maxDimension > 0 时等比缩小到最长边不超过该值
func Crop(img image.Image, box Box, maxDimension int) *image.NRGBA {
	src := box.Pixels(img.Bounds())
	w, h := fitWithin(src.Dx(), src.Dy(), maxDimension, maxDimension)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}

// Resize 等比缩放到 maxWidth×maxHeight 以内，不放大
func Resize(img image.Image, maxWidth, maxHeight int) *image.NRGBA {
	bounds := img.Bounds()
	w, h := fitWithin(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// Flatten 合成到纯色底上（JPEG 无透明通道）
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}

func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 && h > maxH {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	if scale >= 1 {
		return w, h
	}
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}
