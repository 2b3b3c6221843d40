package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// MinSideFraction 裁剪框每条边的最小占比
const MinSideFraction = 0.05

var (
	ErrInvalidBox = errors.New("invalid crop box")
	ErrNoSubject  = errors.New("no subject detected")
)

// Box 以图片宽高为 1 的相对裁剪框
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Validate 校验框是否合法：0 ≤ left < right ≤ 1，0 ≤ top < bottom ≤ 1，宽高均不小于 MinSideFraction
func (b Box) Validate() error {
	for _, v := range []float64{b.Left, b.Top, b.Right, b.Bottom} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non finite value", ErrInvalidBox)
		}
	}
	if b.Left < 0 || b.Top < 0 || b.Right > 1 || b.Bottom > 1 {
		return fmt.Errorf("%w: out of range", ErrInvalidBox)
	}
	if b.Left >= b.Right || b.Top >= b.Bottom {
		return fmt.Errorf("%w: inverted edges", ErrInvalidBox)
	}
	if b.Right-b.Left < MinSideFraction || b.Bottom-b.Top < MinSideFraction {
		return fmt.Errorf("%w: too small", ErrInvalidBox)
	}
	return nil
}

// FixedTrim 四边各裁掉 percent%
func FixedTrim(percent float64) Box {
	if percent < 0 || percent > 45 {
		percent = 5
	}
	f := percent / 100
	return Box{Left: f, Top: f, Right: 1 - f, Bottom: 1 - f}
}

// Pixels 把相对框换算为像素矩形
func (b Box) Pixels(bounds image.Rectangle) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	rect := image.Rect(
		bounds.Min.X+int(math.Floor(b.Left*w)),
		bounds.Min.Y+int(math.Floor(b.Top*h)),
		bounds.Min.X+int(math.Ceil(b.Right*w)),
		bounds.Min.Y+int(math.Ceil(b.Bottom*h)),
	)
	rect = rect.Intersect(bounds)
	if rect.Empty() {
		return bounds
	}
	return rect
}

func roundFraction(v float64) float64 {
	return math.Round(v*10000) / 10000
}
