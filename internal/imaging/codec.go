package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/constants"

	"github.com/HugoSmits86/nativewebp"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// DefaultJPEGQuality JPEG 默认质量
const DefaultJPEGQuality = 90

// Decode 解码 png/jpeg/gif/webp
func Decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}

// Open 从文件解码
func Open(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	return Decode(f)
}

// NormalizeFormat 统一格式名（jpg → jpeg）
func NormalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "jpg" {
		return constants.ImageFormatJPEG
	}
	return f
}

// Extension 格式对应的扩展名
func Extension(format string) string {
	switch NormalizeFormat(format) {
	case constants.ImageFormatJPEG:
		return ".jpg"
	case constants.ImageFormatPNG:
		return ".png"
	case constants.ImageFormatWebP:
		return ".webp"
	default:
		return ""
	}
}

// Encode 按格式编码：webp 无损保留透明，png 保留透明，jpeg 铺白底
func Encode(w io.Writer, img image.Image, format string, jpegQuality int) error {
	switch NormalizeFormat(format) {
	case constants.ImageFormatWebP:
		return nativewebp.Encode(w, img, nil)
	case constants.ImageFormatPNG:
		return png.Encode(w, img)
	case constants.ImageFormatJPEG:
		if jpegQuality <= 0 || jpegQuality > 100 {
			jpegQuality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, Flatten(img, color.White), &jpeg.Options{Quality: jpegQuality})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Save 写入文件（先写临时文件再重命名）
func Save(path string, img image.Image, format string, jpegQuality int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*"+filepath.Ext(path))
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if err := Encode(tmp, img, format, jpegQuality); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
