package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/config"
	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/imaging"
	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/metrics"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultBackgroundMaxWidth  = 1920
	defaultBackgroundMaxHeight = 1080
	aiCropPrompt               = `Locate the main product in this photo. Reply with JSON only: {"left":0.0,"top":0.0,"right":1.0,"bottom":1.0} where each value is a fraction of the image width/height.`
)

var (
	defaultCropFormats = []string{constants.ImageFormatWebP, constants.ImageFormatPNG}
	imageNamePattern   = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
)

// ProcessingStep 处理步骤记录
type ProcessingStep struct {
	Stage   string `json:"stage"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ImageSize 图片尺寸
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AutoCropInput 自动裁剪输入
type AutoCropInput struct {
	SourcePath  string
	SKU         string
	Formats     []string
	UseAI       bool
	TrimPercent *float64
}

// AutoCropResult 自动裁剪结果，失败也以 Success=false 返回
type AutoCropResult struct {
	Success         bool              `json:"success"`
	Method          string            `json:"method,omitempty"`
	Box             *imaging.Box      `json:"box,omitempty"`
	ProcessingSteps []ProcessingStep  `json:"processing_steps"`
	Outputs         map[string]string `json:"outputs"`
	OriginalSize    *ImageSize        `json:"original_size,omitempty"`
	CroppedSize     *ImageSize        `json:"cropped_size,omitempty"`
}

func (r *AutoCropResult) step(stage, status, format string, args ...interface{}) {
	r.ProcessingSteps = append(r.ProcessingSteps, ProcessingStep{
		Stage:   stage,
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	})
}

// DualFormatInput 背景图双格式输入
type DualFormatInput struct {
	SourcePath string
	MaxWidth   int
	MaxHeight  int
	Name       string
}

// DualFormatResult 背景图双格式结果
type DualFormatResult struct {
	WebPPath string    `json:"webp_path"`
	PNGPath  string    `json:"png_path"`
	Size     ImageSize `json:"size"`
}

// cropStrategy 裁剪框定位策略，按顺序尝试
type cropStrategy interface {
	Method() string
	Locate(ctx context.Context, img image.Image, raw []byte) (imaging.Box, error)
}

type aiVisionStrategy struct {
	providers *AIProviderService
}

func (aiVisionStrategy) Method() string { return constants.CropMethodAI }

func (s aiVisionStrategy) Locate(ctx context.Context, _ image.Image, raw []byte) (imaging.Box, error) {
	client, err := s.providers.Client(ctx, "", "")
	if err != nil {
		return imaging.Box{}, err
	}
	if !client.Live() {
		return imaging.Box{}, errAIVisionUnavailable
	}
	var box imaging.Box
	if err := client.AnalyzeImageJSON(ctx, aiCropPrompt, raw, "", &box); err != nil {
		s.providers.Record(client.Provider(), "image_crop", metrics.OutcomeFailure)
		return imaging.Box{}, err
	}
	if err := box.Validate(); err != nil {
		s.providers.Record(client.Provider(), "image_crop", metrics.OutcomeFallback)
		return imaging.Box{}, err
	}
	s.providers.Record(client.Provider(), "image_crop", metrics.OutcomeSuccess)
	return box, nil
}

type edgeDetectionStrategy struct{}

func (edgeDetectionStrategy) Method() string { return constants.CropMethodEdgeDetection }

func (edgeDetectionStrategy) Locate(_ context.Context, img image.Image, _ []byte) (imaging.Box, error) {
	return imaging.DetectSubject(img, imaging.DefaultThreshold)
}

type fixedTrimStrategy struct {
	percent float64
}

func (fixedTrimStrategy) Method() string { return constants.CropMethodFixedTrim }

func (s fixedTrimStrategy) Locate(context.Context, image.Image, []byte) (imaging.Box, error) {
	return imaging.FixedTrim(s.percent), nil
}

var errAIVisionUnavailable = errors.New("ai provider not live")

// ImageProcessorService 图片自动裁剪与背景图处理
type ImageProcessorService struct {
	cfg       config.ImagesConfig
	providers *AIProviderService
	imageRepo repository.ItemImageRepository
	now       func() time.Time
}

// NewImageProcessorService 创建图片处理服务
func NewImageProcessorService(cfg config.ImagesConfig, providers *AIProviderService, imageRepo repository.ItemImageRepository) *ImageProcessorService {
	return &ImageProcessorService{
		cfg:       cfg,
		providers: providers,
		imageRepo: imageRepo,
		now:       time.Now,
	}
}

// AutoCrop 依次尝试 ai_vision → edge_detection → fixed_trim，裁剪后按请求格式输出
func (s *ImageProcessorService) AutoCrop(ctx context.Context, input AutoCropInput) *AutoCropResult {
	result := &AutoCropResult{
		ProcessingSteps: make([]ProcessingStep, 0, 8),
		Outputs:         make(map[string]string),
	}
	log := logger.SW("source_path", input.SourcePath, "sku", input.SKU)

	formats, err := normalizeFormats(input.Formats)
	if err != nil {
		result.step("validate", constants.StepStatusFailed, "%v", err)
		return result
	}
	sourceAbs, sourceRel, err := s.resolvePath(input.SourcePath)
	if err != nil {
		result.step("load", constants.StepStatusFailed, "%v", err)
		return result
	}
	raw, err := os.ReadFile(sourceAbs)
	if err != nil {
		result.step("load", constants.StepStatusFailed, "read source failed")
		log.Warnw("image_autocrop_read_failed", "error", err)
		return result
	}
	img, _, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		result.step("load", constants.StepStatusFailed, "decode source failed")
		log.Warnw("image_autocrop_decode_failed", "error", err)
		return result
	}
	bounds := img.Bounds()
	result.OriginalSize = &ImageSize{Width: bounds.Dx(), Height: bounds.Dy()}
	result.step("load", constants.StepStatusOK, "%dx%d", bounds.Dx(), bounds.Dy())

	box, method := s.locate(ctx, result, s.strategies(input), img, raw)
	result.Box = &box
	result.Method = method

	cropped := imaging.Crop(img, box, s.cfg.MaxDimension)
	size := cropped.Bounds()
	result.CroppedSize = &ImageSize{Width: size.Dx(), Height: size.Dy()}
	result.step("crop", constants.StepStatusOK, "%dx%d", size.Dx(), size.Dy())

	var primary string
	for _, format := range formats {
		rel := s.processedRel(sourceRel, imaging.Extension(format))
		target, _, err := s.resolvePath(rel)
		if err != nil {
			result.step("encode_"+format, constants.StepStatusFailed, "%v", err)
			continue
		}
		if err := imaging.Save(target, cropped, format, s.cfg.JPEGQuality); err != nil {
			result.step("encode_"+format, constants.StepStatusFailed, "write failed")
			log.Warnw("image_autocrop_write_failed", "format", format, "error", err)
			continue
		}
		public := s.publicPath(rel)
		result.Outputs[format] = public
		if primary == "" {
			primary = public
		}
		result.step("encode_"+format, constants.StepStatusOK, "%s", public)
	}
	result.Success = len(result.Outputs) > 0

	if !result.Success || strings.TrimSpace(input.SKU) == "" {
		result.step("provenance", constants.StepStatusSkipped, "")
		return result
	}
	if err := s.recordProvenance(strings.TrimSpace(input.SKU), primary, s.publicPath(sourceRel), result); err != nil {
		result.step("provenance", constants.StepStatusFailed, "save item image failed")
		log.Errorw("image_provenance_save_failed", "error", err)
		return result
	}
	result.step("provenance", constants.StepStatusOK, "")
	log.Infow("image_autocrop_completed", "method", method, "outputs", len(result.Outputs))
	return result
}

func (s *ImageProcessorService) strategies(input AutoCropInput) []cropStrategy {
	percent := s.cfg.FallbackTrimPercent
	if input.TrimPercent != nil {
		percent = *input.TrimPercent
	}
	list := make([]cropStrategy, 0, 3)
	if input.UseAI && s.providers != nil {
		list = append(list, aiVisionStrategy{providers: s.providers})
	}
	return append(list, edgeDetectionStrategy{}, fixedTrimStrategy{percent: percent})
}

// locate 返回首个成功策略的框；fixed_trim 总能成功
func (s *ImageProcessorService) locate(ctx context.Context, result *AutoCropResult, strategies []cropStrategy, img image.Image, raw []byte) (imaging.Box, string) {
	for _, strategy := range strategies {
		box, err := strategy.Locate(ctx, img, raw)
		if err == nil {
			err = box.Validate()
		}
		if err != nil {
			status := constants.StepStatusFailed
			if errors.Is(err, errAIVisionUnavailable) {
				status = constants.StepStatusSkipped
			}
			result.step(strategy.Method(), status, "%v", err)
			continue
		}
		result.step(strategy.Method(), constants.StepStatusOK, "")
		return box, strategy.Method()
	}
	return imaging.FixedTrim(imaging.MinSideFraction*100), constants.CropMethodFixedTrim
}

func (s *ImageProcessorService) recordProvenance(sku, imagePath, originalPath string, result *AutoCropResult) error {
	row, err := s.imageRepo.GetByPath(sku, imagePath)
	if err != nil {
		return err
	}
	if row == nil {
		row = &models.ItemImage{SKU: sku, ImagePath: imagePath}
	}
	outputs := make(map[string]interface{}, len(result.Outputs))
	for format, path := range result.Outputs {
		outputs[format] = path
	}
	processedAt := s.now()
	row.OriginalPath = originalPath
	row.ProcessedWithAI = result.Method == constants.CropMethodAI
	row.ProcessedAt = &processedAt
	row.TrimData = models.JSON{
		"method":        result.Method,
		"box":           result.Box,
		"original_size": result.OriginalSize,
		"cropped_size":  result.CroppedSize,
		"outputs":       outputs,
	}
	return s.imageRepo.Save(row)
}

// GenerateDualFormat 缩放背景图并同时输出 WebP 与 PNG
func (s *ImageProcessorService) GenerateDualFormat(input DualFormatInput) (*DualFormatResult, error) {
	sourceAbs, sourceRel, err := s.resolvePath(input.SourcePath)
	if err != nil {
		return nil, err
	}
	if input.MaxWidth < 0 || input.MaxHeight < 0 {
		return nil, newValidationError("max_width", "must be >= 0")
	}
	if input.MaxWidth == 0 {
		input.MaxWidth = defaultBackgroundMaxWidth
	}
	if input.MaxHeight == 0 {
		input.MaxHeight = defaultBackgroundMaxHeight
	}
	img, _, err := imaging.Open(sourceAbs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newValidationError("source_path", "file not found")
		}
		return nil, newValidationError("source_path", "unsupported image")
	}

	name := imageNamePattern.ReplaceAllString(strings.TrimSpace(input.Name), "-")
	if name == "" {
		name = imageNamePattern.ReplaceAllString(strings.TrimSuffix(filepath.Base(sourceRel), filepath.Ext(sourceRel)), "-")
	}
	if strings.Trim(name, "-") == "" {
		name = "background-" + uuid.NewString()[:8]
	}

	resized := imaging.Resize(img, input.MaxWidth, input.MaxHeight)
	result := &DualFormatResult{Size: ImageSize{Width: resized.Bounds().Dx(), Height: resized.Bounds().Dy()}}
	for _, format := range []string{constants.ImageFormatWebP, constants.ImageFormatPNG} {
		rel := filepath.Join(s.cfg.BackgroundDir, name+imaging.Extension(format))
		target, _, err := s.resolvePath(rel)
		if err != nil {
			return nil, err
		}
		if err := imaging.Save(target, resized, format, s.cfg.JPEGQuality); err != nil {
			return nil, err
		}
		if format == constants.ImageFormatWebP {
			result.WebPPath = s.publicPath(rel)
		} else {
			result.PNGPath = s.publicPath(rel)
		}
	}
	logger.Infow("image_background_generated", "source_path", input.SourcePath, "webp", result.WebPPath, "png", result.PNGPath)
	return result, nil
}

// ListItemImages 列出 SKU 的图片记录
func (s *ImageProcessorService) ListItemImages(sku string) ([]models.ItemImage, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, newValidationError("sku", "required")
	}
	return s.imageRepo.ListBySKU(sku)
}

// resolvePath 把请求路径（可带公开前缀）解析到图片根目录下，越界返回 ErrImagePathInvalid
func (s *ImageProcessorService) resolvePath(path string) (string, string, error) {
	return confineImagePath(s.cfg.Root, s.cfg.PublicPrefix, path)
}

// processedRel 输出路径在 ProcessedDir 下保留源文件的相对目录，不同目录的同名源图互不覆盖
func (s *ImageProcessorService) processedRel(sourceRel, ext string) string {
	base := strings.TrimSuffix(filepath.Base(sourceRel), filepath.Ext(sourceRel))
	return filepath.Join(s.cfg.ProcessedDir, filepath.Dir(sourceRel), base+ext)
}

func (s *ImageProcessorService) publicPath(rel string) string {
	return publicImagePath(s.cfg.PublicPrefix, rel)
}

func confineImagePath(root, publicPrefix, path string) (string, string, error) {
	path = strings.TrimSpace(filepath.ToSlash(path))
	path = strings.TrimPrefix(path, "/")
	if prefix := strings.Trim(filepath.ToSlash(publicPrefix), "/"); prefix != "" {
		path = strings.TrimPrefix(path, prefix+"/")
	}
	if path == "" {
		return "", "", ErrImagePathInvalid
	}
	rel := filepath.Clean(filepath.FromSlash(path))
	if rel == "." || filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", ErrImagePathInvalid
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", "", err
	}
	abs := filepath.Join(rootAbs, rel)
	check, err := filepath.Rel(rootAbs, abs)
	if err != nil || check == ".." || strings.HasPrefix(check, ".."+string(filepath.Separator)) {
		return "", "", ErrImagePathInvalid
	}
	return abs, rel, nil
}

func publicImagePath(prefix, rel string) string {
	rel = filepath.ToSlash(rel)
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return rel
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + rel
}

func normalizeFormats(formats []string) ([]string, error) {
	if len(formats) == 0 {
		return defaultCropFormats, nil
	}
	seen := make(map[string]struct{}, len(formats))
	out := make([]string, 0, len(formats))
	for _, raw := range formats {
		format := imaging.NormalizeFormat(raw)
		if imaging.Extension(format) == "" {
			return nil, newValidationError("formats", "unsupported format %q", raw)
		}
		if _, ok := seen[format]; ok {
			continue
		}
		seen[format] = struct{}{}
		out = append(out, format)
	}
	return out, nil
}
