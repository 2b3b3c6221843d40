package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/cache"
	"github.com/whimsicalfrog/wf-admin/internal/config"
	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/metrics"
	"github.com/whimsicalfrog/wf-admin/internal/repository"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
)

const (
	cleanupStateFile      = "state.json"
	cleanupArchiveDir     = "archive"
	cleanupLockTTL        = 5 * time.Minute
	defaultCleanupBatch   = 50
	cleanupLockKeyPrefix  = "image_cleanup:"
	cleanupManifestLimit  = 5000
	cleanupStateFilePerms = 0o644
)

var imageReferencePattern = regexp.MustCompile(`(?i)(?:https?:)?[A-Za-z0-9_./-]+\.(?:png|jpe?g|webp|gif|svg|avif)`)

// cleanupImageExts 参与清理的文件扩展名，其余文件（.gitkeep、说明文档等）不枚举
var cleanupImageExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
	".gif":  {},
	".svg":  {},
	".avif": {},
}

// CleanupState 清理任务持久化状态
type CleanupState struct {
	JobID              string    `json:"job_id"`
	Phase              string    `json:"phase"`
	DryRun             bool      `json:"dry_run"`
	Files              []string  `json:"files"`
	References         []string  `json:"references"`
	Cursor             int       `json:"cursor"`
	Archived           int       `json:"archived"`
	SkippedWhitelisted int       `json:"skipped_whitelisted"`
	Kept               int       `json:"kept"`
	ArchivedFiles      []string  `json:"archived_files"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CleanupInput 清理请求
type CleanupInput struct {
	Action string
	JobID  string
	DryRun bool
}

// CleanupProgress 清理进度
type CleanupProgress struct {
	JobID              string `json:"job_id"`
	Phase              string `json:"phase"`
	DryRun             bool   `json:"dry_run"`
	Processed          int    `json:"processed"`
	Total              int    `json:"total"`
	Archived           int    `json:"archived"`
	SkippedWhitelisted int    `json:"skipped_whitelisted"`
	Kept               int    `json:"kept"`
	Done               bool   `json:"done"`
}

// ImageCleanupService 分步执行的未引用图片归档任务
// 同一任务的步骤串行：进程内互斥 + Redis 锁
type ImageCleanupService struct {
	cfg       config.ImagesConfig
	imageRepo repository.ItemImageRepository
	metrics   *metrics.Collector
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewImageCleanupService 创建图片清理服务
func NewImageCleanupService(cfg config.ImagesConfig, imageRepo repository.ItemImageRepository, collector *metrics.Collector) *ImageCleanupService {
	if cfg.CleanupBatchSize <= 0 {
		cfg.CleanupBatchSize = defaultCleanupBatch
	}
	return &ImageCleanupService{
		cfg:       cfg,
		imageRepo: imageRepo,
		metrics:   collector,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Run 处理 start/step 请求
func (s *ImageCleanupService) Run(ctx context.Context, input CleanupInput) (*CleanupProgress, error) {
	switch strings.ToLower(strings.TrimSpace(input.Action)) {
	case constants.CleanupActionStart:
		return s.Start(input.DryRun)
	case constants.CleanupActionStep:
		return s.Step(ctx, input.JobID)
	default:
		return nil, ErrCleanupActionInvalid
	}
}

// Start 创建新任务，停在 init 阶段
func (s *ImageCleanupService) Start(dryRun bool) (*CleanupProgress, error) {
	now := s.now()
	state := &CleanupState{
		JobID:     uuid.NewString(),
		Phase:     constants.CleanupPhaseInit,
		DryRun:    dryRun,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.saveState(state); err != nil {
		return nil, err
	}
	logger.Infow("image_cleanup_started", "job_id", state.JobID, "dry_run", dryRun)
	return state.progress(), nil
}

// Step 推进一个阶段单元；complete 后重复调用保持不变
func (s *ImageCleanupService) Step(ctx context.Context, jobID string) (progress *CleanupProgress, err error) {
	jobID = strings.TrimSpace(jobID)
	if _, parseErr := uuid.Parse(jobID); parseErr != nil {
		return nil, ErrCleanupJobNotFound
	}

	local := s.jobMutex(jobID)
	if !local.TryLock() {
		return nil, ErrCleanupJobBusy
	}
	defer local.Unlock()

	lock, ok, err := cache.TryLock(ctx, cleanupLockKeyPrefix+jobID, cleanupLockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCleanupJobBusy
	}
	defer func() {
		if releaseErr := lock.Release(context.Background()); releaseErr != nil {
			logger.Warnw("image_cleanup_lock_release_failed", "job_id", jobID, "error", releaseErr)
		}
	}()

	state, err := s.loadState(jobID)
	if err != nil {
		if errors.Is(err, ErrCleanupJobNotFound) {
			s.forgetJob(jobID)
		}
		return nil, err
	}
	if state.Phase == constants.CleanupPhaseComplete {
		s.forgetJob(jobID)
		return state.progress(), nil
	}

	log := logger.SW("job_id", jobID, "phase", state.Phase)
	switch state.Phase {
	case constants.CleanupPhaseInit:
		err = s.enumerate(state)
	case constants.CleanupPhaseBuildingReferences:
		err = s.buildReferences(state)
	case constants.CleanupPhaseArchiving:
		err = s.archiveBatch(state)
	default:
		return nil, ErrCleanupJobNotFound
	}
	if err != nil {
		s.metrics.ObserveJob(constants.JobImageCleanup, s.now().Sub(state.CreatedAt), err)
		log.Errorw("image_cleanup_step_failed", "error", err)
		return nil, err
	}

	state.UpdatedAt = s.now()
	if err := s.saveState(state); err != nil {
		return nil, err
	}
	log.Infow("image_cleanup_step", "next_phase", state.Phase, "processed", state.Cursor, "total", len(state.Files))
	if state.Phase == constants.CleanupPhaseComplete {
		s.forgetJob(jobID)
		s.metrics.ObserveJob(constants.JobImageCleanup, state.UpdatedAt.Sub(state.CreatedAt), nil)
		s.metrics.AddJobRecords(constants.JobImageCleanup, "archived", state.Archived)
		s.metrics.AddJobRecords(constants.JobImageCleanup, "kept", state.Kept)
		s.metrics.AddJobRecords(constants.JobImageCleanup, "whitelisted", state.SkippedWhitelisted)
	}
	return state.progress(), nil
}

// Status 读取任务状态
func (s *ImageCleanupService) Status(jobID string) (*CleanupProgress, error) {
	jobID = strings.TrimSpace(jobID)
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, ErrCleanupJobNotFound
	}
	state, err := s.loadState(jobID)
	if err != nil {
		return nil, err
	}
	return state.progress(), nil
}

func (s *ImageCleanupService) enumerate(state *CleanupState) error {
	root, err := filepath.Abs(s.cfg.Root)
	if err != nil {
		return err
	}
	jobRoot, err := filepath.Abs(s.cfg.CleanupJobDir)
	if err != nil {
		return err
	}
	files := make([]string, 0)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) && path == root {
				return filepath.SkipDir
			}
			return walkErr
		}
		if d.IsDir() {
			if path == jobRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := cleanupImageExts[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)
	state.Files = files
	state.Phase = constants.CleanupPhaseBuildingReferences
	return nil
}

func (s *ImageCleanupService) buildReferences(state *CleanupState) error {
	values, err := s.imageRepo.ListReferencedPaths()
	if err != nil {
		return err
	}
	seen := make(map[string]struct{})
	for _, value := range values {
		for _, match := range imageReferencePattern.FindAllString(value, -1) {
			if rel, ok := s.normalizeReference(match); ok {
				seen[rel] = struct{}{}
			}
		}
	}
	refs := make([]string, 0, len(seen))
	for rel := range seen {
		refs = append(refs, rel)
	}
	sort.Strings(refs)
	state.References = refs
	state.Phase = constants.CleanupPhaseArchiving
	return nil
}

func (s *ImageCleanupService) archiveBatch(state *CleanupState) error {
	root, err := filepath.Abs(s.cfg.Root)
	if err != nil {
		return err
	}
	referenced := make(map[string]struct{}, len(state.References))
	for _, ref := range state.References {
		referenced[ref] = struct{}{}
	}
	archiveRoot := filepath.Join(s.jobDir(state.JobID), cleanupArchiveDir)

	end := state.Cursor + s.cfg.CleanupBatchSize
	if end > len(state.Files) {
		end = len(state.Files)
	}
	for _, rel := range state.Files[state.Cursor:end] {
		switch {
		case s.whitelisted(rel):
			state.SkippedWhitelisted++
		case isReferenced(referenced, rel):
			state.Kept++
		case state.DryRun:
			state.Archived++
			state.recordArchived(rel)
		default:
			target := filepath.Join(archiveRoot, filepath.FromSlash(rel))
			if err := moveFile(filepath.Join(root, filepath.FromSlash(rel)), target); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					logger.Warnw("image_cleanup_file_missing", "job_id", state.JobID, "path", rel)
					break
				}
				return err
			}
			state.Archived++
			state.recordArchived(rel)
		}
		state.Cursor++
	}
	if state.Cursor >= len(state.Files) {
		state.Phase = constants.CleanupPhaseComplete
	}
	return nil
}

func (s *ImageCleanupService) whitelisted(rel string) bool {
	for _, pattern := range s.cfg.CleanupWhitelist {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// normalizeReference 绝对 URL 取其路径部分，再去掉前导斜杠与公开前缀，越界路径忽略
func (s *ImageCleanupService) normalizeReference(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "//") {
		parsed, err := url.Parse(ref)
		if err != nil {
			return "", false
		}
		ref = parsed.Path
	}
	ref = strings.TrimPrefix(ref, "/")
	if prefix := strings.Trim(s.cfg.PublicPrefix, "/"); prefix != "" {
		ref = strings.TrimPrefix(ref, prefix+"/")
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(ref)))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}

func isReferenced(referenced map[string]struct{}, rel string) bool {
	if _, ok := referenced[rel]; ok {
		return true
	}
	// 同名不同扩展的衍生格式（webp/png 双格式）跟随原图保留
	base := strings.TrimSuffix(rel, filepath.Ext(rel))
	for _, ext := range []string{".webp", ".png", ".jpg", ".jpeg"} {
		if _, ok := referenced[base+ext]; ok {
			return true
		}
	}
	return false
}

func (s *ImageCleanupService) jobMutex(jobID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[jobID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[jobID] = m
	}
	return m
}

// forgetJob 释放已结束任务的进程内互斥量
func (s *ImageCleanupService) forgetJob(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, jobID)
}

func (s *ImageCleanupService) jobDir(jobID string) string {
	return filepath.Join(s.cfg.CleanupJobDir, jobID)
}

func (s *ImageCleanupService) loadState(jobID string) (*CleanupState, error) {
	raw, err := os.ReadFile(filepath.Join(s.jobDir(jobID), cleanupStateFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrCleanupJobNotFound
		}
		return nil, err
	}
	var state CleanupState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *ImageCleanupService) saveState(state *CleanupState) error {
	dir := s.jobDir(state.JobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(dir, cleanupStateFile+".tmp")
	if err := os.WriteFile(tmp, raw, cleanupStateFilePerms); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(dir, cleanupStateFile))
}

func (st *CleanupState) recordArchived(rel string) {
	if len(st.ArchivedFiles) < cleanupManifestLimit {
		st.ArchivedFiles = append(st.ArchivedFiles, rel)
	}
}

func (st *CleanupState) progress() *CleanupProgress {
	return &CleanupProgress{
		JobID:              st.JobID,
		Phase:              st.Phase,
		DryRun:             st.DryRun,
		Processed:          st.Cursor,
		Total:              len(st.Files),
		Archived:           st.Archived,
		SkippedWhitelisted: st.SkippedWhitelisted,
		Kept:               st.Kept,
		Done:               st.Phase == constants.CleanupPhaseComplete,
	}
}

// moveFile 先尝试 rename，跨设备时复制后删除
func moveFile(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
