package service

import (
	"regexp"
	"sort"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"
)

var templatePlaceholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// EmailTemplateInput 邮件模板输入
type EmailTemplateInput struct {
	TemplateName string
	TemplateType string
	Subject      string
	HTMLContent  string
	TextContent  string
	Description  string
	Variables    []string
	IsActive     *bool
}

// EmailPreview 模板预览
type EmailPreview struct {
	Subject     string   `json:"subject"`
	HTMLContent string   `json:"html_content"`
	TextContent string   `json:"text_content"`
	Missing     []string `json:"missing_variables"`
}

// EmailTemplateService 邮件模板管理（不负责发送）
type EmailTemplateService struct {
	repo repository.EmailTemplateRepository
}

// NewEmailTemplateService 创建邮件模板服务
func NewEmailTemplateService(repo repository.EmailTemplateRepository) *EmailTemplateService {
	return &EmailTemplateService{repo: repo}
}

// List 模板列表，可按类型过滤
func (s *EmailTemplateService) List(templateType string) ([]models.EmailTemplate, error) {
	return s.repo.List(strings.TrimSpace(templateType))
}

// Get 获取模板
func (s *EmailTemplateService) Get(id uint) (*models.EmailTemplate, error) {
	template, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}
	return template, nil
}

// Create 创建模板；未声明变量时从正文提取
func (s *EmailTemplateService) Create(input EmailTemplateInput) (*models.EmailTemplate, error) {
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}
	template := &models.EmailTemplate{IsActive: true}
	applyTemplateInput(template, input)
	if err := s.repo.Create(template); err != nil {
		return nil, err
	}
	return template, nil
}

// Update 更新模板
func (s *EmailTemplateService) Update(id uint, input EmailTemplateInput) (*models.EmailTemplate, error) {
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}
	template, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	applyTemplateInput(template, input)
	if err := s.repo.Update(template); err != nil {
		return nil, err
	}
	return template, nil
}

// Delete 删除模板，仍被绑定时拒绝
func (s *EmailTemplateService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	count, err := s.repo.CountAssignmentsByTemplate(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrTemplateAssigned
	}
	return s.repo.Delete(id)
}

// ListAssignments 邮件类型绑定列表
func (s *EmailTemplateService) ListAssignments() ([]models.EmailTemplateAssignment, error) {
	return s.repo.ListAssignments()
}

// Assign 把邮件类型绑定到模板
func (s *EmailTemplateService) Assign(emailType string, templateID uint) (*models.EmailTemplateAssignment, error) {
	emailType = strings.ToLower(strings.TrimSpace(emailType))
	if !isEmailType(emailType) {
		return nil, newValidationError("email_type", "unknown email type %q", emailType)
	}
	template, err := s.Get(templateID)
	if err != nil {
		return nil, err
	}
	if !template.IsActive {
		return nil, newValidationError("template_id", "template is inactive")
	}
	assignment := &models.EmailTemplateAssignment{EmailType: emailType, TemplateID: template.ID}
	if err := s.repo.UpsertAssignment(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// Preview 用变量替换 {var} 占位符，未提供的变量原样保留并列出
func (s *EmailTemplateService) Preview(id uint, variables map[string]string) (*EmailPreview, error) {
	template, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	pairs := make([]string, 0, len(variables)*2)
	for key, value := range variables {
		pairs = append(pairs, "{"+key+"}", value)
	}
	replacer := strings.NewReplacer(pairs...)

	missing := make(map[string]struct{})
	for _, name := range extractPlaceholders(template.Subject, template.HTMLContent, template.TextContent) {
		if _, ok := variables[name]; !ok {
			missing[name] = struct{}{}
		}
	}
	missingList := make([]string, 0, len(missing))
	for name := range missing {
		missingList = append(missingList, name)
	}
	sort.Strings(missingList)

	return &EmailPreview{
		Subject:     replacer.Replace(template.Subject),
		HTMLContent: replacer.Replace(template.HTMLContent),
		TextContent: replacer.Replace(template.TextContent),
		Missing:     missingList,
	}, nil
}

func validateTemplateInput(input EmailTemplateInput) error {
	if strings.TrimSpace(input.TemplateName) == "" {
		return newValidationError("template_name", "required")
	}
	if !isEmailType(strings.ToLower(strings.TrimSpace(input.TemplateType))) {
		return newValidationError("template_type", "unknown email type %q", input.TemplateType)
	}
	if strings.TrimSpace(input.Subject) == "" {
		return newValidationError("subject", "required")
	}
	if strings.TrimSpace(input.HTMLContent) == "" && strings.TrimSpace(input.TextContent) == "" {
		return newValidationError("html_content", "html_content or text_content required")
	}
	return nil
}

func applyTemplateInput(template *models.EmailTemplate, input EmailTemplateInput) {
	template.TemplateName = strings.TrimSpace(input.TemplateName)
	template.TemplateType = strings.ToLower(strings.TrimSpace(input.TemplateType))
	template.Subject = strings.TrimSpace(input.Subject)
	template.HTMLContent = input.HTMLContent
	template.TextContent = input.TextContent
	template.Description = strings.TrimSpace(input.Description)
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}
	variables := cleanList(input.Variables, 0)
	if len(variables) == 0 {
		variables = extractPlaceholders(template.Subject, template.HTMLContent, template.TextContent)
	}
	template.Variables = variables
}

// extractPlaceholders 按首次出现顺序列出 {var} 名称
func extractPlaceholders(texts ...string) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, text := range texts {
		for _, match := range templatePlaceholderPattern.FindAllStringSubmatch(text, -1) {
			if _, ok := seen[match[1]]; ok {
				continue
			}
			seen[match[1]] = struct{}{}
			names = append(names, match[1])
		}
	}
	return names
}

func isEmailType(value string) bool {
	for _, t := range constants.EmailTypes {
		if t == value {
			return true
		}
	}
	return false
}
