package models

import "time"

// EmailTemplate 邮件模板表
type EmailTemplate struct {
	ID           uint        `gorm:"primarykey" json:"id"`                                 // 主键
	TemplateName string      `gorm:"type:varchar(150);not null" json:"template_name"`      // 模板名称
	TemplateType string      `gorm:"type:varchar(50);index;not null" json:"template_type"` // 模板类型
	Subject      string      `gorm:"type:varchar(255);not null" json:"subject"`            // 主题
	HTMLContent  string      `gorm:"type:text" json:"html_content"`                        // HTML 正文
	TextContent  string      `gorm:"type:text" json:"text_content"`                        // 纯文本正文
	Description  string      `gorm:"type:text" json:"description"`                         // 描述
	Variables    StringArray `gorm:"type:json" json:"variables"`                           // 可用变量
	IsActive     bool        `gorm:"not null" json:"is_active"`                            // 是否启用
	CreatedAt    time.Time   `json:"created_at"`                                           // 创建时间
	UpdatedAt    time.Time   `json:"updated_at"`                                           // 更新时间
}

// TableName 指定表名
func (EmailTemplate) TableName() string {
	return "email_templates"
}

// EmailTemplateAssignment 邮件类型与模板的绑定
type EmailTemplateAssignment struct {
	EmailType  string    `gorm:"primaryKey;type:varchar(50)" json:"email_type"` // 邮件类型
	TemplateID uint      `gorm:"not null;index" json:"template_id"`             // 模板ID
	UpdatedAt  time.Time `json:"updated_at"`                                    // 更新时间
}

// TableName 指定表名
func (EmailTemplateAssignment) TableName() string {
	return "email_template_assignments"
}

// NewsletterCampaign 通讯活动表
type NewsletterCampaign struct {
	ID          uint       `gorm:"primarykey" json:"id"`                          // 主键
	Subject     string     `gorm:"type:varchar(255);not null" json:"subject"`     // 主题
	Content     string     `gorm:"type:text" json:"content"`                      // 正文
	Status      string     `gorm:"type:varchar(20);index;not null" json:"status"` // draft / scheduled / sent
	ScheduledAt *time.Time `json:"scheduled_at"`                                  // 计划发送时间
	SentAt      *time.Time `json:"sent_at"`                                       // 发送时间
	CreatedAt   time.Time  `json:"created_at"`                                    // 创建时间
	UpdatedAt   time.Time  `json:"updated_at"`                                    // 更新时间
}

// TableName 指定表名
func (NewsletterCampaign) TableName() string {
	return "newsletter_campaigns"
}

// NewsletterSubscriber 订阅者表
type NewsletterSubscriber struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                // 主键
	Email        string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"email"` // 邮箱
	FirstName    string    `gorm:"type:varchar(100)" json:"first_name"`                 // 名
	IsActive     bool      `gorm:"not null;index" json:"is_active"`                     // 是否订阅中
	SubscribedAt time.Time `json:"subscribed_at"`                                       // 订阅时间
	UpdatedAt    time.Time `json:"updated_at"`                                          // 更新时间
}

// TableName 指定表名
func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}
