package queue

import (
	"encoding/json"

	"github.com/whimsicalfrog/wf-admin/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCategorySKURewrite 分类编码变更后的 SKU 改写任务
	TaskCategorySKURewrite = constants.TaskCategorySKURewrite
)

// CategorySKURewritePayload SKU 改写任务载荷
type CategorySKURewritePayload struct {
	CategoryID uint   `json:"category_id"`
	OldCode    string `json:"old_code"`
	NewCode    string `json:"new_code"`
}

// NewCategorySKURewriteTask 创建 SKU 改写任务
func NewCategorySKURewriteTask(payload CategorySKURewritePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCategorySKURewrite, body), nil
}

// ParseCategorySKURewritePayload 解析 SKU 改写任务载荷
func ParseCategorySKURewritePayload(task *asynq.Task) (CategorySKURewritePayload, error) {
	var payload CategorySKURewritePayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
