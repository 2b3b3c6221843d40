package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrOrderNotFound         = errors.New("order not found")
	ErrItemNotFound          = errors.New("item not found")
	ErrItemExists            = errors.New("item sku already exists")
	ErrColorNotFound         = errors.New("item color not found")
	ErrSizeNotFound          = errors.New("item size not found")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryExists        = errors.New("category name or code already exists")
	ErrCategoryInUse         = errors.New("category still has items")
	ErrCascadeNotFound       = errors.New("cascade setting not found")
	ErrAIProviderUnknown     = errors.New("unknown ai provider")
	ErrAIOperationUnknown    = errors.New("unknown ai operation")
	ErrAIActionUnknown       = errors.New("unknown ai action")
	ErrImagePathInvalid      = errors.New("image path outside image root")
	ErrCleanupJobNotFound    = errors.New("cleanup job not found")
	ErrCleanupJobBusy        = errors.New("cleanup job busy")
	ErrCleanupActionInvalid  = errors.New("cleanup action invalid")
	ErrTemplateNotFound      = errors.New("email template not found")
	ErrTemplateAssigned      = errors.New("email template still assigned")
	ErrCampaignNotFound      = errors.New("newsletter campaign not found")
	ErrCampaignSent          = errors.New("newsletter campaign already sent")
	ErrSubscriberExists      = errors.New("subscriber already exists")
	ErrSubscriberNotFound    = errors.New("subscriber not found")
	ErrRoomAssignmentMissing = errors.New("room category assignment not found")
	ErrRoomAssignmentExists  = errors.New("category already assigned to room")
	ErrMarketingNotFound     = errors.New("marketing suggestion not found")
	ErrPricingKindInvalid    = errors.New("pricing kind invalid")
	ErrSKURewriteEnqueueFail = errors.New("sku rewrite enqueue failed")
)

// ValidationError 携带字段的校验错误，errors.Is(err, ErrValidation) 为 true
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is 支持 errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
