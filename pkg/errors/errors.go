package errors

import (
	"errors"
	"fmt"
)

// ── 业务规则拒绝 ──

// Kind 业务规则错误分类
type Kind string

const (
	KindOverlap       Kind = "overlap"        // 请假与请假重叠
	KindLeaveConflict Kind = "leave_conflict" // 工时与请假冲突
	KindDuplicate     Kind = "duplicate"      // 相同键记录已存在
	KindValidation    Kind = "validation"     // 字段级校验失败
)

// 用于 errors.Is 判断的哨兵错误
var (
	ErrOverlap       = errors.New("请假时间段重叠")
	ErrLeaveConflict = errors.New("该时间段处于请假中")
	ErrDuplicate     = errors.New("记录已存在")
	ErrValidation    = errors.New("参数校验失败")
)

// ErrInfrastructure 持久层故障（连接、底层约束等），与业务规则错误区分
var ErrInfrastructure = errors.New("基础设施故障")

// RuleError 结构化的业务规则拒绝，调用方可据此渲染字段级或表单级错误
type RuleError struct {
	Kind    Kind
	Field   string // 关联字段，表单级错误为空
	Message string
}

func (e *RuleError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Is 使 errors.Is(err, ErrOverlap) 等判断生效
func (e *RuleError) Is(target error) bool {
	switch target {
	case ErrOverlap:
		return e.Kind == KindOverlap
	case ErrLeaveConflict:
		return e.Kind == KindLeaveConflict
	case ErrDuplicate:
		return e.Kind == KindDuplicate
	case ErrValidation:
		return e.Kind == KindValidation
	}
	return false
}

// Overlap 构造请假重叠错误
func Overlap(message string) *RuleError {
	return &RuleError{Kind: KindOverlap, Message: message}
}

// LeaveConflict 构造工时-请假冲突错误
func LeaveConflict(message string) *RuleError {
	return &RuleError{Kind: KindLeaveConflict, Message: message}
}

// Duplicate 构造重复记录错误
func Duplicate(message string) *RuleError {
	return &RuleError{Kind: KindDuplicate, Message: message}
}

// DuplicateField 构造带字段的重复记录错误（如唯一邮箱）
func DuplicateField(field, message string) *RuleError {
	return &RuleError{Kind: KindDuplicate, Field: field, Message: message}
}

// Validation 构造字段级校验错误
func Validation(field, message string) *RuleError {
	return &RuleError{Kind: KindValidation, Field: field, Message: message}
}

// AsRule 提取 RuleError
func AsRule(err error) (*RuleError, bool) {
	var re *RuleError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// Infra 将持久层错误包装为基础设施故障，nil 或已包装的错误原样返回
func Infra(err error) error {
	if err == nil || errors.Is(err, ErrInfrastructure) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInfrastructure, err)
}
