package service

import (
	"errors"

	"go.uber.org/zap"

	pkgerrors "staffhub/pkg/errors"
)

// ── 跨模块业务错误 ──

var (
	ErrForbidden       = errors.New("无权操作该记录")
	ErrDashboardDenied = errors.New("当前角色无看板权限")
)

// businessErrors 所有模块的业务哨兵错误，classify 遇到时原样返回
var businessErrors = []error{
	ErrForbidden,
	ErrDashboardDenied,
	ErrInvalidCredentials,
	ErrTokenRevoked,
	ErrOldPasswordMismatch,
	ErrUserNotFound,
	ErrCannotDeleteSelf,
	ErrClientNotFound,
	ErrProjectNotFound,
	ErrLeaveNotFound,
	ErrTimeEntryNotFound,
	ErrAssignmentNotFound,
}

// classify 业务错误（RuleError 或模块哨兵）原样返回，其余记录日志后包装为基础设施故障
func classify(logger *zap.Logger, msg string, err error, fields ...zap.Field) error {
	if err == nil {
		return nil
	}
	if _, ok := pkgerrors.AsRule(err); ok {
		return err
	}
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	logger.Error(msg, append(fields, zap.Error(err))...)
	return pkgerrors.Infra(err)
}

func invalidDate(field string) error {
	return pkgerrors.Validation(field, "日期格式应为 YYYY-MM-DD")
}
