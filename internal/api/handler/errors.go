package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffhub/internal/dto"
	"staffhub/internal/service"
	pkgerrors "staffhub/pkg/errors"
	"staffhub/pkg/response"
)

// 业务规则错误码
const (
	codeValidation    = 10001
	codeForbidden     = 10003
	codeOverlap       = 40901
	codeLeaveConflict = 40902
	codeDuplicate     = 40903
)

// bindFailed 请求绑定失败，details 为首个出错字段
func bindFailed(c *gin.Context, err error) {
	field, msg := dto.DescribeBindError(err)
	response.ErrorWithDetails(c, http.StatusBadRequest, codeValidation, msg, field)
}

// handleCommonError 规则错误按类型映射，越权 403，其余 500
func handleCommonError(c *gin.Context, err error) {
	if re, ok := pkgerrors.AsRule(err); ok {
		switch re.Kind {
		case pkgerrors.KindOverlap:
			response.Conflict(c, codeOverlap, re.Message, re.Field)
		case pkgerrors.KindLeaveConflict:
			response.Conflict(c, codeLeaveConflict, re.Message, re.Field)
		case pkgerrors.KindDuplicate:
			response.Conflict(c, codeDuplicate, re.Message, re.Field)
		default:
			response.ErrorWithDetails(c, http.StatusBadRequest, codeValidation, re.Message, re.Field)
		}
		return
	}

	if errors.Is(err, service.ErrForbidden) {
		response.Forbidden(c, codeForbidden, err.Error())
		return
	}
	response.InternalError(c)
}

// validationResult 预校验接口的结果：规则错误渲染为 valid=false，其他错误交由 onErr 处理
func validationResult(c *gin.Context, err error, onErr func(*gin.Context, error)) {
	if err == nil {
		response.OK(c, dto.ValidationResultResponse{Valid: true})
		return
	}
	if re, ok := pkgerrors.AsRule(err); ok {
		response.OK(c, dto.ValidationResultResponse{
			Kind:    string(re.Kind),
			Field:   re.Field,
			Message: re.Message,
		})
		return
	}
	onErr(c, err)
}
