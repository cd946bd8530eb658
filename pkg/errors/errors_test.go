package errors

import (
	"errors"
	"testing"
)

func TestRuleError_IsMatchesKind(t *testing.T) {
	var err error = Overlap("重叠")
	if !errors.Is(err, ErrOverlap) {
		t.Error("期望匹配 ErrOverlap")
	}
	if errors.Is(err, ErrDuplicate) {
		t.Error("不应匹配 ErrDuplicate")
	}

	if !errors.Is(LeaveConflict("x"), ErrLeaveConflict) {
		t.Error("期望匹配 ErrLeaveConflict")
	}
	if !errors.Is(Duplicate("x"), ErrDuplicate) {
		t.Error("期望匹配 ErrDuplicate")
	}
	if !errors.Is(Validation("hours_spent", "x"), ErrValidation) {
		t.Error("期望匹配 ErrValidation")
	}
}

func TestRuleError_AsRuleKeepsField(t *testing.T) {
	err := Validation("end_date", "结束日期不能早于开始日期")

	re, ok := AsRule(err)
	if !ok {
		t.Fatal("期望提取到 RuleError")
	}
	if re.Field != "end_date" || re.Kind != KindValidation {
		t.Errorf("字段或类型不符: %+v", re)
	}
	if re.Error() != "end_date: 结束日期不能早于开始日期" {
		t.Errorf("错误信息不符: %s", re.Error())
	}
}

func TestInfra(t *testing.T) {
	if Infra(nil) != nil {
		t.Error("nil 应原样返回")
	}

	cause := errors.New("connection refused")
	err := Infra(cause)
	if !errors.Is(err, ErrInfrastructure) {
		t.Error("期望匹配 ErrInfrastructure")
	}
	if !errors.Is(err, cause) {
		t.Error("应保留原始错误")
	}
	if _, ok := AsRule(err); ok {
		t.Error("基础设施错误不应是 RuleError")
	}
	if Infra(err) != err {
		t.Error("重复包装应原样返回")
	}
}
