package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
)

func TestRegisterValidators_CustomTags(t *testing.T) {
	RegisterValidators()
	RegisterValidators() // 重复注册不应 panic

	ok := &LeaveRequest{StartDate: "2024-04-01", EndDate: "2024-04-10"}
	if err := binding.Validator.ValidateStruct(ok); err != nil {
		t.Fatalf("合法请求应通过: %v", err)
	}

	bad := &LeaveRequest{StartDate: "2024/04/01", EndDate: "2024-04-10"}
	err := binding.Validator.ValidateStruct(bad)
	if err == nil {
		t.Fatal("非法日期应失败")
	}
	field, msg := DescribeBindError(err)
	if field != "start_date" {
		t.Errorf("期望字段 start_date，实际=%s (%s)", field, msg)
	}
}

func TestRegisterValidators_ProjectStatusAndRole(t *testing.T) {
	RegisterValidators()

	req := &CreateProjectRequest{Name: "Apollo", StartDate: "2024-01-01", Status: "Archived"}
	field, _ := DescribeBindError(binding.Validator.ValidateStruct(req))
	if field != "status" {
		t.Errorf("期望字段 status，实际=%s", field)
	}

	req.Status = "In Progress"
	if err := binding.Validator.ValidateStruct(req); err != nil {
		t.Errorf("合法状态应通过: %v", err)
	}

	if err := binding.Validator.ValidateStruct(&AssignRoleRequest{Role: "leader"}); err == nil {
		t.Error("未知角色应失败")
	}
	if err := binding.Validator.ValidateStruct(&AssignRoleRequest{Role: "manager"}); err != nil {
		t.Errorf("manager 应通过: %v", err)
	}
}

func TestDescribeBindError_NonValidation(t *testing.T) {
	field, msg := DescribeBindError(nil)
	if field != "" || msg == "" {
		t.Errorf("非校验错误应无字段，实际 field=%q msg=%q", field, msg)
	}
}

func TestPaginationRequest_Defaults(t *testing.T) {
	var p PaginationRequest
	if p.GetPage() != 1 || p.GetPageSize() != 20 || p.GetOffset() != 0 {
		t.Errorf("默认分页不符: page=%d size=%d", p.GetPage(), p.GetPageSize())
	}
	p = PaginationRequest{Page: 3, PageSize: 10}
	if p.GetOffset() != 20 {
		t.Errorf("期望偏移 20，实际=%d", p.GetOffset())
	}
}
